package domain

import (
	"encoding/hex"
	"strings"
)

// Credential is a parsed Admin API key of the form "<id>:<hex-secret>".
type Credential struct {
	ID     string
	Secret []byte
}

// ParseCredential splits and decodes an Admin API key. It is called for every
// token so a rotated key takes effect on the next request.
func ParseCredential(raw string) (Credential, error) {
	if strings.Count(raw, ":") != 1 {
		return Credential{}, NewAuthError(0, "invalid credential format")
	}
	id, secretHex, _ := strings.Cut(raw, ":")
	if id == "" {
		return Credential{}, NewAuthError(0, "invalid credential format")
	}

	secret, err := hex.DecodeString(secretHex)
	if err != nil || len(secret) == 0 {
		return Credential{}, NewAuthError(0, "invalid credential secret")
	}
	return Credential{ID: id, Secret: secret}, nil
}

// ValidateCredential applies the stricter checks used when an operator types a
// key in: the identifier must be alphanumeric (underscores allowed).
func ValidateCredential(raw string) error {
	cred, err := ParseCredential(raw)
	if err != nil {
		return err
	}
	for _, r := range cred.ID {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !isAlnum && r != '_' {
			return NewAuthError(0, "invalid credential format")
		}
	}
	return nil
}
