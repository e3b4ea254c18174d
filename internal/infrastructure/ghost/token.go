package ghost

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/ghost-admin/internal/core/domain"
)

const (
	tokenTTL      = 5 * time.Minute
	tokenAudience = "/admin/"
)

// GenerateToken signs a fresh Admin API token. The credential is parsed on
// every call and nothing is cached.
func (c *Client) GenerateToken() (string, error) {
	return SignAdminToken(*c.credential.Load(), c.now())
}

// SignAdminToken builds the HS256 token Ghost expects: kid is the key id,
// claims are iat, exp (iat+5m) and aud "/admin/".
func SignAdminToken(credential string, now time.Time) (string, error) {
	cred, err := domain.ParseCredential(credential)
	if err != nil {
		return "", err
	}

	iat := now.UTC().Truncate(time.Second)
	claims := jwt.MapClaims{
		"iat": iat.Unix(),
		"exp": iat.Add(tokenTTL).Unix(),
		"aud": tokenAudience,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t.Header["kid"] = cred.ID

	signed, err := t.SignedString(cred.Secret)
	if err != nil {
		return "", domain.NewAuthError(0, "sign token: "+err.Error())
	}
	return signed, nil
}
