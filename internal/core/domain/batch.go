package domain

import "errors"

var (
	ErrDirectoryNotFound = errors.New("directory not found")
	ErrNoPostIDs         = errors.New("no post ids provided")
)

// BatchOp names a batch operation.
type BatchOp string

const (
	BatchCreate BatchOp = "create"
	BatchUpdate BatchOp = "update"
	BatchDelete BatchOp = "delete"
)

// ItemResult is the outcome of one batch item.
type ItemResult string

const (
	ResultOK       ItemResult = "ok"
	ResultFailed   ItemResult = "failed"
	ResultNotFound ItemResult = "not_found"
	ResultDryRun   ItemResult = "dry_run"
)

// BatchItem reports what happened to a single file or post id.
type BatchItem struct {
	Source string     `json:"source,omitempty" yaml:"source,omitempty"`
	PostID string     `json:"post_id,omitempty" yaml:"post_id,omitempty"`
	Title  string     `json:"title,omitempty" yaml:"title,omitempty"`
	Status PostStatus `json:"status,omitempty" yaml:"status,omitempty"`
	Result ItemResult `json:"result" yaml:"result"`
	Error  string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// BatchReport lists item outcomes in input order.
type BatchReport struct {
	Op       BatchOp     `json:"op" yaml:"op"`
	Items    []BatchItem `json:"items" yaml:"items"`
	Warnings []string    `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Count returns how many items ended with r.
func (b BatchReport) Count(r ItemResult) int {
	n := 0
	for _, it := range b.Items {
		if it.Result == r {
			n++
		}
	}
	return n
}

// Failed reports whether any item failed.
func (b BatchReport) Failed() bool {
	return b.Count(ResultFailed) > 0
}
