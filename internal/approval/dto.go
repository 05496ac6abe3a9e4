package approval

import "strings"

type RejectDTO struct {
	Comments string `json:"comments"`
}

// TrimmedComments returns the comments with surrounding whitespace removed.
func (d RejectDTO) TrimmedComments() string {
	return strings.TrimSpace(d.Comments)
}
