package enums

import "fmt"

// CommentStatus gates whether a comment is publicly visible.
type CommentStatus string

const (
	CommentStatusPending   CommentStatus = "pending"
	CommentStatusPublished CommentStatus = "published"
	CommentStatusHidden    CommentStatus = "hidden"
)

var validCommentStatuses = []CommentStatus{
	CommentStatusPending,
	CommentStatusPublished,
	CommentStatusHidden,
}

// String returns the literal value.
func (c CommentStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CommentStatus.
func (c CommentStatus) IsValid() bool {
	for _, candidate := range validCommentStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCommentStatus converts raw input into a CommentStatus.
func ParseCommentStatus(value string) (CommentStatus, error) {
	for _, candidate := range validCommentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid comment status %q", value)
}
