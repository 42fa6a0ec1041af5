package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors mapped to response statuses by the handlers: not-found
// errors become 404, the limit and code errors become 400, ErrForbidden
// becomes 403.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrTitleNotFound    = errors.New("title not found")
	ErrReviewNotFound   = errors.New("review not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrGenreNotFound    = errors.New("genre not found")

	ErrInvalidCode          = errors.New("invalid confirmation code")
	ErrReviewLimitExceeded  = errors.New("review limit exceeded")
	ErrCommentLimitExceeded = errors.New("comment limit exceeded")

	ErrForbidden = errors.New("author or moderator role required")
)

// FieldErrors accumulates per-field validation messages and is returned
// whole as the 400 response body.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(fe[field], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// AsFieldErrors unwraps err into FieldErrors if it carries any.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
