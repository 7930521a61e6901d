package models

import (
	"errors"
	"fmt"
	"strings"
)

// ParseError signals that a required structural pattern was not found in
// source-site HTML after every fallback was exhausted. It always carries
// enough context for the operator to inspect the page by hand.
type ParseError struct {
	GroupID int
	Field   string
	Reason  string
}

func (e *ParseError) Error() string {
	if e.GroupID > 0 {
		return fmt.Sprintf("parse group %d: field %q: %s", e.GroupID, e.Field, e.Reason)
	}
	return fmt.Sprintf("parse: field %q: %s", e.Field, e.Reason)
}

// ErrGroupNotFound distinguishes the source site's "not found" error page
// from every other error page.
var ErrGroupNotFound = errors.New("group not found on source site")

// ClassificationError signals a slash-token shape that matched none of the
// classification rules. Defensive: the release is skipped, not the batch.
type ClassificationError struct {
	Tokens   []string
	Category Category
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("no classification rule matched tokens [%s] in category %s",
		strings.Join(e.Tokens, " / "), e.Category)
}

// ProtocolError signals an external response with an unrecognized shape.
// Fatal for the release it concerns; the batch continues.
type ProtocolError struct {
	Endpoint string
	Detail   string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unrecognized response from %s: %s", e.Endpoint, e.Detail)
}
