// Package commitref extracts short commit references from static build
// option labels such as "Static 42 (webs-static-42-20240109-abcd123)".
package commitref

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel is the normalized option text meaning no static build is selected.
const Sentinel = "no new static"

const (
	tokenSeparator = "-"
	refTerminator  = ")"
	refTokenIndex  = 4
)

var (
	// ErrTooFewTokens reports option text with fewer than five hyphen
	// delimited tokens.
	ErrTooFewTokens = errors.New("commitref: option text has too few tokens")
	// ErrMissingParen reports a reference token without a closing parenthesis.
	ErrMissingParen = errors.New("commitref: reference token has no closing parenthesis")
)

// ParseError describes option text from which no reference could be taken.
type ParseError struct {
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Normalize trims surrounding whitespace and lowercases option text.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// IsSentinel reports whether normalized option text is the no-static sentinel.
func IsSentinel(normalized string) bool {
	return normalized == Sentinel
}

// ShortRef returns the text before the first ")" of the fifth hyphen
// delimited token. Whitespace inside the token is kept as is.
//
// A token with no ")" yields ErrMissingParen. The static.js page script does
// split(")")[0] instead, which hands back the whole token, so a truncated
// label there still produces a ref while here it falls back to the default.
func ShortRef(normalized string) (string, error) {
	tokens := strings.Split(normalized, tokenSeparator)
	if len(tokens) <= refTokenIndex {
		return "", &ParseError{Text: normalized, Err: ErrTooFewTokens}
	}
	token := tokens[refTokenIndex]
	ref, _, found := strings.Cut(token, refTerminator)
	if !found {
		return "", &ParseError{Text: normalized, Err: ErrMissingParen}
	}
	return ref, nil
}
