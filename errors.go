package cbor

import (
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Sentinel errors shared by the Scanner and both Parser implementations.
var (
	// ErrInvalid is returned when Consume is called on a parser that has
	// not yet been initialized (see (*LLParser).Init).
	ErrInvalid = errors.New("cbor: parser not initialized")

	// ErrIncomplete is returned when a caller demands a finished value
	// from a parser that has not yet seen enough tokens to produce one.
	ErrIncomplete = errors.New("cbor: incomplete value")

	// ErrTrailingInput is returned when a token arrives after the
	// parser has already produced its top-level value.
	ErrTrailingInput = errors.New("cbor: trailing input after root value")

	// ErrInsufficientStackSize is returned when a context, state, or
	// value stack would grow past its configured bound.
	ErrInsufficientStackSize = errors.New("cbor: insufficient stack size")

	// ErrInternal indicates the parser driver reached a state it should
	// never reach; it signals a bug in this package, not malformed input.
	ErrInternal = errors.New("cbor: internal parser error")

	// ErrUnexpectedEof is reserved for callers that adapt the Scanner to
	// eager consumption of a finite buffer and need to report that the
	// buffer ended mid-item. The byte-driven Consume never produces it:
	// running out of bytes simply means no token yet.
	ErrUnexpectedEof = errors.New("cbor: unexpected end of input")
)

// UnexpectedHeadError is returned by the Scanner when an initial byte
// encodes a major type / additional info combination that RFC 8949 does
// not define.
type UnexpectedHeadError struct {
	Head byte
}

// Error implements the error interface.
func (e *UnexpectedHeadError) Error() string {
	return fmt.Sprintf("Unexpected head: %d", e.Head)
}

// ExcessiveError is returned by the Scanner when an argument or length
// count cannot be represented within the bounds this package accepts.
type ExcessiveError struct {
	Count uint64
}

// Error implements the error interface.
func (e *ExcessiveError) Error() string {
	return fmt.Sprintf("Excessive count (%d)", e.Count)
}

// ScanError wraps an error raised by the Scanner while a Parser was
// driving it, preserving the underlying cause for inspection via
// errors.Unwrap/errors.Is.
type ScanError struct {
	cause error
}

// NewScanError wraps err as a ScanError. Panics if err is nil.
func NewScanError(err error, context string) *ScanError {
	if err == nil {
		panic("cbor: NewScanError requires a non-nil cause")
	}
	return &ScanError{cause: pkgerrors.Wrapf(err, "cbor: scanner error: %s", context)}
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	return e.cause.Error()
}

// Unwrap returns the wrapped scanner error.
func (e *ScanError) Unwrap() error {
	return e.cause
}

// UnexpectedTokenError is returned by a Parser when a terminal-expectation
// context entry sees a token of the wrong Kind.
type UnexpectedTokenError struct {
	Expected []Kind
	Actual   Token
}

// Error implements the error interface, matching the Display law
// "The parser encountered %TOKEN when it was expecting one of
// [%EXPECTED, ...]".
func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf(
		"The parser encountered %s when it was expecting one of [%s]",
		e.Actual.String(),
		joinKinds(e.Expected),
	)
}

func joinKinds(kinds []Kind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = k.String()
	}
	return strings.Join(parts, ", ")
}

// UnexpectedNonTermError reports a non-terminal that the current
// production set does not admit; the offending non-terminal is reported
// as Actual, not the triggering token. Neither parser in this package
// returns it: the frame-based LR parser has no goto step.
type UnexpectedNonTermError struct {
	Expected []NonTerm
	Actual   NonTerm
}

// Error implements the error interface, matching the Display law
// "The parser encountered <NONTERM> when it was expecting one of
// [<NONTERM>, ...]".
func (e *UnexpectedNonTermError) Error() string {
	return fmt.Sprintf(
		"The parser encountered %s when it was expecting one of [%s]",
		e.Actual.String(),
		joinNonTerms(e.Expected),
	)
}

func joinNonTerms(nts []NonTerm) string {
	parts := make([]string, len(nts))
	for i, nt := range nts {
		parts[i] = nt.String()
	}
	return strings.Join(parts, ", ")
}

// ValueFromTokenError is returned by ValueFromToken when a token's kind
// has no direct conversion to a Value (Array, Map, Tag, and Break — see
// SPEC_FULL.md's Value section).
type ValueFromTokenError struct {
	Kind Kind
}

// Error implements the error interface.
func (e *ValueFromTokenError) Error() string {
	return fmt.Sprintf("cbor: construction of Value from token %s is not defined", e.Kind)
}
