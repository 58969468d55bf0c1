package model

import "errors"

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
// Error() strings are human-readable and may evolve.
type Kind string

const (
	// KindFormat reports a value that cannot be encoded (tag or content length out of range,
	// unknown body version).
	KindFormat Kind = "FormatViolation"
	// KindUnknownBlockType reports a control block whose type byte is not assigned.
	KindUnknownBlockType Kind = "UnknownBlockType"
	// KindTruncated reports input shorter than its own headers declare.
	KindTruncated Kind = "TruncatedData"
	// KindConfig reports an unusable configuration, such as a non-positive hash length.
	KindConfig Kind = "InvalidConfiguration"
	// KindKeyTag reports raw key bytes imported under the wrong algorithm tag.
	KindKeyTag Kind = "KeyTagMismatch"
	// KindSignature reports a chunk whose signature does not verify.
	KindSignature Kind = "SignatureInvalid"
	// KindDecrypt reports a wrong key or corrupted ciphertext.
	KindDecrypt Kind = "DecryptionFailure"
	// KindContract reports a violated constructor invariant.
	KindContract Kind = "ContractViolation"
	// KindUnsupported reports an operation the selected algorithm does not offer.
	KindUnsupported Kind = "Unsupported"
)

// Error is the library's structured error type.
//
// RuleID is a stable identifier (e.g., DCHUNK-BLK-001, DCHUNK-KEY-101)
// that names the violated invariant.
//
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewError returns a structured error without a cause.
func NewError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

// WrapError returns a structured error wrapping cause. A nil cause yields NewError.
func WrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return NewError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
