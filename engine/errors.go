package engine

import (
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// Kind classifies a failure so the scalar boundary can map it to a distinct
// negative status code.
type Kind int

const (
	// KindNullHandle reports an absent or already-closed connection.
	KindNullHandle Kind = iota + 1
	// KindPrepare reports malformed SQL or an unknown table/column at
	// statement preparation.
	KindPrepare
	// KindBind reports a rejected parameter binding.
	KindBind
	// KindStep reports an execution-time failure such as a constraint
	// violation or a transaction usage error.
	KindStep
	// KindArityMismatch reports a column/value count mismatch on insert.
	KindArityMismatch
	// KindAllocation reports a failure to build result buffers.
	KindAllocation
	// KindNotFound reports an absent row, table or index where presence was
	// required.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindNullHandle:
		return "null handle"
	case KindPrepare:
		return "prepare error"
	case KindBind:
		return "bind error"
	case KindStep:
		return "step error"
	case KindArityMismatch:
		return "arity mismatch"
	case KindAllocation:
		return "allocation failure"
	case KindNotFound:
		return "not found"
	}
	return "unknown error"
}

// Error is the failure type returned by every engine operation. It carries
// the operation name and the underlying engine diagnostic for out-of-band
// retrieval at the boundary.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Msg != "":
		return fmt.Sprintf("%s: %s: %s: %v", e.Op, e.Kind, e.Msg, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Msg)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure classification from an error chain. Errors that
// did not originate in this package classify as KindStep.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStep
}

// IsNotFound reports whether err is a KindNotFound failure.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func newError(kind Kind, op, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

// classifyExec distinguishes binding rejections from execution failures for
// errors returned after a statement prepared successfully.
func classifyExec(op string, err error) *Error {
	var se sqlite3.Error
	if errors.As(err, &se) {
		if se.Code == sqlite3.ErrRange || se.Code == sqlite3.ErrMisuse {
			return newError(KindBind, op, "", err)
		}
	}
	return newError(KindStep, op, "", err)
}
