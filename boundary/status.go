package boundary

import "github.com/icverimeter/svdb/engine"

// Status is the uniform integer result of every boundary entry point. Zero
// or a positive identifier is success; each failure class has its own
// negative code so foreign callers can branch without parsing text.
type Status = int32

const (
	// StatusOK reports success.
	StatusOK Status = 0
	// StatusNullHandle reports an invalid, absent or already-closed handle.
	StatusNullHandle Status = -1
	// StatusPrepareError reports malformed SQL or an unknown table/column.
	StatusPrepareError Status = -2
	// StatusBindError reports a rejected parameter binding.
	StatusBindError Status = -3
	// StatusStepError reports an execution-time failure.
	StatusStepError Status = -4
	// StatusArityMismatch reports a column/value count mismatch on insert.
	StatusArityMismatch Status = -5
	// StatusAllocationFailure reports that result buffers could not be built.
	StatusAllocationFailure Status = -6
	// StatusNotFound reports an absent row, table or index where presence
	// was required.
	StatusNotFound Status = -7
	// StatusNullValue reports a present cell whose value is SQL NULL. It is
	// how "value absent" crosses a boundary that must encode everything as
	// an integer; it is not a failure of the operation itself.
	StatusNullValue Status = -8
)

// statusOf flattens an engine error into its boundary status.
func statusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	switch engine.KindOf(err) {
	case engine.KindNullHandle:
		return StatusNullHandle
	case engine.KindPrepare:
		return StatusPrepareError
	case engine.KindBind:
		return StatusBindError
	case engine.KindArityMismatch:
		return StatusArityMismatch
	case engine.KindAllocation:
		return StatusAllocationFailure
	case engine.KindNotFound:
		return StatusNotFound
	default:
		return StatusStepError
	}
}
