package sparrow

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers match them with errors.Is; the package wraps them
// with operation context as "sparrow: <op>: <cause>".
var (
	// ErrInvalidArgument reports a nil or self-referential argument.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrIndexOutOfRange reports a child, frame or pool index outside its range.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrInvalidSequencing reports Begin/End called out of turn, drawing
	// while suspended, or a pool checkin without a matching checkout.
	ErrInvalidSequencing = errors.New("invalid sequencing")
	// ErrNotConnected reports two nodes with no common ancestor.
	ErrNotConnected = errors.New("nodes are not connected")
)

var (
	// ErrPoolOverflow is returned when an index is checked into a full pool.
	ErrPoolOverflow = fmt.Errorf("pool checkin while full: %w", ErrInvalidSequencing)
	// ErrTreeTooDeep is returned when adding a child would exceed MaxTreeDepth.
	ErrTreeTooDeep = fmt.Errorf("tree deeper than MaxTreeDepth: %w", ErrInvalidArgument)
)
