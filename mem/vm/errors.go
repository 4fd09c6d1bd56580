package vm

import "errors"

// ErrCapacityExhausted is returned when the frame allocator has no frame left
// to hand out.
var ErrCapacityExhausted = errors.New("physical frames exhausted")

// ErrPageAlreadyMapped is returned when mapping a page that already has a
// frame.
var ErrPageAlreadyMapped = errors.New("page already mapped")
