package vm

import (
	"fmt"
	"log"
)

// A FrameAllocator hands out physical frame numbers in increasing order. Frames
// are never reclaimed.
type FrameAllocator struct {
	numFrames int
	allocated int
}

// NewFrameAllocator creates an allocator that can hand out numFrames frames.
func NewFrameAllocator(numFrames int) *FrameAllocator {
	if numFrames <= 0 || numFrames > MaxFrames {
		log.Panicf("number of frames must be in [1, %d], got %d",
			MaxFrames, numFrames)
	}

	return &FrameAllocator{numFrames: numFrames}
}

// Allocate returns the next unused frame.
func (a *FrameAllocator) Allocate() (uint8, error) {
	if a.allocated >= a.numFrames {
		return 0, fmt.Errorf("%w: all %d frames are in use",
			ErrCapacityExhausted, a.numFrames)
	}

	frame := uint8(a.allocated)
	a.allocated++

	return frame, nil
}

// Allocated returns the number of frames handed out so far.
func (a *FrameAllocator) Allocated() int {
	return a.allocated
}

// NumFrames returns the total number of frames the allocator manages.
func (a *FrameAllocator) NumFrames() int {
	return a.numFrames
}
