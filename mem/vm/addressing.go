// Package vm provides the building blocks of a single-level paged virtual
// memory: address decoding, the page table, and the frame allocator.
package vm

// Geometry of the simulated address space. A logical address is 16 bits wide,
// with the high byte selecting the page and the low byte the offset.
const (
	Log2PageSize = 8
	PageSize     = 1 << Log2PageSize
	OffsetMask   = PageSize - 1
	PageMask     = 0xFF
	NumPages     = 256
	MaxFrames    = 256

	AddressSpaceSize = NumPages * PageSize
)

// LogicalAddress is an address as seen by a program.
type LogicalAddress uint16

// PhysicalAddress is an address into the physical memory.
type PhysicalAddress uint32

// Decode splits a logical address into its page number and offset.
func Decode(addr LogicalAddress) (pageNumber, offset uint8) {
	offset = uint8(addr & OffsetMask)
	pageNumber = uint8((addr >> Log2PageSize) & PageMask)

	return pageNumber, offset
}

// Compose is the inverse of Decode.
func Compose(pageNumber, offset uint8) LogicalAddress {
	return LogicalAddress(pageNumber)<<Log2PageSize | LogicalAddress(offset)
}

// Physical returns the physical address of an offset within a frame.
func Physical(frameNumber, offset uint8) PhysicalAddress {
	return PhysicalAddress(frameNumber)<<Log2PageSize | PhysicalAddress(offset)
}
