package memory

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// A ByteSource is a random-access, read-only source of bytes.
type ByteSource interface {
	io.ReaderAt
	Size() int64
}

// A BackingStore holds the full image of the logical address space. It is read
// one page at a time.
type BackingStore struct {
	source   ByteSource
	pageSize int
}

// NewBackingStore creates a backing store that reads pages of pageSize bytes
// from source.
func NewBackingStore(source ByteSource, pageSize int) *BackingStore {
	if pageSize <= 0 {
		panic("page size must be positive")
	}

	return &BackingStore{
		source:   source,
		pageSize: pageSize,
	}
}

// NewBackingStoreFromBytes creates a backing store over an in-memory image.
func NewBackingStoreFromBytes(data []byte, pageSize int) *BackingStore {
	return NewBackingStore(bytes.NewReader(data), pageSize)
}

// LoadBackingStore reads the whole file at path into memory.
func LoadBackingStore(path string, pageSize int) (*BackingStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return NewBackingStoreFromBytes(data, pageSize), nil
}

// PageSize returns the number of bytes in a page.
func (b *BackingStore) PageSize() int {
	return b.pageSize
}

// NumPages returns the number of complete pages in the backing store.
func (b *BackingStore) NumPages() int {
	return int(b.source.Size() / int64(b.pageSize))
}

// ReadPage returns the content of the given page.
func (b *BackingStore) ReadPage(pageNumber uint8) ([]byte, error) {
	offset := int64(pageNumber) * int64(b.pageSize)
	if offset+int64(b.pageSize) > b.source.Size() {
		return nil, fmt.Errorf(
			"%w: page %d needs %d bytes, backing store has %d",
			ErrOutOfRange, pageNumber,
			offset+int64(b.pageSize), b.source.Size())
	}

	page := make([]byte, b.pageSize)

	n, err := b.source.ReadAt(page, offset)
	if err != nil && !(errors.Is(err, io.EOF) && n == len(page)) {
		return nil, fmt.Errorf("reading page %d: %w", pageNumber, err)
	}

	return page, nil
}
