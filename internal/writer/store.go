// Package writer provides the stores an editing session reads from and
// saves to.
package writer

// Store hands out the raw bytes of one config file and replaces them
// wholesale.
type Store interface {
	Read() ([]byte, error)
	Replace(data []byte) error
}

// MemStore keeps the content in memory.
type MemStore struct {
	Buf    []byte
	Writes int
}

// NewMemStore returns a MemStore holding a copy of data.
func NewMemStore(data []byte) *MemStore {
	return &MemStore{Buf: append([]byte(nil), data...)}
}

// Read returns a copy of the stored content.
func (s *MemStore) Read() ([]byte, error) {
	return append([]byte(nil), s.Buf...), nil
}

// Replace stores a copy of data.
func (s *MemStore) Replace(data []byte) error {
	s.Buf = append(s.Buf[:0], data...)
	s.Writes++
	return nil
}
