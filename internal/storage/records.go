package storage

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

var (
	// ErrMisaligned means the file length is not a multiple of the slot size.
	ErrMisaligned = errors.New("record file size is not a multiple of the slot size")
	// ErrIndexOutOfRange means a slot index past the end of the file was requested.
	ErrIndexOutOfRange = errors.New("record index out of range")
	// ErrPayloadWidth means a payload does not match the store's width.
	ErrPayloadWidth = errors.New("payload length does not match record width")
)

// Records is a flat file of fixed-width slots. Each slot is Width payload bytes
// followed by one liveness byte (1 = live, 0 = free). Removing a record only
// clears its liveness byte; Add reuses the first free slot before growing the file.
type Records struct {
	Path  string
	Width int

	mu sync.Mutex
}

// NewRecords returns a store of width-byte records at path.
func NewRecords(path string, width int) *Records {
	return &Records{Path: path, Width: width}
}

func (r *Records) slot() int { return r.Width + 1 }

// Add stores payload in the first free slot, or appends a new slot, and returns
// the slot index used.
func (r *Records) Add(payload []byte) (int, error) {
	if len(payload) != r.Width {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrPayloadWidth, len(payload), r.Width)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.load()
	if err != nil {
		return 0, err
	}

	entry := make([]byte, r.slot())
	copy(entry, payload)
	entry[r.Width] = 1

	n := len(data) / r.slot()
	for i := 0; i < n; i++ {
		off := i * r.slot()
		if data[off+r.Width] == 0 {
			f, err := os.OpenFile(r.Path, os.O_WRONLY, 0644)
			if err != nil {
				return 0, fmt.Errorf("open records: %w", err)
			}
			defer f.Close()
			if _, err := f.WriteAt(entry, int64(off)); err != nil {
				return 0, fmt.Errorf("write record %d: %w", i, err)
			}
			return i, nil
		}
	}

	f, err := os.OpenFile(r.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return 0, fmt.Errorf("open records: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(entry); err != nil {
		return 0, fmt.Errorf("append record: %w", err)
	}
	return n, nil
}

// Read returns the payload of the index'th physical slot, live or not.
func (r *Records) Read(index int) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.load()
	if err != nil {
		return nil, err
	}
	off, err := r.offset(data, index)
	if err != nil {
		return nil, err
	}
	out := make([]byte, r.Width)
	copy(out, data[off:off+r.Width])
	return out, nil
}

// Live reports whether the index'th slot holds a record.
func (r *Records) Live(index int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.load()
	if err != nil {
		return false, err
	}
	off, err := r.offset(data, index)
	if err != nil {
		return false, err
	}
	return data[off+r.Width] != 0, nil
}

// Remove marks the index'th slot free. The file is never compacted.
func (r *Records) Remove(index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.load()
	if err != nil {
		return err
	}
	off, err := r.offset(data, index)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(r.Path, os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open records: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteAt([]byte{0}, int64(off+r.Width)); err != nil {
		return fmt.Errorf("clear record %d: %w", index, err)
	}
	return nil
}

// Len returns the number of physical slots.
func (r *Records) Len() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.load()
	if err != nil {
		return 0, err
	}
	return len(data) / r.slot(), nil
}

// load treats a missing file as zero slots.
func (r *Records) load() ([]byte, error) {
	data, err := os.ReadFile(r.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	if len(data)%r.slot() != 0 {
		return nil, fmt.Errorf("%w: %d bytes, slot %d", ErrMisaligned, len(data), r.slot())
	}
	return data, nil
}

func (r *Records) offset(data []byte, index int) (int, error) {
	if index < 0 || len(data) < r.slot()*(index+1) {
		return 0, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return index * r.slot(), nil
}
