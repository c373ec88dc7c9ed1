package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/keshon/server-herald/pkg/util"
)

// MessageIDStore persists one message ID as 8 little-endian bytes.
type MessageIDStore struct {
	Path string
}

// Load returns the stored ID, or 0 when nothing valid is stored. A missing file
// or a file that is not exactly 8 bytes long is not an error.
func (s MessageIDStore) Load() (uint64, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read message id: %w", err)
	}
	if len(data) != 8 {
		return 0, nil
	}
	return util.DecodeUint64(data), nil
}

// Save overwrites the stored ID.
func (s MessageIDStore) Save(id uint64) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, util.EncodeUint64(id), 0644); err != nil {
		return fmt.Errorf("write message id: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace message id: %w", err)
	}
	return nil
}

// Clear removes the stored ID. Clearing an absent ID is not an error.
func (s MessageIDStore) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove message id: %w", err)
	}
	return nil
}
