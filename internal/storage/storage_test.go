package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordsRoundTrip(t *testing.T) {
	r := NewRecords(filepath.Join(t.TempDir(), "records.bin"), 4)

	i0, err := r.Add([]byte("aaaa"))
	require.NoError(t, err)
	i1, err := r.Add([]byte("bbbb"))
	require.NoError(t, err)
	assert.Equal(t, 0, i0)
	assert.Equal(t, 1, i1)

	got, err := r.Read(i1)
	require.NoError(t, err)
	assert.Equal(t, []byte("bbbb"), got)

	live, err := r.Live(i0)
	require.NoError(t, err)
	assert.True(t, live)
}

func TestRecordsRemoveReusesSlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.bin")
	r := NewRecords(path, 8)

	for _, p := range []string{"11111111", "22222222", "33333333"} {
		_, err := r.Add([]byte(p))
		require.NoError(t, err)
	}
	before, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(27), before.Size())

	require.NoError(t, r.Remove(1))
	live, err := r.Live(1)
	require.NoError(t, err)
	assert.False(t, live)

	idx, err := r.Add([]byte("44444444"))
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.Size(), after.Size())

	got, err := r.Read(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("44444444"), got)
	got, err = r.Read(2)
	require.NoError(t, err)
	assert.Equal(t, []byte("33333333"), got)
}

func TestRecordsErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.bin")
	r := NewRecords(path, 2)

	_, err := r.Add([]byte("abc"))
	assert.ErrorIs(t, err, ErrPayloadWidth)

	_, err = r.Add([]byte("ab"))
	require.NoError(t, err)
	_, err = r.Read(1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, r.Remove(5), ErrIndexOutOfRange)

	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3, 4}, 0644))
	_, err = r.Read(0)
	assert.ErrorIs(t, err, ErrMisaligned)
}

func TestRecordsMissingFileHasNoSlots(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.bin")
	r := NewRecords(path, 4)

	n, err := r.Len()
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = r.Read(0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = r.Live(0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, r.Remove(0), ErrIndexOutOfRange)
	assert.NoFileExists(t, path)
}

func TestMessageIDStore(t *testing.T) {
	s := MessageIDStore{Path: filepath.Join(t.TempDir(), "rolesdata.bin")}

	id, err := s.Load()
	require.NoError(t, err)
	assert.Zero(t, id)

	require.NoError(t, s.Save(1234567890123456789))
	id, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, uint64(1234567890123456789), id)

	data, err := os.ReadFile(s.Path)
	require.NoError(t, err)
	assert.Len(t, data, 8)

	require.NoError(t, os.WriteFile(s.Path, []byte{1, 2, 3}, 0644))
	id, err = s.Load()
	require.NoError(t, err)
	assert.Zero(t, id)

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
}

func TestReadLinesMissingCreates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", CommandsFile)

	_, err := ReadLines(path, true)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)

	require.NoError(t, os.WriteFile(path, []byte("a;b\r\nc;d\n"), 0644))
	lines, err := ReadLines(path, true)
	require.NoError(t, err)
	assert.Equal(t, []Line{{No: 1, Text: "a;b"}, {No: 2, Text: "c;d"}}, lines)
}
