package roles

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func formatID(id uint64) string { return strconv.FormatUint(id, 10) }

func parseID(t *testing.T, s string) uint64 {
	t.Helper()
	id, err := strconv.ParseUint(s, 10, 64)
	require.NoError(t, err)
	return id
}
