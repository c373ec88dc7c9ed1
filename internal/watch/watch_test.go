package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func start(t *testing.T, w *Watcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDebouncedReload(t *testing.T) {
	dir := t.TempDir()
	var commands, roles atomic.Int32
	w := New(dir, map[string]Handler{
		"commands.txt": func(context.Context) error { commands.Add(1); return nil },
		"roles.txt":    func(context.Context) error { roles.Add(1); return errors.New("no bindings") },
	}, WithDebounce(100*time.Millisecond), WithLogger(zaptest.NewLogger(t)))
	start(t, w)

	path := filepath.Join(dir, "commands.txt")
	for i := 0; i < 5; i++ {
		write(t, path, "a;b;;false\n")
		time.Sleep(10 * time.Millisecond)
	}
	assert.Eventually(t, func() bool { return commands.Load() == 1 }, 2*time.Second, 20*time.Millisecond)

	write(t, filepath.Join(dir, "roles.txt"), "Red;red\n")
	assert.Eventually(t, func() bool { return roles.Load() == 1 }, 2*time.Second, 20*time.Millisecond)

	write(t, filepath.Join(dir, "unrelated.txt"), "x")
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), commands.Load())
	assert.Equal(t, int32(1), roles.Load())
}

func TestRunMissingDir(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "absent"), nil)
	assert.Error(t, w.Run(context.Background()))
}
