package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	assert.Equal(t, OpWrite, translate(fsnotify.Write))
	assert.Equal(t, OpCreate|OpChmod, translate(fsnotify.Create|fsnotify.Chmod))
	assert.Equal(t, OpRemove|OpRename, translate(fsnotify.Remove|fsnotify.Rename))
	assert.Equal(t, Op(0), translate(0))
}

func TestWatcherDeliversEvents(t *testing.T) {
	fw, err := New()
	if err != nil {
		t.Skip("fsnotify not supported: ", err)
	}
	defer fw.Close()

	dir := t.TempDir()
	require.NoError(t, fw.Add(dir))

	go func() {
		_ = os.WriteFile(filepath.Join(dir, "f.sn"), []byte("1"), 0o644)
	}()

	select {
	case ev := <-fw.Events():
		assert.Equal(t, filepath.Join(dir, "f.sn"), ev.Path)
		assert.NotZero(t, ev.Op)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for fsnotify event")
	}

	require.NoError(t, fw.Close())
	require.NoError(t, fw.Close(), "second Close is a no-op")
}

func TestFileCoalescesWrites(t *testing.T) {
	if fw, err := New(); err != nil {
		t.Skip("fsnotify not supported: ", err)
	} else {
		fw.Close()
	}

	dir := t.TempDir()
	target := filepath.Join(dir, "main.sn")
	require.NoError(t, os.WriteFile(target, []byte("1"), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changes := make(chan Event, 8)
	done := make(chan error, 1)
	go func() {
		done <- File(ctx, target, 100*time.Millisecond, func(ev Event) { changes <- ev })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(200 * time.Millisecond)
	for _, content := range []string{"1 +", "1 + 2", "1 + 2 * 3"} {
		require.NoError(t, os.WriteFile(target, []byte(content), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.sn"), []byte("x"), 0o644))

	select {
	case ev := <-changes:
		assert.Equal(t, target, ev.Path)
	case <-ctx.Done():
		t.Fatal("timeout waiting for change callback")
	}

	cancel()
	require.NoError(t, <-done)
}
