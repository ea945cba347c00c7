package poller

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"dirwatch/internal/compare"
	"dirwatch/internal/match"
	"dirwatch/internal/tree"
)

type hit struct {
	root  string
	paths []string
}

func collect() (Handler, chan hit) {
	ch := make(chan hit, 16)
	return func(t *tree.Tree, result *compare.CompareResult) {
		ch <- hit{root: t.Root(), paths: result.Paths()}
	}, ch
}

func newTree(t *testing.T, rules match.Set) *tree.Tree {
	t.Helper()
	tr, err := tree.New(t.TempDir(), rules)
	require.NoError(t, err, "create tree.")
	return tr
}

func waitHit(t *testing.T, ch chan hit) hit {
	t.Helper()
	select {
	case h := <-ch:
		return h
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
		return hit{}
	}
}

func TestPoller_ReportsChanges(t *testing.T) {
	defer goleak.VerifyNone(t)

	tr := newTree(t, nil)
	handler, ch := collect()
	p := New([]*tree.Tree{tr}, handler, WithInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(tr.Root(), "foo"), []byte("x"), 0644))

	h := waitHit(t, ch)
	require.Equal(t, tr.Root(), h.root)
	require.Equal(t, []string{"foo"}, h.paths)

	cancel()
	require.NoError(t, <-done)
}

func TestPoller_MultipleTrees(t *testing.T) {
	defer goleak.VerifyNone(t)

	a := newTree(t, nil)
	b := newTree(t, nil)
	handler, ch := collect()
	p := New([]*tree.Tree{a, b}, handler, WithInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(b.Root(), "only-b"), []byte("x"), 0644))

	h := waitHit(t, ch)
	require.Equal(t, b.Root(), h.root)
	require.Equal(t, []string{"only-b"}, h.paths)

	cancel()
	require.NoError(t, <-done)
}

func TestPoller_RefreshErrorStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	parent := t.TempDir()
	root := filepath.Join(parent, "root")
	require.NoError(t, os.Mkdir(root, 0755))
	tr, err := tree.New(root, nil)
	require.NoError(t, err)

	p := New([]*tree.Tree{tr, newTree(t, nil)}, nil, WithInterval(10*time.Millisecond))
	require.NoError(t, os.RemoveAll(root))

	err = p.Run(context.Background())
	require.Error(t, err)
}

func TestPoller_KeepGoing(t *testing.T) {
	defer goleak.VerifyNone(t)

	parent := t.TempDir()
	root := filepath.Join(parent, "root")
	require.NoError(t, os.Mkdir(root, 0755))
	tr, err := tree.New(root, nil)
	require.NoError(t, err)

	handler, ch := collect()
	p := New([]*tree.Tree{tr}, handler, WithInterval(10*time.Millisecond), WithKeepGoing())
	require.NoError(t, os.RemoveAll(root))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)

	// The root comes back with a file in it
	require.NoError(t, os.Mkdir(root, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "back"), []byte("x"), 0644))

	h := waitHit(t, ch)
	require.Equal(t, []string{"back"}, h.paths)

	cancel()
	require.NoError(t, <-done)
}

func TestPoller_NotifyWakesEarly(t *testing.T) {
	defer goleak.VerifyNone(t)

	tr := newTree(t, match.MustCompile([]string{"ignored"}))
	require.NoError(t, os.Mkdir(filepath.Join(tr.Root(), "sub"), 0755))

	handler, ch := collect()
	p := New([]*tree.Tree{tr}, handler,
		WithInterval(time.Hour),
		WithNotify(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	// Give the notifier time to register its watches
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(tr.Root(), "sub", "foo"), []byte("x"), 0644))

	h := waitHit(t, ch)
	require.Equal(t, []string{"sub/foo"}, h.paths)

	cancel()
	require.NoError(t, <-done)
}
