package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/philipparndt/gomesh/pkg/mesh"
	"github.com/philipparndt/gomesh/pkg/stl"
)

// stlTriangle returns a binary STL holding one triangle of the given size
func stlTriangle(t *testing.T, name string, size float32) []byte {
	t.Helper()
	soup := mesh.NewSoup(name, 1)
	soup.AddTriangle(mesh.Vec3{0, 0, 1}, mesh.Vec3{0, 0, 0}, mesh.Vec3{size, 0, 0}, mesh.Vec3{0, size, 0})
	var buf bytes.Buffer
	if err := stl.WriteBinary(&buf, soup); err != nil {
		t.Fatalf("failed to write STL fixture: %v", err)
	}
	return buf.Bytes()
}

const objSquare = "o square\nv 0 0 0\nv 4 0 0\nv 4 4 0\nv 0 4 0\nf 1 2 3 4\n"

type fakeFetcher struct {
	mu       sync.Mutex
	payloads map[string][]byte
	gates    map[string]chan struct{}
	modes    map[string]FetchMode
	calls    int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		payloads: make(map[string][]byte),
		gates:    make(map[string]chan struct{}),
		modes:    make(map[string]FetchMode),
	}
}

// Fetch ignores cancellation so that superseded loads still complete late
func (f *fakeFetcher) Fetch(_ context.Context, location string, mode FetchMode) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	f.modes[location] = mode
	gate := f.gates[location]
	data, ok := f.payloads[location]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if !ok {
		return nil, fmt.Errorf("%s: not found", location)
	}
	return data, nil
}

type fakeRenderer struct {
	mu       sync.Mutex
	shown    []*mesh.NormalizedGeometry
	released []*mesh.NormalizedGeometry
}

func (r *fakeRenderer) Show(g *mesh.NormalizedGeometry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, g)
}

func (r *fakeRenderer) Release(g *mesh.NormalizedGeometry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released = append(r.released, g)
}

func (r *fakeRenderer) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.shown), len(r.released)
}

type finished struct {
	index, count int
	err          error
}

type fakeNotifier struct {
	mu       sync.Mutex
	started  []int
	finished []finished
}

func (n *fakeNotifier) LoadStarted(index, count int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.started = append(n.started, index)
}

func (n *fakeNotifier) LoadFinished(index, count int, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.finished = append(n.finished, finished{index, count, err})
}

func (n *fakeNotifier) last() finished {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.finished) == 0 {
		return finished{index: -1}
	}
	return n.finished[len(n.finished)-1]
}

type fixture struct {
	fetcher  *fakeFetcher
	renderer *fakeRenderer
	notifier *fakeNotifier
	viewer   *Viewer
}

func newFixture(t *testing.T, paths []string, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		fetcher:  newFakeFetcher(),
		renderer: &fakeRenderer{},
		notifier: &fakeNotifier{},
	}
	opts = append([]Option{WithNotifier(f.notifier)}, opts...)
	f.viewer = New(EntriesFromPaths(paths), f.fetcher, f.renderer, opts...)
	t.Cleanup(func() { f.viewer.Close() })
	return f
}

func TestLoadFileDisplaysMesh(t *testing.T) {
	f := newFixture(t, []string{"a.stl", "b.obj", "c.stl"})
	f.fetcher.payloads["a.stl"] = stlTriangle(t, "a", 10)

	if f.viewer.State() != StateIdle {
		t.Fatalf("expected idle before loading, got %v", f.viewer.State())
	}
	if !f.viewer.LoadFile(0) {
		t.Fatal("LoadFile(0) returned false")
	}
	f.viewer.Wait()

	if f.viewer.State() != StateDisplayed {
		t.Errorf("expected displayed, got %v", f.viewer.State())
	}
	g := f.viewer.Geometry()
	if g == nil || g.Name != "a" {
		t.Fatalf("expected geometry 'a', got %+v", g)
	}
	if g.ViewDistance != 20 {
		t.Errorf("expected view distance 20, got %v", g.ViewDistance)
	}
	if d := f.viewer.View().Distance; d != 20 {
		t.Errorf("expected view distance re-seeded to 20, got %v", d)
	}
	if box := g.Bounds(); box.Center() != (mesh.Vec3{}) {
		t.Errorf("expected centered geometry, got center %v", box.Center())
	}
	if got := f.notifier.last(); got.index != 0 || got.count != 3 || got.err != nil {
		t.Errorf("expected LoadFinished(0, 3, nil), got %+v", got)
	}
	if f.fetcher.modes["a.stl"] != ModeBinary {
		t.Errorf("expected binary fetch for STL, got %v", f.fetcher.modes["a.stl"])
	}
}

func TestLoadFileOutOfRange(t *testing.T) {
	f := newFixture(t, []string{"a.stl"})

	for _, index := range []int{-1, 1, 5} {
		if f.viewer.LoadFile(index) {
			t.Errorf("LoadFile(%d) should be ignored", index)
		}
	}
	if len(f.notifier.started) != 0 || f.fetcher.calls != 0 {
		t.Errorf("expected no activity, got %d starts and %d fetches", len(f.notifier.started), f.fetcher.calls)
	}
	if f.viewer.State() != StateIdle {
		t.Errorf("expected idle, got %v", f.viewer.State())
	}
}

func TestNextPrevWrap(t *testing.T) {
	paths := []string{"a.stl", "b.stl", "c.stl"}
	f := newFixture(t, paths)
	for i, p := range paths {
		f.fetcher.payloads[p] = stlTriangle(t, p, float32(i+1))
	}

	f.viewer.LoadFile(0)
	f.viewer.Wait()

	f.viewer.Prev()
	f.viewer.Wait()
	if index, count := f.viewer.Current(); index != 2 || count != 3 {
		t.Errorf("Prev from 0 failed: expected (2, 3), got (%d, %d)", index, count)
	}
	if name := f.viewer.Geometry().Name; name != "c.stl" {
		t.Errorf("expected c.stl displayed, got %s", name)
	}

	f.viewer.Next()
	f.viewer.Wait()
	if index, _ := f.viewer.Current(); index != 0 {
		t.Errorf("Next from 2 failed: expected 0, got %d", index)
	}

	f.viewer.Next()
	f.viewer.Wait()
	if index, _ := f.viewer.Current(); index != 1 {
		t.Errorf("Next from 0 failed: expected 1, got %d", index)
	}
}

func TestNextOnEmptyList(t *testing.T) {
	f := newFixture(t, nil)
	if f.viewer.Next() || f.viewer.Prev() {
		t.Error("expected navigation on an empty list to be ignored")
	}
}

func TestSupersededLoadIsDiscarded(t *testing.T) {
	f := newFixture(t, []string{"a.stl", "b.stl", "c.stl"})
	f.fetcher.payloads["b.stl"] = stlTriangle(t, "b", 1)
	f.fetcher.payloads["c.stl"] = stlTriangle(t, "c", 2)
	gate := make(chan struct{})
	f.fetcher.gates["b.stl"] = gate

	f.viewer.LoadFile(1)
	f.viewer.LoadFile(2)

	deadline := time.Now().Add(3 * time.Second)
	for {
		if shown, _ := f.renderer.counts(); shown == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for the second load")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// The first request completes after the second one was published
	close(gate)
	f.viewer.Wait()

	if name := f.viewer.Geometry().Name; name != "c" {
		t.Errorf("expected index 2 displayed, got %s", name)
	}
	shown, released := f.renderer.counts()
	if shown != 1 || released != 0 {
		t.Errorf("expected exactly one Show and no Release, got %d and %d", shown, released)
	}
	if index, _ := f.viewer.Current(); index != 2 {
		t.Errorf("expected current index 2, got %d", index)
	}
	if len(f.notifier.finished) != 1 || f.notifier.finished[0].index != 2 {
		t.Errorf("expected a single LoadFinished for index 2, got %+v", f.notifier.finished)
	}
}

func TestFailedLoadKeepsPreviousMesh(t *testing.T) {
	f := newFixture(t, []string{"a.stl", "broken.obj", "missing.stl"})
	f.fetcher.payloads["a.stl"] = stlTriangle(t, "a", 3)
	f.fetcher.payloads["broken.obj"] = []byte("v 0 0 0\nf 1 2 3\n")

	f.viewer.LoadFile(0)
	f.viewer.Wait()
	displayed := f.viewer.Geometry()
	view := f.viewer.View()

	tests := []struct {
		index  int
		target error
	}{
		{1, mesh.ErrIndexOutOfRange},
		{2, nil},
	}

	for _, tt := range tests {
		f.viewer.LoadFile(tt.index)
		f.viewer.Wait()

		got := f.notifier.last()
		if got.index != tt.index || got.err == nil {
			t.Errorf("index %d: expected a failure report, got %+v", tt.index, got)
		}
		if tt.target != nil && !errors.Is(got.err, tt.target) {
			t.Errorf("index %d: expected %v, got %v", tt.index, tt.target, got.err)
		}
		if f.viewer.Geometry() != displayed {
			t.Errorf("index %d: expected the previous mesh to stay displayed", tt.index)
		}
		if f.viewer.State() != StateDisplayed {
			t.Errorf("index %d: expected displayed, got %v", tt.index, f.viewer.State())
		}
		if f.viewer.View() != view {
			t.Errorf("index %d: expected the view to be unchanged", tt.index)
		}
	}

	if _, released := f.renderer.counts(); released != 0 {
		t.Errorf("expected no release after failures, got %d", released)
	}
}

func TestFailedFirstLoadIsIdle(t *testing.T) {
	f := newFixture(t, []string{"missing.stl"})

	f.viewer.LoadFile(0)
	f.viewer.Wait()

	if f.viewer.State() != StateIdle {
		t.Errorf("expected idle, got %v", f.viewer.State())
	}
	if f.viewer.Geometry() != nil {
		t.Error("expected no geometry")
	}
}

func TestUnsupportedExtension(t *testing.T) {
	f := newFixture(t, []string{"a.stl", "model.3mf"})
	f.fetcher.payloads["a.stl"] = stlTriangle(t, "a", 1)

	f.viewer.LoadFile(0)
	f.viewer.Wait()
	calls := f.fetcher.calls

	if !f.viewer.LoadFile(1) {
		t.Fatal("expected the load to start")
	}
	f.viewer.Wait()

	if err := f.notifier.last().err; !errors.Is(err, mesh.ErrUnsupportedExtension) {
		t.Errorf("expected ErrUnsupportedExtension, got %v", err)
	}
	if f.fetcher.calls != calls {
		t.Error("expected no fetch for an unsupported extension")
	}
	if f.viewer.Geometry() == nil || f.viewer.Geometry().Name != "a" {
		t.Error("expected the previous mesh to stay displayed")
	}
}

func TestReleasesPreviousMesh(t *testing.T) {
	f := newFixture(t, []string{"a.stl", "b.obj"})
	f.fetcher.payloads["a.stl"] = stlTriangle(t, "a", 1)
	f.fetcher.payloads["b.obj"] = []byte(objSquare)

	f.viewer.LoadFile(0)
	f.viewer.Wait()
	first := f.viewer.Geometry()

	f.viewer.LoadFile(1)
	f.viewer.Wait()

	if f.fetcher.modes["b.obj"] != ModeText {
		t.Errorf("expected text fetch for OBJ, got %v", f.fetcher.modes["b.obj"])
	}
	f.renderer.mu.Lock()
	released := append([]*mesh.NormalizedGeometry(nil), f.renderer.released...)
	f.renderer.mu.Unlock()
	if len(released) != 1 || released[0] != first {
		t.Errorf("expected the first mesh to be released once, got %v", released)
	}
	if name := f.viewer.Geometry().Name; name != "square" {
		t.Errorf("expected square displayed, got %s", name)
	}

	if err := f.viewer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, n := f.renderer.counts(); n != 2 {
		t.Errorf("expected Close to release the displayed mesh, got %d releases", n)
	}
	if f.viewer.LoadFile(0) {
		t.Error("expected LoadFile to be ignored after Close")
	}
}

func TestStrictMode(t *testing.T) {
	text := []byte("solid bad\nfacet normal 0 0 1\nvertex 0 0 0\nvertex 1 0 0\nvertex 0 1 0\nvertex 1 1 0\nendsolid\n")

	lenient := newFixture(t, []string{"bad.stl"})
	lenient.fetcher.payloads["bad.stl"] = text
	lenient.viewer.LoadFile(0)
	lenient.viewer.Wait()
	if err := lenient.notifier.last().err; err != nil {
		t.Errorf("expected lenient load to succeed, got %v", err)
	}

	strict := newFixture(t, []string{"bad.stl"}, WithStrict(true))
	strict.fetcher.payloads["bad.stl"] = text
	strict.viewer.LoadFile(0)
	strict.viewer.Wait()
	if err := strict.notifier.last().err; !errors.Is(err, mesh.ErrMalformedTriangleCount) {
		t.Errorf("expected ErrMalformedTriangleCount, got %v", err)
	}
}

func TestDragAndZoom(t *testing.T) {
	f := newFixture(t, []string{"a.stl"})
	start := f.viewer.View()

	dragged := f.viewer.Drag(10, 0)
	if dragged.Yaw <= start.Yaw || dragged.Pitch != start.Pitch {
		t.Errorf("expected yaw to increase, got %+v from %+v", dragged, start)
	}

	zoomed := f.viewer.Zoom(1)
	if zoomed.Distance <= dragged.Distance {
		t.Errorf("expected zoom out, got %v from %v", zoomed.Distance, dragged.Distance)
	}
	if f.viewer.View() != zoomed {
		t.Error("expected View to return the latest state")
	}
}

func TestReloadCurrentKeepsView(t *testing.T) {
	f := newFixture(t, []string{"a.stl"})
	f.fetcher.payloads["a.stl"] = stlTriangle(t, "a", 10)

	f.viewer.LoadFile(0)
	f.viewer.Wait()
	view := f.viewer.Zoom(-1)

	f.fetcher.payloads["a.stl"] = stlTriangle(t, "a2", 50)
	f.viewer.ReloadCurrent()
	f.viewer.Wait()

	if f.viewer.Geometry().Name != "a2" {
		t.Errorf("expected reloaded mesh, got %s", f.viewer.Geometry().Name)
	}
	if f.viewer.View() != view {
		t.Errorf("expected view %+v to be kept, got %+v", view, f.viewer.View())
	}
}

func TestEnableAutoReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "part.stl")
	if err := os.WriteFile(path, stlTriangle(t, "v1", 1), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	renderer := &fakeRenderer{}
	v := New(EntriesFromPaths([]string{path}), FileFetcher{}, renderer)
	defer v.Close()

	v.LoadFile(0)
	v.Wait()
	if err := v.EnableAutoReload(20 * time.Millisecond); err != nil {
		t.Fatalf("EnableAutoReload failed: %v", err)
	}

	if err := os.WriteFile(path, stlTriangle(t, "v2", 2), 0644); err != nil {
		t.Fatalf("failed to rewrite fixture: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		v.Wait()
		if g := v.Geometry(); g != nil && g.Name == "v2" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("expected the changed file to be reloaded")
}

func TestEnableAutoReloadWithoutLocalFiles(t *testing.T) {
	v := New(EntriesFromPaths([]string{"http://example.com/a.stl"}), HTTPFetcher{}, &fakeRenderer{})
	defer v.Close()

	if err := v.EnableAutoReload(time.Millisecond); err == nil {
		t.Error("expected an error without local files")
	}
}

func TestConcurrentLoadsReportLatestLast(t *testing.T) {
	paths := []string{"a.stl", "b.stl", "c.stl", "d.stl"}
	f := newFixture(t, paths)
	for i, p := range paths {
		f.fetcher.payloads[p] = stlTriangle(t, p, float32(i+1))
	}

	var wg sync.WaitGroup
	for round := 0; round < 50; round++ {
		for i := range paths {
			wg.Add(1)
			go func(index int) {
				defer wg.Done()
				f.viewer.LoadFile(index)
			}(i)
		}
	}
	wg.Wait()
	f.viewer.Wait()

	current, _ := f.viewer.Current()
	f.notifier.mu.Lock()
	lastStarted := f.notifier.started[len(f.notifier.started)-1]
	f.notifier.mu.Unlock()
	if lastStarted != current {
		t.Errorf("expected the last LoadStarted to be for %d, got %d", current, lastStarted)
	}
	if got := f.notifier.last(); got.index != current || got.err != nil {
		t.Errorf("expected the last LoadFinished to be for %d, got %+v", current, got)
	}
}

func TestNotifyDropsSupersededRequests(t *testing.T) {
	f := newFixture(t, []string{"a.stl", "b.stl"})
	gate := make(chan struct{})
	f.fetcher.gates["a.stl"] = gate
	f.fetcher.gates["b.stl"] = gate
	t.Cleanup(func() { close(gate) })

	f.viewer.LoadFile(0)
	f.viewer.LoadFile(1)

	delivered := false
	f.viewer.notify(1, func() { delivered = true })
	if delivered {
		t.Error("expected a notification for the superseded request to be dropped")
	}
	f.viewer.notify(2, func() { delivered = true })
	if !delivered {
		t.Error("expected a notification for the latest request to be delivered")
	}
}
