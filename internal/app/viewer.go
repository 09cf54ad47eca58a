package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/philipparndt/gomesh/internal/logger"
	"github.com/philipparndt/gomesh/pkg/mesh"
	"github.com/philipparndt/gomesh/pkg/viewer"
	"github.com/philipparndt/gomesh/pkg/watcher"
	"go.uber.org/zap"
)

// State is the lifecycle of the mesh slot
type State int

const (
	StateIdle State = iota
	StateLoading
	StateDisplayed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateDisplayed:
		return "displayed"
	default:
		return "idle"
	}
}

// Renderer receives the geometry to draw. Show and Release are called with
// the viewer's lock held and must not call back into the viewer.
type Renderer interface {
	Show(g *mesh.NormalizedGeometry)
	Release(g *mesh.NormalizedGeometry)
}

// Notifier receives load progress for the UI
type Notifier interface {
	LoadStarted(index, count int)
	LoadFinished(index, count int, err error)
}

type nopNotifier struct{}

func (nopNotifier) LoadStarted(int, int)         {}
func (nopNotifier) LoadFinished(int, int, error) {}

// Option configures a Viewer
type Option func(*Viewer)

// WithNotifier reports load progress to n
func WithNotifier(n Notifier) Option {
	return func(v *Viewer) { v.notifier = n }
}

// WithLogger replaces the package logger
func WithLogger(log *zap.Logger) Option {
	return func(v *Viewer) { v.log = log }
}

// WithLimits sets the camera limits and the initial view state
func WithLimits(l viewer.Limits) Option {
	return func(v *Viewer) {
		v.limits = l
		v.view = l.Initial()
	}
}

// WithStrict rejects soups with a vertex count that is not a multiple of
// three
func WithStrict(strict bool) Option {
	return func(v *Viewer) { v.strict = strict }
}

// Viewer owns the file list, the current mesh and the view state. Loads run
// in the background; only the most recently requested load is published.
type Viewer struct {
	entries  []FileEntry
	fetcher  Fetcher
	renderer Renderer
	notifier Notifier
	log      *zap.Logger
	limits   viewer.Limits
	strict   bool

	mu       sync.Mutex
	current  int
	seq      uint64
	state    State
	geometry *mesh.NormalizedGeometry
	view     viewer.ViewState
	cancel   context.CancelFunc
	watcher  *watcher.FileWatcher
	closed   bool

	// notifyMu orders notifier calls; it is taken before mu
	notifyMu sync.Mutex

	wg sync.WaitGroup
}

// New creates a viewer over entries. Nothing is loaded until LoadFile.
func New(entries []FileEntry, fetcher Fetcher, renderer Renderer, opts ...Option) *Viewer {
	limits := viewer.DefaultLimits()
	v := &Viewer{
		entries:  entries,
		fetcher:  fetcher,
		renderer: renderer,
		notifier: nopNotifier{},
		log:      logger.Log,
		limits:   limits,
		view:     limits.Initial(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Entries returns the file list
func (v *Viewer) Entries() []FileEntry {
	return v.entries
}

// LoadFile starts loading the entry at index and supersedes any load in
// flight. It returns false and does nothing for an index outside the list.
func (v *Viewer) LoadFile(index int) bool {
	return v.load(index, false)
}

// ReloadCurrent loads the current entry again, keeping the view state
func (v *Viewer) ReloadCurrent() bool {
	v.mu.Lock()
	index := v.current
	v.mu.Unlock()
	return v.load(index, true)
}

// Next moves to the following entry, wrapping at the end of the list
func (v *Viewer) Next() bool {
	return v.step(1)
}

// Prev moves to the preceding entry, wrapping at the start of the list
func (v *Viewer) Prev() bool {
	return v.step(-1)
}

func (v *Viewer) step(delta int) bool {
	v.mu.Lock()
	n := len(v.entries)
	if n == 0 {
		v.mu.Unlock()
		return false
	}
	index := (v.current + delta + n) % n
	v.mu.Unlock()
	return v.LoadFile(index)
}

func (v *Viewer) load(index int, keepView bool) bool {
	v.mu.Lock()
	count := len(v.entries)
	if v.closed || index < 0 || index >= count {
		v.mu.Unlock()
		return false
	}

	if v.cancel != nil {
		v.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())

	v.current = index
	v.seq++
	seq := v.seq
	v.state = StateLoading
	v.cancel = cancel
	entry := v.entries[index]
	v.wg.Add(1)
	v.mu.Unlock()

	v.log.Debug("loading mesh",
		zap.Int("index", index),
		zap.String("location", entry.Location),
		zap.Stringer("kind", entry.Kind))
	v.notify(seq, func() { v.notifier.LoadStarted(index, count) })

	go func() {
		defer v.wg.Done()
		defer cancel()

		g, err := v.fetchAndDecode(ctx, entry)
		v.finish(seq, index, count, keepView, g, err)
	}()

	return true
}

func (v *Viewer) fetchAndDecode(ctx context.Context, entry FileEntry) (*mesh.NormalizedGeometry, error) {
	if entry.Kind == KindUnknown {
		return nil, fmt.Errorf("%w: %s", mesh.ErrUnsupportedExtension, entry.Location)
	}

	data, err := v.fetcher.Fetch(ctx, entry.Location, ModeFor(entry.Kind))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", entry.Location, err)
	}

	g, err := Load(entry.Kind, data, v.strict)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", entry.Location, err)
	}
	return g, nil
}

// finish publishes the result of request seq if it is still the latest
func (v *Viewer) finish(seq uint64, index, count int, keepView bool, g *mesh.NormalizedGeometry, err error) {
	v.mu.Lock()
	if v.closed || seq != v.seq {
		v.mu.Unlock()
		v.log.Debug("discarding superseded load", zap.Int("index", index))
		return
	}
	v.cancel = nil

	if err != nil {
		if v.geometry != nil {
			v.state = StateDisplayed
		} else {
			v.state = StateIdle
		}
		v.mu.Unlock()

		v.log.Warn("load failed", zap.Int("index", index), zap.Error(err))
		v.notify(seq, func() { v.notifier.LoadFinished(index, count, err) })
		return
	}

	previous := v.geometry
	v.geometry = g
	if !keepView {
		v.view = viewer.Reseed(v.view, float64(g.ViewDistance), v.limits)
	}
	v.state = StateDisplayed
	v.renderer.Show(g)
	if previous != nil && previous != g {
		v.renderer.Release(previous)
	}
	v.mu.Unlock()

	v.log.Info("mesh displayed",
		zap.Int("index", index),
		zap.Int("triangles", g.TriangleCount()),
		zap.Float32("viewDistance", g.ViewDistance))
	v.notify(seq, func() { v.notifier.LoadFinished(index, count, nil) })
}

// notify calls deliver only while request seq is the latest, so a load
// racing on another goroutine cannot report after the one superseding it.
// Notifiers must not start loads synchronously from their callbacks.
func (v *Viewer) notify(seq uint64, deliver func()) {
	v.notifyMu.Lock()
	defer v.notifyMu.Unlock()

	v.mu.Lock()
	latest := seq == v.seq
	v.mu.Unlock()
	if latest {
		deliver()
	}
}

// Current returns the requested index and the number of entries
func (v *Viewer) Current() (int, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current, len(v.entries)
}

// State returns the state of the mesh slot
func (v *Viewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Geometry returns the displayed geometry, or nil
func (v *Viewer) Geometry() *mesh.NormalizedGeometry {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.geometry
}

// View returns the current view state
func (v *Viewer) View() viewer.ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.view
}

// Drag rotates the view by a pointer movement in pixels
func (v *Viewer) Drag(dx, dy float64) viewer.ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.view = viewer.ApplyDrag(v.view, dx, dy, v.limits)
	return v.view
}

// Zoom applies a wheel delta to the view
func (v *Viewer) Zoom(delta float64) viewer.ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.view = viewer.ApplyZoom(v.view, delta, v.limits)
	return v.view
}

// Wait blocks until no load is in flight
func (v *Viewer) Wait() {
	v.wg.Wait()
}

// Close cancels pending loads, releases the displayed mesh and stops
// auto-reload
func (v *Viewer) Close() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	v.closed = true
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	g := v.geometry
	v.geometry = nil
	v.state = StateIdle
	if g != nil {
		v.renderer.Release(g)
	}
	w := v.watcher
	v.watcher = nil
	v.mu.Unlock()

	v.wg.Wait()

	if w != nil {
		return w.Close()
	}
	return nil
}
