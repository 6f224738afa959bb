package monitor

import (
	"sync"

	"github.com/banshee-data/fogofwar/internal/fow"
	"github.com/banshee-data/fogofwar/internal/fow/debug"
	"github.com/banshee-data/fogofwar/internal/fow/scene"
)

// Source is the read side of an engine as seen by the HTTP handlers.
type Source interface {
	Stats() fow.Stats
	TeamGrid(team int) (fow.GridSnapshot, error)
	DebugFrame() *debug.DebugFrame
	ExportScene(w scene.Writer) error
}

// EngineSource guards a FoW with a mutex so a simulation loop and the HTTP
// handlers can share it.
type EngineSource struct {
	mu      sync.Mutex
	f       *fow.FoW
	frameID uint64
}

// NewEngineSource wraps f. All later access to f must go through Do.
func NewEngineSource(f *fow.FoW) *EngineSource {
	return &EngineSource{f: f}
}

// Do runs fn with exclusive access to the engine.
func (s *EngineSource) Do(fn func(f *fow.FoW)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.f)
}

func (s *EngineSource) Stats() fow.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Stats()
}

func (s *EngineSource) TeamGrid(team int) (fow.GridSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.TeamGrid(team)
}

// DebugFrame draws the engine's enabled debug overlays into a new frame.
func (s *EngineSource) DebugFrame() *debug.DebugFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frameID++
	c := debug.NewDebugCollector()
	c.SetEnabled(true)
	c.BeginFrame(s.frameID)
	s.f.DrawDebug(c)
	return c.Emit()
}

func (s *EngineSource) ExportScene(w scene.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.ExportScene(w)
}
