// Package playback drives a scene in real time: it maps the playing position
// to a frame index and renders frames for the terminal on demand.
package playback

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/olivier-w/fieldviz/internal/frame"
	"github.com/olivier-w/fieldviz/internal/render"
	"github.com/olivier-w/fieldviz/internal/scene"
)

// minTick caps the redraw rate for high-fps scenes.
const minTick = time.Second / 60

// Session plays one scene. Positions are scene time within one pass, from 0
// to the scene duration.
type Session struct {
	scene    *scene.Scene
	renderer *render.Terminal
	outW     int
	outH     int

	mu     sync.Mutex
	pos    time.Duration
	speed  SpeedMode
	cache  map[int]frame.State
	closed bool
}

// NewSession creates a session for sc rendering into termW×termH cells.
func NewSession(sc *scene.Scene, renderer *render.Terminal, termW, termH int) *Session {
	return &Session{
		scene:    sc,
		renderer: renderer,
		outW:     max(termW, 1),
		outH:     max(termH, 1),
		cache:    make(map[int]frame.State),
	}
}

// Scene returns the scene being played.
func (s *Session) Scene() *scene.Scene { return s.scene }

// Duration returns the length of one pass.
func (s *Session) Duration() time.Duration { return s.scene.Duration() }

// Position returns the current playing position.
func (s *Session) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// Index returns the frame index for the current position.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked()
}

func (s *Session) indexLocked() int {
	idx := int(s.pos / s.scene.FrameInterval())
	return min(max(idx, 0), s.scene.Frames()-1)
}

// Speed returns the playback speed.
func (s *Session) Speed() SpeedMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed
}

// CycleSpeed moves to the next speed mode and returns it.
func (s *Session) CycleSpeed() SpeedMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speed = s.speed.Next()
	return s.speed
}

// Advance moves the position forward by wall time scaled by the speed. It
// reports whether the pass ended; the position then rests on the last frame.
func (s *Session) Advance(wall time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos += time.Duration(float64(wall) * s.speed.Factor())
	end := s.scene.Duration()
	if s.pos >= end {
		s.pos = end - s.scene.FrameInterval()
		return true
	}
	return false
}

// Seek moves to pos, clamped to the pass.
func (s *Session) Seek(pos time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seekLocked(pos)
}

func (s *Session) seekLocked(pos time.Duration) {
	last := s.scene.Duration() - s.scene.FrameInterval()
	s.pos = min(max(pos, 0), last)
	s.renderer.Reset()
}

// Step moves n frames forward or backward and snaps to the frame start.
func (s *Session) Step(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := min(max(s.indexLocked()+n, 0), s.scene.Frames()-1)
	s.seekLocked(time.Duration(idx) * s.scene.FrameInterval())
}

// Rewind returns to the first frame.
func (s *Session) Rewind() { s.Seek(0) }

// Resize changes the output cell size.
func (s *Session) Resize(termW, termH int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outW = max(termW, 1)
	s.outH = max(termH, 1)
}

// Frame returns the state of the current frame, computing it on first use.
func (s *Session) Frame() (frame.State, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return frame.State{}, fmt.Errorf("session closed")
	}
	idx := s.indexLocked()
	if st, ok := s.cache[idx]; ok {
		s.mu.Unlock()
		return st, nil
	}
	s.mu.Unlock()

	st, err := s.scene.Generator.Frame(idx)
	if err != nil {
		return frame.State{}, err
	}
	s.mu.Lock()
	if s.cache != nil {
		s.cache[idx] = st
	}
	s.mu.Unlock()
	return st, nil
}

// View renders the current frame.
func (s *Session) View() (string, frame.State, error) {
	st, err := s.Frame()
	if err != nil {
		return "", frame.State{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderer.Render(st, s.outW, s.outH), st, nil
}

// Prefetch computes every frame not yet cached in parallel. progress, if
// set, is called after each frame with the number of frames ready.
func (s *Session) Prefetch(ctx context.Context, workers int, progress func(done, total int)) error {
	start := time.Now()
	n := s.scene.Frames()
	states := make([]frame.State, n)
	have := make([]bool, n)

	s.mu.Lock()
	for i := range n {
		_, have[i] = s.cache[i]
	}
	s.mu.Unlock()

	var done atomic.Int64
	err := frame.Each(ctx, n, workers, func(i int) error {
		if !have[i] {
			st, err := s.scene.Generator.Frame(i)
			if err != nil {
				return err
			}
			states[i] = st
		}
		if progress != nil {
			progress(int(done.Add(1)), n)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	for i, st := range states {
		if !have[i] && s.cache != nil {
			s.cache[i] = st
		}
	}
	s.mu.Unlock()
	slog.Debug("prefetched frames", "scene", s.scene.Name, "frames", n, "elapsed", time.Since(start))
	return nil
}

// Cached returns the number of computed frames.
func (s *Session) Cached() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}

// Close releases the frame cache.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cache = nil
}

// TickInterval returns the redraw interval for the scene.
func (s *Session) TickInterval() time.Duration {
	return max(s.scene.FrameInterval(), minTick)
}
