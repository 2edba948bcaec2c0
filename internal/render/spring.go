package render

import "github.com/charmbracelet/harmonica"

// springField smooths a small set of values toward per-frame targets.
type springField struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
	primed []bool
}

func newSpringField(fps int, frequency, damping float64, n int) springField {
	return springField{
		spring: harmonica.NewSpring(harmonica.FPS(max(fps, 1)), frequency, damping),
		pos:    make([]float64, n),
		vel:    make([]float64, n),
		primed: make([]bool, n),
	}
}

// step moves value i toward target. The first non-zero target after a reset
// is taken as is.
func (s *springField) step(i int, target float64) float64 {
	if !s.primed[i] {
		if target == 0 {
			return 0
		}
		s.pos[i], s.vel[i], s.primed[i] = target, 0, true
		return target
	}
	p, v := s.spring.Update(s.pos[i], s.vel[i], target)
	s.pos[i] = p
	s.vel[i] = v
	return p
}

func (s *springField) reset() {
	clear(s.pos)
	clear(s.vel)
	clear(s.primed)
}
