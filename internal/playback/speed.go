package playback

// SpeedMode represents the playback speed setting.
type SpeedMode int

const (
	Speed1x SpeedMode = iota
	Speed2x
	SpeedHalf
)

// Next cycles to the next speed mode: 1x → 2x → 0.5x → 1x.
func (s SpeedMode) Next() SpeedMode {
	switch s {
	case Speed1x:
		return Speed2x
	case Speed2x:
		return SpeedHalf
	default:
		return Speed1x
	}
}

// Label returns a display label for the speed mode.
func (s SpeedMode) Label() string {
	switch s {
	case Speed2x:
		return "[2x]"
	case SpeedHalf:
		return "[0.5x]"
	default:
		return ""
	}
}

// Factor is the ratio of scene time to wall time.
func (s SpeedMode) Factor() float64 {
	switch s {
	case Speed2x:
		return 2
	case SpeedHalf:
		return 0.5
	default:
		return 1
	}
}
