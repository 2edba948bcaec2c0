package ui

// RepeatMode decides what happens when a scene reaches its last frame.
type RepeatMode int

const (
	RepeatOne RepeatMode = iota // loop the current scene
	RepeatAll                   // play the queue, then start over
	RepeatOff                   // play the queue once and stop
)

// Next cycles to the next repeat mode.
func (r RepeatMode) Next() RepeatMode {
	switch r {
	case RepeatOne:
		return RepeatAll
	case RepeatAll:
		return RepeatOff
	default:
		return RepeatOne
	}
}

// String returns the name of the repeat mode.
func (r RepeatMode) String() string {
	switch r {
	case RepeatOne:
		return "one"
	case RepeatAll:
		return "all"
	default:
		return "off"
	}
}

// Icon returns a visual indicator for the repeat mode.
func (r RepeatMode) Icon() string {
	switch r {
	case RepeatOne:
		return "[loop]"
	case RepeatAll:
		return "[repeat all]"
	default:
		return ""
	}
}
