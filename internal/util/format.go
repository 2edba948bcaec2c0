package util

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatDuration formats a duration as m:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	m := total / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatSI formats v with an SI prefix and three significant decimals,
// for example 1.44e-9 N/C as "1.44 nN/C".
func FormatSI(v float64, unit string) string {
	switch {
	case v == 0:
		return "0 " + unit
	case math.IsNaN(v), math.IsInf(v, 0):
		return fmt.Sprintf("%g %s", v, unit)
	}
	return humanize.SIWithDigits(v, 3, unit)
}

// FormatBytes formats a file size, for example "1.2 MB".
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// FormatTime formats a simulation time parameter.
func FormatTime(t float64) string {
	return fmt.Sprintf("t = %.3f", t)
}
