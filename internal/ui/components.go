package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"

	"github.com/olivier-w/fieldviz/internal/field"
	"github.com/olivier-w/fieldviz/internal/frame"
	"github.com/olivier-w/fieldviz/internal/util"
)

const chartHeight = 4

func renderProgressBar(elapsed, total float64, width int) string {
	if width < 10 {
		width = 10
	}
	barWidth := width - 2

	var ratio float64
	if total > 0 {
		ratio = elapsed / total
	}
	ratio = math.Min(math.Max(ratio, 0), 1)

	filled := int(ratio * float64(barWidth))
	return strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)
}

// fieldUnit returns the unit of the probed field: N/C when any electric
// source is present, tesla otherwise.
func fieldUnit(st frame.State) string {
	for _, s := range st.Sources {
		if s.Kind == field.ElectricPoint {
			return "N/C"
		}
	}
	return "T"
}

func renderReadouts(st frame.State) []string {
	unit := fieldUnit(st)
	lines := make([]string, 0, len(st.Probes))
	for i, p := range st.Probes {
		v := p.Vector
		lines = append(lines, fmt.Sprintf("probe %d  |F| %s  x %s  y %s  z %s",
			i+1,
			util.FormatSI(p.Magnitude, unit),
			util.FormatSI(v.X, ""),
			util.FormatSI(v.Y, ""),
			util.FormatSI(v.Z, ""),
		))
	}
	return lines
}

// renderProbeChart plots the probe magnitude history in the SI prefix of its
// largest value.
func renderProbeChart(history []float64, unit string, width int) string {
	if len(history) < 2 {
		return ""
	}
	var peak float64
	for _, v := range history {
		peak = math.Max(peak, v)
	}
	scale := 1.0
	prefix := ""
	if peak > 0 {
		var value float64
		value, prefix = humanize.ComputeSI(peak)
		scale = value / peak
	}
	scaled := make([]float64, len(history))
	for i, v := range history {
		scaled[i] = v * scale
	}
	return asciigraph.Plot(scaled,
		asciigraph.Height(chartHeight),
		asciigraph.Width(max(width-12, 10)),
		asciigraph.Precision(2),
		asciigraph.Caption(fmt.Sprintf("|F| at probe 1 (%s%s)", prefix, unit)),
	)
}

func spaces(n int) string {
	return strings.Repeat(" ", max(n, 0))
}

func indentBlock(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
