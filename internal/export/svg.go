package export

import (
	"fmt"
	"os"
	"strings"
)

// SpinsSVG renders a square lattice as an SVG grid. Up spins draw a
// filled cell, down spins stay dark, so domains read as solid patches.
func SpinsSVG(spins []int8, size int, scale float64) string {
	if size < 1 || len(spins) != size*size {
		return ""
	}

	side := float64(size) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, side, side, side, side))

	// Slight inset keeps the lattice grid visible between cells.
	cell := scale * 0.9
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			if spins[i*size+j] <= 0 {
				continue
			}
			x := float64(j) * scale
			y := float64(i) * scale
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>
`, x, y, cell, cell))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SVG writes the lattice rendering to path.
func SVG(path string, spins []int8, size int, scale float64) error {
	doc := SpinsSVG(spins, size, scale)
	if doc == "" {
		return fmt.Errorf("export: cannot render %d spins as a %dx%d lattice", len(spins), size, size)
	}
	return os.WriteFile(path, []byte(doc), 0644)
}
