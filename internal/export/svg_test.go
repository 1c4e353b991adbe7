package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpinsSVG(t *testing.T) {
	svg := SpinsSVG([]int8{1, -1, -1, 1}, 2, 10)

	assert.True(t, strings.HasPrefix(svg, `<?xml version="1.0"`))
	assert.Contains(t, svg, `width="20" height="20"`)
	assert.Equal(t, 2, strings.Count(svg, `<rect x=`), "one cell per up spin")
	assert.Contains(t, svg, `<rect x="0.0" y="0.0"`)
	assert.Contains(t, svg, `<rect x="10.0" y="10.0"`)
}

func TestSpinsSVGBadInput(t *testing.T) {
	assert.Empty(t, SpinsSVG([]int8{1, 1, 1}, 2, 10))
	assert.Empty(t, SpinsSVG(nil, 0, 10))
}

func TestSVGWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lattice.svg")
	require.NoError(t, SVG(path, []int8{1, 1, -1, -1}, 2, 8))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "</svg>")

	require.Error(t, SVG(path, []int8{1}, 2, 8))
}
