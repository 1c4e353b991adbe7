package viz

import (
	"strings"
	"testing"
)

func TestNewCanvasEmpty(t *testing.T) {
	c := NewCanvas(4, 3)
	lines := strings.Split(strings.TrimRight(c.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for _, line := range lines {
		for _, r := range line {
			if r != 0x2800 {
				t.Fatalf("expected empty braille cells, got %U", r)
			}
		}
	}
}

func TestSetUnset(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(3, 5)
	if c.Grid[1][1] != 0x2800|0x10 {
		t.Errorf("expected dot bit 0x10 in cell (1,1), got %U", c.Grid[1][1])
	}
	c.Unset(3, 5)
	if c.Grid[1][1] != 0x2800 {
		t.Errorf("expected cell cleared, got %U", c.Grid[1][1])
	}
}

func TestSetOutOfBounds(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(-1, 0)
	c.Set(0, -4)
	c.Set(4, 0)
	c.Set(0, 8)
	for i := range c.Grid {
		for j := range c.Grid[i] {
			if c.Grid[i][j] != 0x2800 {
				t.Fatalf("out of bounds write landed in cell (%d,%d)", i, j)
			}
		}
	}
}

func TestSpinCanvasDimensions(t *testing.T) {
	cases := []struct{ size, w, h int }{
		{50, 25, 13},
		{5, 3, 2},
		{4, 2, 1},
	}
	for _, tc := range cases {
		c := SpinCanvas(tc.size)
		if c.Width != tc.w || c.Height != tc.h {
			t.Errorf("size %d: expected %dx%d cells, got %dx%d", tc.size, tc.w, tc.h, c.Width, c.Height)
		}
	}
}

func TestDrawSpins(t *testing.T) {
	c := SpinCanvas(2)
	c.DrawSpins([]int8{1, 1, 1, 1}, 2)
	if c.Grid[0][0] != 0x2800|0x1|0x8|0x2|0x10 {
		t.Errorf("all-up 2x2 block wrong: %U", c.Grid[0][0])
	}

	c.DrawSpins([]int8{-1, -1, -1, -1}, 2)
	if c.Grid[0][0] != 0x2800 {
		t.Errorf("expected redraw to clear old dots, got %U", c.Grid[0][0])
	}

	c.DrawSpins([]int8{1, -1, -1, -1}, 2)
	if c.Grid[0][0] != 0x2800|0x1 {
		t.Errorf("single up spin wrong: %U", c.Grid[0][0])
	}
}
