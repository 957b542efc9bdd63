package core

import "testing"

func TestGridRowMajor(t *testing.T) {
	g := NewGrid[float64](3, 2)
	g.Set(2, 1, 0.5)
	if got := g.Cells()[g.Index(2, 1)]; got != 0.5 {
		t.Fatalf("cell (2,1) = %v, want 0.5", got)
	}
	if g.Index(2, 1) != 5 {
		t.Fatalf("index (2,1) = %d, want 5", g.Index(2, 1))
	}
	if !g.InBounds(2, 1) || g.InBounds(3, 0) || g.InBounds(0, -1) {
		t.Fatal("bounds check mismatch")
	}
}

func TestGridEmpty(t *testing.T) {
	for _, dims := range [][2]int{{0, 0}, {0, 4}, {4, 0}, {-1, 3}} {
		g := NewGrid[uint8](dims[0], dims[1])
		if !g.Empty() {
			t.Fatalf("grid %v should be empty", dims)
		}
		if !g.Size().Empty() {
			t.Fatalf("size %v should be empty", g.Size())
		}
	}
	var nilGrid *Grid[int]
	if !nilGrid.Empty() {
		t.Fatal("nil grid should be empty")
	}
}

func TestGridFill(t *testing.T) {
	g := NewGrid[int](4, 4)
	g.Fill(7)
	for i, v := range g.Cells() {
		if v != 7 {
			t.Fatalf("cell %d = %d, want 7", i, v)
		}
	}
}
