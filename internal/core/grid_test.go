package core

import (
	"errors"
	"testing"
)

func mustGrid(t *testing.T, w, h int) *Grid {
	t.Helper()
	g, err := NewGrid(w, h)
	if err != nil {
		t.Fatalf("NewGrid(%d,%d): %v", w, h, err)
	}
	return g
}

func TestNewGridRejectsNonPositiveSize(t *testing.T) {
	for _, tc := range []struct{ w, h int }{{0, 5}, {5, 0}, {-1, 5}, {0, 0}} {
		if _, err := NewGrid(tc.w, tc.h); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("NewGrid(%d,%d) err = %v, want ErrOutOfBounds", tc.w, tc.h, err)
		}
	}
}

func TestCellTypeOutOfBounds(t *testing.T) {
	g := mustGrid(t, 3, 3)
	for _, p := range []Point{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		if _, err := g.CellType(p.X, p.Y); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("CellType(%d,%d) err = %v, want ErrOutOfBounds", p.X, p.Y, err)
		}
	}
}

func TestIsTraversable(t *testing.T) {
	g := mustGrid(t, 4, 4)
	g.SetCell(1, 1, PermanentObstacle)
	g.SetCell(2, 1, TemporaryObstacle)
	g.SetCell(3, 1, SemiPermanentObstacle)
	g.SetCell(1, 2, Pickup)
	g.SetCell(2, 2, Shelf)

	tests := []struct {
		x, y int
		want bool
	}{
		{0, 0, true},  // empty
		{1, 1, false}, // permanent
		{2, 1, false}, // temporary
		{3, 1, false}, // semi-permanent
		{1, 2, true},  // pickup
		{2, 2, true},  // shelf
		{-1, 0, false},
		{4, 0, false},
	}
	for _, tc := range tests {
		if got := g.IsTraversable(tc.x, tc.y); got != tc.want {
			t.Errorf("IsTraversable(%d,%d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestSetDropPointMoves(t *testing.T) {
	g := mustGrid(t, 5, 5)
	if err := g.SetDropPoint(1, 1); err != nil {
		t.Fatalf("SetDropPoint: %v", err)
	}
	if err := g.SetDropPoint(3, 3); err != nil {
		t.Fatalf("SetDropPoint second: %v", err)
	}

	if ct, _ := g.CellType(1, 1); ct != Empty {
		t.Errorf("old drop cell = %v, want Empty", ct)
	}
	if ct, _ := g.CellType(3, 3); ct != Dropoff {
		t.Errorf("new drop cell = %v, want Dropoff", ct)
	}
	drop, ok := g.DropPoint()
	if !ok || drop != (Point{3, 3}) {
		t.Errorf("DropPoint() = %v,%v, want (3,3),true", drop, ok)
	}
}

func TestSetDropPointRejectsOccupied(t *testing.T) {
	g := mustGrid(t, 5, 5)
	g.SetCell(2, 2, PermanentObstacle)
	if err := g.SetDropPoint(2, 2); !errors.Is(err, ErrCellOccupied) {
		t.Errorf("SetDropPoint on obstacle err = %v, want ErrCellOccupied", err)
	}
	g.SetCell(1, 1, Pickup)
	if err := g.SetDropPoint(1, 1); !errors.Is(err, ErrCellOccupied) {
		t.Errorf("SetDropPoint on pickup err = %v, want ErrCellOccupied", err)
	}
}

func TestNeighborsOrderAndBounds(t *testing.T) {
	g := mustGrid(t, 3, 3)

	got := g.Neighbors(1, 1)
	want := []Point{{1, 0}, {1, 2}, {0, 1}, {2, 1}} // up, down, left, right
	if len(got) != len(want) {
		t.Fatalf("Neighbors(1,1) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Neighbors(1,1)[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if got := g.Neighbors(0, 0); len(got) != 2 {
		t.Errorf("Neighbors(0,0) = %v, want 2 neighbors", got)
	}
}

func TestResizeResetsOccupancy(t *testing.T) {
	g := mustGrid(t, 4, 4)
	g.SetCell(1, 1, PermanentObstacle)
	g.SetDropPoint(2, 2)

	if err := g.Resize(6, 3); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if g.Width() != 6 || g.Height() != 3 {
		t.Errorf("size = %dx%d, want 6x3", g.Width(), g.Height())
	}
	if _, ok := g.DropPoint(); ok {
		t.Error("drop point survived resize")
	}
	for _, c := range g.Cells() {
		if c != Empty {
			t.Fatalf("cell %v after resize, want Empty", c)
		}
	}

	if err := g.Resize(0, 3); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Resize(0,3) err = %v, want ErrOutOfBounds", err)
	}
}

func TestManhattan(t *testing.T) {
	if d := Manhattan(Point{1, 2}, Point{4, 0}); d != 5 {
		t.Errorf("Manhattan = %d, want 5", d)
	}
	if d := Manhattan(Point{3, 3}, Point{3, 3}); d != 0 {
		t.Errorf("Manhattan same point = %d, want 0", d)
	}
}
