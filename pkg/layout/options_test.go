package layout

import (
	"testing"

	"github.com/gridlock-dev/gridlock/pkg/errors"
)

func TestScoreAxisLadder(t *testing.T) {
	tests := []struct {
		name                   string
		cLo, cLen, rLo, rLen   int
		want                   int
	}{
		{"left edges aligned", 0, 4, 0, 7, 100},
		{"right edges aligned", 3, 4, 0, 7, 100},
		{"centered same parity", 1, 3, 0, 5, 90},
		{"touching spans", 4, 3, 0, 4, 49},
		{"gap of three", 7, 3, 0, 4, 46},
		{"huge gap floors at one", 100, 3, 0, 4, 1},
	}
	for _, tt := range tests {
		if got := scoreAxis(tt.cLo, tt.cLen, tt.rLo, tt.rLen); got != tt.want {
			t.Errorf("%s: scoreAxis(%d,%d,%d,%d) = %d, want %d",
				tt.name, tt.cLo, tt.cLen, tt.rLo, tt.rLen, got, tt.want)
		}
	}
}

func TestScoreAxisOverlapBand(t *testing.T) {
	// Partial overlaps always land strictly between detached and centered.
	for cLo := -2; cLo <= 5; cLo++ {
		got := scoreAxis(cLo, 4, 0, 7)
		if got == 100 || got == 90 {
			continue
		}
		overlap := min(cLo+4, 7) - max(cLo, 0)
		if overlap <= 0 {
			continue
		}
		if got < 50 || got > 89 {
			t.Errorf("scoreAxis(%d,4,0,7) = %d, want within [50,89]", cLo, got)
		}
	}
}

func TestGenerateOptionsNorthSide(t *testing.T) {
	s := newTestSolver(t)
	a, _ := s.Component("A") // 7x5
	b, _ := s.Component("B") // 4x3
	if err := s.place(a, 0, 0); err != nil {
		t.Fatalf("place failed: %v", err)
	}

	opts := s.generateOptions(b, a, North)
	if len(opts) != a.Width+b.Width-1 {
		t.Fatalf("got %d options, want %d", len(opts), a.Width+b.Width-1)
	}
	for _, opt := range opts {
		if opt.Y != -b.Height {
			t.Fatalf("option at y=%d, want %d", opt.Y, -b.Height)
		}
		if opt.X < -b.Width+1 || opt.X > a.Width-1 {
			t.Fatalf("option x=%d outside [-%d, %d]", opt.X, b.Width-1, a.Width-1)
		}
	}

	// The two edge-aligned placements are the only perfect scores: there is
	// no parity match between widths 4 and 7.
	perfect := map[int]bool{}
	for _, opt := range opts {
		if opt.Score == 100 {
			perfect[opt.X] = true
		}
	}
	if len(perfect) != 2 || !perfect[0] || !perfect[a.Width-b.Width] {
		t.Fatalf("perfect scores at %v, want x=0 and x=%d", perfect, a.Width-b.Width)
	}
}

func TestGenerateOptionsSkipsFailedPositions(t *testing.T) {
	s := newTestSolver(t)
	a, _ := s.Component("A")
	b, _ := s.Component("B")
	if err := s.place(a, 0, 0); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	before := len(s.generateOptions(b, a, North))
	s.markFailed(b, 0, -b.Height)
	after := len(s.generateOptions(b, a, North))
	if after != before-1 {
		t.Fatalf("got %d options after pruning, want %d", after, before-1)
	}
}

func TestGenerateOptionsAnyCoversAllSides(t *testing.T) {
	s := newTestSolver(t)
	a, _ := s.Component("A")
	b, _ := s.Component("B")
	if err := s.place(a, 0, 0); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	opts := s.generateOptions(b, a, Any)
	seen := map[Direction]int{}
	for _, opt := range opts {
		seen[opt.Side]++
	}
	for _, d := range []Direction{North, South, East, West} {
		if seen[d] == 0 {
			t.Errorf("no options generated on side %s", d)
		}
	}
	horizontal := a.Width + b.Width - 1
	vertical := a.Height + b.Height - 1
	if want := 2*horizontal + 2*vertical; len(opts) != want {
		t.Fatalf("got %d options, want %d", len(opts), want)
	}
}

func TestOrderOptionsConflictFreeFirst(t *testing.T) {
	opts := []Option{
		{X: 1, Score: 80, Conflicts: []Conflict{{Name: "x"}}},
		{X: 2, Score: 40},
		{X: 3, Score: 100, Conflicts: []Conflict{{Name: "x"}}},
		{X: 4, Score: 90},
		{X: 5, Score: 40},
	}
	orderOptions(opts)

	wantX := []int{4, 2, 5, 3, 1}
	for i, want := range wantX {
		if opts[i].X != want {
			t.Fatalf("position %d: got x=%d, want %d (order %v)", i, opts[i].X, want, opts)
		}
	}
}

func TestPlacementOptions(t *testing.T) {
	s := newTestSolver(t)
	if err := s.Place("A", 0, 0); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	b, _ := s.Component("B")

	opts, err := s.PlacementOptions(Constraint{A: "B", B: "A", Dir: North})
	if err != nil {
		t.Fatalf("PlacementOptions failed: %v", err)
	}
	if len(opts) == 0 {
		t.Fatal("expected candidates")
	}
	for _, opt := range opts {
		if opt.Y != -b.Height {
			t.Fatalf("option at y=%d, want %d", opt.Y, -b.Height)
		}
	}
	for i := 1; i < len(opts); i++ {
		prev, cur := opts[i-1], opts[i]
		if len(prev.Conflicts) > 0 && len(cur.Conflicts) == 0 {
			t.Fatal("conflicted candidate ordered before a clean one")
		}
		if len(prev.Conflicts) == len(cur.Conflicts) && prev.Score < cur.Score {
			t.Fatalf("scores out of order at %d: %d before %d", i, prev.Score, cur.Score)
		}
	}
}

func TestPlacementOptionsMirrorsDirection(t *testing.T) {
	// When the constraint's first endpoint is the placed one, the options
	// position the second endpoint on the opposite side.
	s := newTestSolver(t)
	if err := s.Place("A", 0, 0); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	a, _ := s.Component("A")

	opts, err := s.PlacementOptions(Constraint{A: "A", B: "B", Dir: North})
	if err != nil {
		t.Fatalf("PlacementOptions failed: %v", err)
	}
	// A north of B means B lands south of A.
	for _, opt := range opts {
		if opt.Y != a.Height {
			t.Fatalf("option at y=%d, want %d", opt.Y, a.Height)
		}
		if opt.Side != South {
			t.Fatalf("option side %q, want south", opt.Side.String())
		}
	}
}

func TestPlacementOptionsErrors(t *testing.T) {
	s := newTestSolver(t)

	_, err := s.PlacementOptions(Constraint{A: "B", B: "nope", Dir: North})
	if errors.GetCode(err) != errors.ErrCodeInvalidConstraint {
		t.Fatalf("unknown endpoint: got %v", err)
	}

	// Neither endpoint placed.
	_, err = s.PlacementOptions(Constraint{A: "B", B: "A", Dir: North})
	if errors.GetCode(err) != errors.ErrCodeInvalidInput {
		t.Fatalf("no placed endpoint: got %v", err)
	}

	// Both endpoints placed.
	if err := s.Place("A", 0, 0); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if err := s.Place("B", 20, 0); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	_, err = s.PlacementOptions(Constraint{A: "B", B: "A", Dir: North})
	if errors.GetCode(err) != errors.ErrCodeInvalidInput {
		t.Fatalf("both placed: got %v", err)
	}
}
