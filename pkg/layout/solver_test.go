package layout

import (
	"strings"
	"testing"

	"github.com/gridlock-dev/gridlock/pkg/errors"
)

const roomA = `+-----+
|     |
|  A  |
|     |
+-----+`

const roomB = `+--+
|B |
+--+`

func newTestSolver(t *testing.T) *Solver {
	t.Helper()
	s := NewSolver(Limits{})
	if err := s.AddComponent("A", roomA); err != nil {
		t.Fatalf("AddComponent(A) failed: %v", err)
	}
	if err := s.AddComponent("B", roomB); err != nil {
		t.Fatalf("AddComponent(B) failed: %v", err)
	}
	return s
}

func TestAddComponentValidation(t *testing.T) {
	s := NewSolver(Limits{})
	if err := s.AddComponent("", "x"); errors.GetCode(err) != errors.ErrCodeInvalidComponent {
		t.Fatalf("empty name: got %v", err)
	}
	if err := s.AddComponent("A", "   \n\t "); errors.GetCode(err) != errors.ErrCodeInvalidComponent {
		t.Fatalf("blank tile: got %v", err)
	}
	if err := s.AddComponent("A", "ok"); err != nil {
		t.Fatalf("AddComponent failed: %v", err)
	}
	if err := s.AddComponent("A", "ok"); errors.GetCode(err) != errors.ErrCodeInvalidComponent {
		t.Fatalf("duplicate name: got %v", err)
	}

	small := NewSolver(Limits{MaxTileSize: 4})
	if err := small.AddComponent("big", "#####"); errors.GetCode(err) != errors.ErrCodeCapacity {
		t.Fatalf("oversized tile: got %v", err)
	}
}

func TestAddComponentPadsRaggedTiles(t *testing.T) {
	s := NewSolver(Limits{})
	if err := s.AddComponent("R", "##\n####\n#"); err != nil {
		t.Fatalf("AddComponent failed: %v", err)
	}
	c, ok := s.Component("R")
	if !ok {
		t.Fatal("component not found")
	}
	if c.Width != 4 || c.Height != 3 {
		t.Fatalf("size = %dx%d, want 4x3", c.Width, c.Height)
	}
	if got := c.At(3, 0); got != ' ' {
		t.Fatalf("padded cell = %q, want blank", got)
	}
	if got := c.At(3, 1); got != '#' {
		t.Fatalf("cell(3,1) = %q, want '#'", got)
	}
}

func TestAddConstraintValidation(t *testing.T) {
	s := newTestSolver(t)
	if err := s.AddConstraint("A", "B", North); err != nil {
		t.Fatalf("AddConstraint failed: %v", err)
	}
	if err := s.AddConstraint("A", "missing", North); errors.GetCode(err) != errors.ErrCodeInvalidConstraint {
		t.Fatalf("unknown component: got %v", err)
	}
	if err := s.AddConstraint("A", "A", North); errors.GetCode(err) != errors.ErrCodeInvalidConstraint {
		t.Fatalf("self constraint: got %v", err)
	}
	if err := s.AddConstraint("A", "B", Direction('x')); errors.GetCode(err) != errors.ErrCodeInvalidConstraint {
		t.Fatalf("bad direction: got %v", err)
	}
}

func TestSatisfiedIsDirectional(t *testing.T) {
	s := newTestSolver(t)
	a, _ := s.Component("A")
	b, _ := s.Component("B")
	if err := s.place(a, 0, 0); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	// B flush on top of A: B is north of A, and A is south of B.
	if err := s.place(b, 0, -b.Height); err != nil {
		t.Fatalf("place failed: %v", err)
	}

	tests := []struct {
		c    Constraint
		want bool
	}{
		{Constraint{A: "B", B: "A", Dir: North}, true},
		{Constraint{A: "A", B: "B", Dir: South}, true},
		{Constraint{A: "B", B: "A", Dir: South}, false},
		{Constraint{A: "B", B: "A", Dir: East}, false},
		{Constraint{A: "B", B: "A", Dir: Any}, true},
	}
	for _, tt := range tests {
		got, err := s.Satisfied(tt.c)
		if err != nil {
			t.Fatalf("Satisfied(%s) failed: %v", tt.c, err)
		}
		if got != tt.want {
			t.Errorf("Satisfied(%s) = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestSatisfiedRejectsCornerContact(t *testing.T) {
	s := newTestSolver(t)
	a, _ := s.Component("A")
	b, _ := s.Component("B")
	if err := s.place(a, 0, 0); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	// B diagonal at A's top-left corner: edges touch only at a point.
	if err := s.place(b, -b.Width, -b.Height); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	got, err := s.Satisfied(Constraint{A: "B", B: "A", Dir: Any})
	if err != nil {
		t.Fatalf("Satisfied failed: %v", err)
	}
	if got {
		t.Fatal("corner contact must not satisfy adjacency")
	}
}

func TestPlaceUnplaceRoundTrip(t *testing.T) {
	s := newTestSolver(t)
	a, _ := s.Component("A")
	if err := s.place(a, 2, 3); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if got := s.Cell(2, 3); got != '+' {
		t.Fatalf("Cell(2,3) = %q, want '+'", got)
	}
	s.unplace(a)
	if a.Placed {
		t.Fatal("component still marked placed")
	}
	if got := s.Cell(2, 3); got != ' ' {
		t.Fatalf("Cell(2,3) after unplace = %q, want blank", got)
	}
}

func TestIsValidOverlap(t *testing.T) {
	s := newTestSolver(t)
	a, _ := s.Component("A")
	b, _ := s.Component("B")
	if err := s.place(a, 0, 0); err != nil {
		t.Fatalf("place failed: %v", err)
	}

	valid, err := s.isValid(b, 0, 0)
	if err != nil {
		t.Fatalf("isValid failed: %v", err)
	}
	if valid {
		t.Fatal("overlapping placement reported valid")
	}
	valid, err = s.isValid(b, a.Width, 0)
	if err != nil {
		t.Fatalf("isValid failed: %v", err)
	}
	if !valid {
		t.Fatal("flush placement east of A reported invalid")
	}
}

func TestIsValidIgnoresBlankCells(t *testing.T) {
	s := NewSolver(Limits{})
	// L-shaped tile leaves its top-right quadrant blank.
	if err := s.AddComponent("L", "#\n##"); err != nil {
		t.Fatalf("AddComponent failed: %v", err)
	}
	if err := s.AddComponent("dot", "*"); err != nil {
		t.Fatalf("AddComponent failed: %v", err)
	}
	l, _ := s.Component("L")
	dot, _ := s.Component("dot")
	if err := s.place(l, 0, 0); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	valid, err := s.isValid(dot, 1, 0)
	if err != nil {
		t.Fatalf("isValid failed: %v", err)
	}
	if !valid {
		t.Fatal("placement inside blank cell of L reported invalid")
	}
}

func TestSnapshotRestore(t *testing.T) {
	s := newTestSolver(t)
	a, _ := s.Component("A")
	b, _ := s.Component("B")
	if err := s.place(a, 0, 0); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if err := s.pushSnapshot(); err != nil {
		t.Fatalf("pushSnapshot failed: %v", err)
	}
	if err := s.place(b, a.Width, 0); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	s.unplace(a)

	s.restoreSnapshot()
	if !a.Placed || a.X != 0 || a.Y != 0 {
		t.Fatalf("A not restored: placed=%v at (%d,%d)", a.Placed, a.X, a.Y)
	}
	if b.Placed {
		t.Fatal("B should be unplaced after restore")
	}
	if got := s.Cell(a.Width, 1); got != ' ' {
		t.Fatalf("grid kept B's characters after restore: %q", got)
	}
	if got := s.Cell(0, 0); got != '+' {
		t.Fatalf("grid lost A's characters after restore: %q", got)
	}
}

func TestSnapshotLimit(t *testing.T) {
	s := NewSolver(Limits{MaxSnapshots: 2})
	if err := s.AddComponent("A", "#"); err != nil {
		t.Fatalf("AddComponent failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := s.pushSnapshot(); err != nil {
			t.Fatalf("pushSnapshot %d failed: %v", i, err)
		}
	}
	if err := s.pushSnapshot(); errors.GetCode(err) != errors.ErrCodeCapacity {
		t.Fatalf("expected capacity error, got %v", err)
	}
}

func TestNormalizeShiftsToOrigin(t *testing.T) {
	s := newTestSolver(t)
	a, _ := s.Component("A")
	b, _ := s.Component("B")
	if err := s.place(a, 3, 2); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if err := s.place(b, 3, 2-b.Height); err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if err := s.normalize(); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if b.X != 0 || b.Y != 0 {
		t.Fatalf("B at (%d,%d), want origin", b.X, b.Y)
	}
	if a.X != 0 || a.Y != b.Height {
		t.Fatalf("A at (%d,%d), want (0,%d)", a.X, a.Y, b.Height)
	}
	if !strings.HasPrefix(s.Render(), "+--+") {
		t.Fatalf("render does not start with B's top edge:\n%s", s.Render())
	}
}

func TestPlaceAndUnplace(t *testing.T) {
	s := newTestSolver(t)

	if err := s.Place("A", 0, 0); err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	a, _ := s.Component("A")
	if !a.Placed || a.X != 0 || a.Y != 0 {
		t.Fatalf("A not placed at origin: %+v", a)
	}

	if err := s.Place("A", 5, 5); errors.GetCode(err) != errors.ErrCodeInvalidInput {
		t.Fatalf("double place: got %v", err)
	}
	if err := s.Place("nope", 0, 0); errors.GetCode(err) != errors.ErrCodeInvalidComponent {
		t.Fatalf("unknown component: got %v", err)
	}

	// B overlapping A's border is rejected; a flush position works.
	if err := s.Place("B", 0, 0); errors.GetCode(err) != errors.ErrCodeInvalidInput {
		t.Fatalf("overlap: got %v", err)
	}
	b, _ := s.Component("B")
	if err := s.Place("B", 0, -b.Height); err != nil {
		t.Fatalf("flush place failed: %v", err)
	}

	if err := s.Unplace("B"); err != nil {
		t.Fatalf("Unplace failed: %v", err)
	}
	if b.Placed {
		t.Fatal("B still marked placed")
	}
	if err := s.Place("B", 0, -b.Height); err != nil {
		t.Fatalf("re-place after unplace failed: %v", err)
	}
	if err := s.Unplace("nope"); errors.GetCode(err) != errors.ErrCodeInvalidComponent {
		t.Fatalf("unplace unknown: got %v", err)
	}
}

func TestErrorMessagesKeepVerbatimNames(t *testing.T) {
	// Component names are user input; a % in them must come through the
	// error message untouched instead of being eaten as a printf verb.
	s := NewSolver(Limits{})
	if err := s.AddComponent("A", "ok"); err != nil {
		t.Fatalf("AddComponent failed: %v", err)
	}
	err := s.AddConstraint("50%tile", "A", North)
	if errors.GetCode(err) != errors.ErrCodeInvalidConstraint {
		t.Fatalf("expected invalid constraint, got %v", err)
	}
	if !strings.Contains(err.Error(), `"50%tile"`) {
		t.Fatalf("message garbled the name: %q", err.Error())
	}
}
