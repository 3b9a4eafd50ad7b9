// Package dsl parses the markdown-flavored scene format: a Components
// section listing names, a Constraints section of ADJACENT(a, b, dir)
// statements, and a Component Tiles section pairing each name with a fenced
// ASCII block.
package dsl

import (
	"os"
	"strings"

	"github.com/gridlock-dev/gridlock/pkg/errors"
	"github.com/gridlock-dev/gridlock/pkg/layout"
)

// ComponentDef is a parsed component name with its raw ASCII tile.
type ComponentDef struct {
	Name string
	Tile string
}

// ConstraintDef is a parsed adjacency statement.
type ConstraintDef struct {
	A   string
	B   string
	Dir layout.Direction
}

// Spec is the parsed form of a scene file, before any solver validation.
type Spec struct {
	Components  []ComponentDef
	Constraints []ConstraintDef
}

type section int

const (
	sectionNone section = iota
	sectionComponents
	sectionConstraints
	sectionTiles
)

// Parse reads a scene spec from text. Section headers are matched loosely so
// hand-written and model-generated files both load; a constraint line that
// cannot be parsed is a hard error rather than a silent skip.
func Parse(text string) (*Spec, error) {
	spec := &Spec{}
	current := sectionNone
	name := ""
	var tile []string
	inFence := false

	flushTile := func() {
		if name != "" && len(tile) > 0 {
			spec.Components = append(spec.Components, ComponentDef{
				Name: name,
				Tile: strings.Join(tile, "\n"),
			})
		}
		tile = nil
	}

	for lineNo, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)

		if current == sectionTiles && inFence {
			if strings.HasPrefix(line, "```") {
				inFence = false
				flushTile()
				continue
			}
			// Inside a fence the raw line matters: indentation is tile data.
			tile = append(tile, strings.TrimRight(raw, "\r"))
			continue
		}
		if line == "" {
			continue
		}

		switch {
		case headerMatches(line, "component tiles"):
			current = sectionTiles
			continue
		case headerMatches(line, "components"):
			current = sectionComponents
			continue
		case headerMatches(line, "constraints"):
			current = sectionConstraints
			continue
		}

		switch current {
		case sectionComponents, sectionTiles:
			if current == sectionTiles && strings.HasPrefix(line, "```") {
				inFence = true
				tile = nil
				continue
			}
			if n, ok := componentName(line); ok {
				name = n
			}
		case sectionConstraints:
			if !strings.Contains(line, "(") {
				continue
			}
			c, err := parseConstraint(line)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d", lineNo+1)
			}
			spec.Constraints = append(spec.Constraints, c)
		}
	}
	if inFence {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unterminated code fence")
	}
	if len(spec.Components) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no component tiles found")
	}
	return spec, nil
}

// ParseFile loads and parses a scene spec from disk.
func ParseFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return Parse(string(data))
}

// Apply registers the parsed components and constraints with a solver.
func (s *Spec) Apply(solver *layout.Solver) error {
	for _, c := range s.Components {
		if err := solver.AddComponent(c.Name, c.Tile); err != nil {
			return err
		}
	}
	for _, c := range s.Constraints {
		if err := solver.AddConstraint(c.A, c.B, c.Dir); err != nil {
			return err
		}
	}
	return nil
}

// headerMatches reports whether a line is a section header for the given
// title. Leading hashes and bold markers are tolerated.
func headerMatches(line, title string) bool {
	l := strings.ToLower(strings.Trim(line, "#* \t"))
	return l == title || strings.HasPrefix(l, title+" ") || strings.HasSuffix(l, " "+title)
}

// componentName extracts a component name from a **Bold** marker, a
// "1. Name" numbered entry, or a trailing-colon line.
func componentName(line string) (string, bool) {
	if i := strings.Index(line, "**"); i >= 0 {
		rest := line[i+2:]
		if j := strings.Index(rest, "**"); j > 0 {
			n := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest[:j]), ":"))
			return n, n != ""
		}
	}
	if len(line) > 0 && line[0] >= '1' && line[0] <= '9' {
		if i := strings.Index(line, ". "); i > 0 {
			n := strings.TrimSpace(line[i+2:])
			if j := strings.IndexAny(n, "-—"); j >= 0 {
				n = strings.TrimSpace(n[:j])
			}
			return n, n != ""
		}
	}
	if strings.HasSuffix(line, ":") && !strings.ContainsAny(line, "()`") {
		n := strings.TrimSpace(strings.TrimSuffix(line, ":"))
		return n, n != ""
	}
	return "", false
}

// parseConstraint parses one ADJACENT(a, b, dir) statement, tolerating a
// leading list bullet.
func parseConstraint(line string) (ConstraintDef, error) {
	s := strings.TrimSpace(strings.TrimLeft(line, "-* \t"))
	upper := strings.ToUpper(s)
	if !strings.HasPrefix(upper, "ADJACENT") {
		return ConstraintDef{}, errors.New(errors.ErrCodeInvalidFormat, "unknown statement %q", s)
	}
	open := strings.Index(s, "(")
	closing := strings.LastIndex(s, ")")
	if open < 0 || closing < open {
		return ConstraintDef{}, errors.New(errors.ErrCodeInvalidFormat, "malformed statement %q", s)
	}
	parts := strings.Split(s[open+1:closing], ",")
	if len(parts) != 3 {
		return ConstraintDef{}, errors.New(errors.ErrCodeInvalidFormat, "expected 3 arguments in %q", s)
	}
	a := strings.TrimSpace(parts[0])
	b := strings.TrimSpace(parts[1])
	dir, ok := layout.ParseDirection(parts[2])
	if !ok {
		return ConstraintDef{}, errors.New(errors.ErrCodeInvalidFormat, "unknown direction %q", strings.TrimSpace(parts[2]))
	}
	if a == "" || b == "" {
		return ConstraintDef{}, errors.New(errors.ErrCodeInvalidFormat, "empty component name in %q", s)
	}
	return ConstraintDef{A: a, B: b, Dir: dir}, nil
}
