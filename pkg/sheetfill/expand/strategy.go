package expand

import "github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"

// Box is the extent of a region without its cell contents.
type Box struct {
	Row  int
	Col  int
	Rows int
	Cols int
}

// BoxOf returns the extent of r.
func BoxOf(r models.Region) Box {
	return Box{Row: r.Row, Col: r.Col, Rows: r.Rows, Cols: r.Cols}
}

// Origin returns the absolute top-left position.
func (b Box) Origin() models.Position {
	return models.Position{Row: b.Row, Col: b.Col}
}

// Pad grows b by below rows and by left/right columns. Left padding stops at
// column 0.
func (b Box) Pad(below, left, right int) Box {
	shift := left
	if shift > b.Col {
		shift = b.Col
	}
	return Box{
		Row:  b.Row,
		Col:  b.Col - shift,
		Rows: b.Rows + below,
		Cols: b.Cols + shift + right,
	}
}

// Valid reports whether an extent is a plausible template or data block:
// at least 2x2, not a single row wider than 10 columns and not a single
// column taller than 20 rows.
func Valid(rows, cols int) bool {
	if rows < 2 || cols < 2 {
		return false
	}
	if rows == 1 && cols > 10 {
		return false
	}
	if cols == 1 && rows > 20 {
		return false
	}
	return true
}

// Strategy is one named template refinement.
type Strategy struct {
	Name    string
	Applies func(b Box) bool
	Apply   func(b Box) Box
}

// TemplateStrategies returns the refinements tried in order; the first that
// applies wins.
func TemplateStrategies() []Strategy {
	return []Strategy{
		{
			// header-only detections: always grow
			Name:    "single-row",
			Applies: func(b Box) bool { return b.Rows == 1 },
			Apply:   func(b Box) Box { return b.Pad(8, 2, 2) },
		},
		{
			Name:    "shallow-wide",
			Applies: func(b Box) bool { return b.Rows <= 2 && b.Cols > 5 },
			Apply:   func(b Box) Box { return b.Pad(5, 1, 1) },
		},
		{
			// vertical templates missing their value column
			Name:    "narrow-tall",
			Applies: func(b Box) bool { return b.Rows > 3 && b.Cols < 3 },
			Apply:   func(b Box) Box { return b.Pad(1, 0, 3) },
		},
	}
}

// SafetyNet is evaluated after the template strategies. A region that is
// still one row and wider than 3 columns is grown to 10 rows.
func SafetyNet() Strategy {
	return Strategy{
		Name:    "safety-net",
		Applies: func(b Box) bool { return b.Rows == 1 && b.Cols > 3 },
		Apply: func(b Box) Box {
			if b.Rows < 10 {
				b.Rows = 10
			}
			return b
		},
	}
}

// Refine runs the template strategies and the safety net over b and returns
// the resulting extent with the names of the strategies that fired.
func Refine(b Box) (Box, []string) {
	var applied []string
	for _, s := range TemplateStrategies() {
		if s.Applies(b) {
			b = s.Apply(b)
			applied = append(applied, s.Name)
			break
		}
	}
	if net := SafetyNet(); net.Applies(b) {
		b = net.Apply(b)
		applied = append(applied, net.Name)
	}
	return b, applied
}
