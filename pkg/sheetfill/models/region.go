package models

// Region is a rectangular snapshot of sheet cells together with its absolute
// position in the sheet. Cells is always Rows x Cols, padded with "".
type Region struct {
	// Sheet is the owning sheet name.
	Sheet string `json:"sheet,omitempty"`
	// Row is the absolute 0-based row of the top-left cell.
	Row int `json:"row"`
	// Col is the absolute 0-based column of the top-left cell.
	Col int `json:"col"`
	// Rows is the number of rows in the region.
	Rows int `json:"rows"`
	// Cols is the number of columns in the region.
	Cols int `json:"cols"`
	// Cells holds the displayed cell text, indexed [row][col] relative to the origin.
	Cells [][]string `json:"cells"`
}

// NewRegion builds a Region at origin from cells, normalizing ragged rows so
// that every row has the width of the widest one.
func NewRegion(sheet string, origin Position, cells [][]string) Region {
	cols := 0
	for _, row := range cells {
		if len(row) > cols {
			cols = len(row)
		}
	}
	grid := make([][]string, len(cells))
	for i, row := range cells {
		grid[i] = make([]string, cols)
		copy(grid[i], row)
	}
	return Region{
		Sheet: sheet,
		Row:   origin.Row,
		Col:   origin.Col,
		Rows:  len(cells),
		Cols:  cols,
		Cells: grid,
	}
}

// Origin returns the absolute position of the top-left cell.
func (r Region) Origin() Position {
	return Position{Row: r.Row, Col: r.Col}
}

// Contains reports whether the region-relative position p lies inside r.
func (r Region) Contains(p Position) bool {
	return p.Row >= 0 && p.Row < r.Rows && p.Col >= 0 && p.Col < r.Cols
}

// IsSingleCell reports whether r spans exactly one cell.
func (r Region) IsSingleCell() bool {
	return r.Rows == 1 && r.Cols == 1
}

// Empty reports whether r has no extent.
func (r Region) Empty() bool {
	return r.Rows <= 0 || r.Cols <= 0
}

// SameExtent reports whether r and o cover the same cells.
func (r Region) SameExtent(o Region) bool {
	return r.Row == o.Row && r.Col == o.Col && r.Rows == o.Rows && r.Cols == o.Cols
}

// Value returns the text at region-relative position p, or "" when p is out of bounds.
func (r Region) Value(p Position) string {
	if !r.Contains(p) || p.Row >= len(r.Cells) || p.Col >= len(r.Cells[p.Row]) {
		return ""
	}
	return r.Cells[p.Row][p.Col]
}

// NonEmptyCount returns the number of non-empty cells.
func (r Region) NonEmptyCount() int {
	n := 0
	for _, row := range r.Cells {
		for _, c := range row {
			if c != "" {
				n++
			}
		}
	}
	return n
}
