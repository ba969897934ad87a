package grid

import (
	"strings"

	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
)

// Bounds is an inclusive, 0-based rectangle of cells.
type Bounds struct {
	MinRow, MaxRow int
	MinCol, MaxCol int
}

// Rows returns the number of rows covered.
func (b Bounds) Rows() int { return b.MaxRow - b.MinRow + 1 }

// Cols returns the number of columns covered.
func (b Bounds) Cols() int { return b.MaxCol - b.MinCol + 1 }

// Origin returns the top-left cell.
func (b Bounds) Origin() models.Position {
	return models.Position{Row: b.MinRow, Col: b.MinCol}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func cellAt(rows [][]string, r, c int) string {
	if r < 0 || r >= len(rows) || c < 0 || c >= len(rows[r]) {
		return ""
	}
	return rows[r][c]
}

// FindDataBounds finds the bounding box of non-empty cells. ok is false when
// every cell is empty.
func FindDataBounds(rows [][]string) (b Bounds, ok bool) {
	b = Bounds{MinRow: -1, MaxRow: -1, MinCol: -1, MaxCol: -1}

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if isBlank(cell) {
				continue
			}
			if b.MinRow < 0 || rowIdx < b.MinRow {
				b.MinRow = rowIdx
			}
			if b.MaxRow < 0 || rowIdx > b.MaxRow {
				b.MaxRow = rowIdx
			}
			if b.MinCol < 0 || colIdx < b.MinCol {
				b.MinCol = colIdx
			}
			if b.MaxCol < 0 || colIdx > b.MaxCol {
				b.MaxCol = colIdx
			}
		}
	}

	return b, b.MinRow >= 0
}

// CountNonEmpty counts non-empty cells within b.
func CountNonEmpty(rows [][]string, b Bounds) int {
	count := 0
	for rowIdx := b.MinRow; rowIdx <= b.MaxRow && rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		for colIdx := b.MinCol; colIdx <= b.MaxCol && colIdx < len(row); colIdx++ {
			if !isBlank(row[colIdx]) {
				count++
			}
		}
	}
	return count
}

// ConnectedBounds flood-fills orthogonally adjacent non-empty cells starting
// at at and returns the bounding box of the component. ok is false when at is
// itself empty.
func ConnectedBounds(rows [][]string, at models.Position) (b Bounds, ok bool) {
	if isBlank(cellAt(rows, at.Row, at.Col)) {
		return Bounds{}, false
	}

	b = Bounds{MinRow: at.Row, MaxRow: at.Row, MinCol: at.Col, MaxCol: at.Col}
	seen := map[models.Position]bool{at: true}
	queue := []models.Position{at}
	steps := []models.Position{{Row: -1}, {Row: 1}, {Col: -1}, {Col: 1}}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		b.MinRow = min(b.MinRow, p.Row)
		b.MaxRow = max(b.MaxRow, p.Row)
		b.MinCol = min(b.MinCol, p.Col)
		b.MaxCol = max(b.MaxCol, p.Col)

		for _, s := range steps {
			n := p.Add(s)
			if seen[n] || isBlank(cellAt(rows, n.Row, n.Col)) {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}

	return b, true
}

// Window copies nrows x ncols cells starting at origin, padding cells beyond
// the data with "".
func Window(rows [][]string, origin models.Position, nrows, ncols int) [][]string {
	out := make([][]string, nrows)
	for r := 0; r < nrows; r++ {
		out[r] = make([]string, ncols)
		for c := 0; c < ncols; c++ {
			out[r][c] = cellAt(rows, origin.Row+r, origin.Col+c)
		}
	}
	return out
}
