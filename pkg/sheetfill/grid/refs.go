package grid

import (
	"fmt"
	"strings"

	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
	"github.com/xuri/excelize/v2"
)

// Ref is a parsed A1-style reference: an optional sheet and an inclusive
// range of absolute 0-based cells.
type Ref struct {
	Sheet string
	Start models.Position
	End   models.Position
}

// Rows returns the number of rows covered by the reference.
func (r Ref) Rows() int { return r.End.Row - r.Start.Row + 1 }

// Cols returns the number of columns covered by the reference.
func (r Ref) Cols() int { return r.End.Col - r.Start.Col + 1 }

// ParseRef parses a reference string.
// Format: 'Sheet Name'!$A$1:$D$10, Sheet1!A1, B3:C4 or B3.
func ParseRef(ref string) (Ref, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Ref{}, fmt.Errorf("empty reference")
	}

	var out Ref
	// Split by ! to separate sheet name and range
	if idx := strings.LastIndex(ref, "!"); idx >= 0 {
		out.Sheet = strings.Trim(ref[:idx], "'")
		ref = ref[idx+1:]
	}

	// Multi-area references keep only the first area
	if idx := strings.IndexAny(ref, ", "); idx >= 0 {
		ref = ref[:idx]
	}
	ref = strings.ReplaceAll(ref, "$", "")

	parts := strings.Split(ref, ":")
	if len(parts) > 2 {
		return Ref{}, fmt.Errorf("invalid range %q", ref)
	}

	start, err := ParseCell(parts[0])
	if err != nil {
		return Ref{}, err
	}
	end := start
	if len(parts) == 2 {
		if end, err = ParseCell(parts[1]); err != nil {
			return Ref{}, err
		}
	}

	out.Start = models.Position{Row: min(start.Row, end.Row), Col: min(start.Col, end.Col)}
	out.End = models.Position{Row: max(start.Row, end.Row), Col: max(start.Col, end.Col)}
	return out, nil
}

// ParseCell converts a cell name like "B3" to a 0-based position.
func ParseCell(name string) (models.Position, error) {
	col, row, err := excelize.CellNameToCoordinates(strings.ReplaceAll(name, "$", ""))
	if err != nil {
		return models.Position{}, fmt.Errorf("invalid cell %q: %w", name, err)
	}
	return models.Position{Row: row - 1, Col: col - 1}, nil
}

// CellName converts a 0-based position to a cell name like "B3".
func CellName(p models.Position) (string, error) {
	return excelize.CoordinatesToCellName(p.Col+1, p.Row+1)
}

// RangeName renders the A1 range covered by r, e.g. "A1:D10".
func RangeName(r models.Region) string {
	if r.Empty() {
		return ""
	}
	start, err := CellName(r.Origin())
	if err != nil {
		return ""
	}
	if r.IsSingleCell() {
		return start
	}
	end, err := CellName(models.Position{Row: r.Row + r.Rows - 1, Col: r.Col + r.Cols - 1})
	if err != nil {
		return start
	}
	return start + ":" + end
}
