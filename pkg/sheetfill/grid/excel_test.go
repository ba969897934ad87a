package grid

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
	"github.com/xuri/excelize/v2"
)

// newTestWorkbook writes cells (keyed by A1 name) to a temporary workbook and
// reopens it, the way a user-supplied file would arrive.
func newTestWorkbook(t *testing.T, cells map[string]interface{}) (*Workbook, string) {
	t.Helper()

	f := excelize.NewFile()
	for name, v := range cells {
		require.NoError(t, f.SetCellValue("Sheet1", name, v))
	}

	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.SaveAs(tmpFile))
	require.NoError(t, f.Close())

	wb, err := OpenWorkbook(tmpFile)
	require.NoError(t, err)
	t.Cleanup(func() { wb.Close() })
	return wb, tmpFile
}

func TestSheetOccupiedRange(t *testing.T) {
	wb, _ := newTestWorkbook(t, map[string]interface{}{
		"B2": "Header1",
		"C2": "Header2",
		"B3": 100,
		"D4": "Text",
	})
	sheet, err := wb.Sheet("")
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", sheet.Name())

	r, err := sheet.OccupiedRange(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, r.Row)
	assert.Equal(t, 1, r.Col)
	assert.Equal(t, 3, r.Rows)
	assert.Equal(t, 3, r.Cols)
	assert.Equal(t, "Header1", r.Cells[0][0])
	assert.Equal(t, "100", r.Cells[1][0])
	assert.Equal(t, "Text", r.Cells[2][2])
}

func TestSheetCurrentRegion(t *testing.T) {
	wb, _ := newTestWorkbook(t, map[string]interface{}{
		"A1": "Name", "B1": "Age",
		"A2": "Bob", "B2": 42,
		"E5": "island",
	})
	sheet, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	ctx := context.Background()

	r, ok, err := sheet.CurrentRegion(ctx, models.Position{Row: 1, Col: 1})
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, r.SameExtent(models.Region{Row: 0, Col: 0, Rows: 2, Cols: 2}))

	_, ok, err = sheet.CurrentRegion(ctx, models.Position{Row: 2, Col: 2})
	require.NoError(t, err)
	assert.False(t, ok, "empty cell has no current region")
}

func TestSheetWriteFillAnnotateSync(t *testing.T) {
	wb, path := newTestWorkbook(t, map[string]interface{}{"A1": "Total"})
	out := filepath.Join(t.TempDir(), "out.xlsx")
	wb.SetOutput(out)
	assert.Equal(t, out, wb.Output())

	sheet, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	ctx := context.Background()
	at := models.Position{Row: 0, Col: 1}

	require.NoError(t, sheet.WriteCell(ctx, at, models.NumberValue(12.5)))
	require.NoError(t, sheet.SetFill(ctx, at, "#ffc7ce"))
	require.NoError(t, sheet.AddAnnotation(ctx, at, "Expected: 12\nActual: 12.5"))
	// replacing an existing comment must not fail
	require.NoError(t, sheet.AddAnnotation(ctx, at, "Expected: 13\nActual: 12.5"))
	require.NoError(t, sheet.Sync(ctx))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Sheet1", "B1")
	require.NoError(t, err)
	assert.Equal(t, "12.5", v)

	styleID, err := f.GetCellStyle("Sheet1", "B1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.Len(t, style.Fill.Color, 1)
	assert.Contains(t, strings.ToUpper(style.Fill.Color[0]), DefaultMismatchColor)
	assert.Equal(t, 1, style.Fill.Pattern)

	comments, err := f.GetComments("Sheet1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "B1", comments[0].Cell)

	// the source workbook is untouched when an output path is set
	src, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer src.Close()
	v, err = src.GetCellValue("Sheet1", "B1")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestSheetClearFill(t *testing.T) {
	wb, _ := newTestWorkbook(t, map[string]interface{}{"A1": "x", "B1": "y"})
	sheet, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, sheet.SetFill(ctx, models.Position{Row: 0, Col: 0}, DefaultMismatchColor))
	region, err := sheet.ReadRegion(ctx, models.Position{}, 1, 2)
	require.NoError(t, err)
	require.NoError(t, sheet.ClearFill(ctx, region))

	styleID, err := wb.f.GetCellStyle("Sheet1", "A1")
	require.NoError(t, err)
	style, err := sheet.baseStyle(styleID)
	require.NoError(t, err)
	assert.Empty(t, style.Fill.Color)
}

func TestSheetSelectionDefaultsToA1(t *testing.T) {
	wb, _ := newTestWorkbook(t, map[string]interface{}{"A1": "Name"})
	sheet, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	r, err := sheet.Selection(context.Background())
	require.NoError(t, err)
	assert.True(t, r.IsSingleCell())
	assert.Equal(t, "Name", r.Cells[0][0])
}

func TestWorkbookUnknownSheet(t *testing.T) {
	wb, _ := newTestWorkbook(t, map[string]interface{}{"A1": "x"})
	_, err := wb.Sheet("Nope")
	assert.Error(t, err)
}
