package grid

import (
	"context"
	"fmt"
	"strings"

	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
	"github.com/xuri/excelize/v2"
)

// DefaultAuthor is the comment author used for annotations.
const DefaultAuthor = "sheetfill"

// Workbook is an .xlsx file opened for reading and writing.
type Workbook struct {
	f      *excelize.File
	path   string
	output string
}

// OpenWorkbook opens the workbook at path. Writes are saved back to path
// unless SetOutput is called.
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return &Workbook{f: f, path: path, output: path}, nil
}

// NewWorkbook wraps an already open file.
func NewWorkbook(f *excelize.File, output string) *Workbook {
	return &Workbook{f: f, path: output, output: output}
}

// SetOutput redirects Sync to save the workbook at path.
func (w *Workbook) SetOutput(path string) {
	if path != "" {
		w.output = path
	}
}

// Output returns the path Sync saves to.
func (w *Workbook) Output() string { return w.output }

// Close releases the underlying file.
func (w *Workbook) Close() error { return w.f.Close() }

// Sheet returns a Store bound to the named sheet. An empty name selects the
// active sheet.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	if name == "" {
		name = w.f.GetSheetName(w.f.GetActiveSheetIndex())
	}
	idx, err := w.f.GetSheetIndex(name)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", name)
	}
	return &Sheet{
		wb:     w,
		name:   name,
		author: DefaultAuthor,
		styles: make(map[styleKey]int),
	}, nil
}

type styleKey struct {
	base  int
	color string
}

// Sheet is a Store backed by one excelize worksheet.
type Sheet struct {
	wb     *Workbook
	name   string
	author string
	styles map[styleKey]int
}

var _ Store = (*Sheet)(nil)

// Name returns the sheet name.
func (s *Sheet) Name() string { return s.name }

// SetAuthor sets the author recorded on annotations.
func (s *Sheet) SetAuthor(author string) {
	if author != "" {
		s.author = author
	}
}

func (s *Sheet) rows() ([][]string, error) {
	return s.wb.f.GetRows(s.name)
}

// Selection returns the range selected in the sheet view, or A1 when the
// workbook records no selection.
func (s *Sheet) Selection(ctx context.Context) (models.Region, error) {
	ref := Ref{}
	panes, err := s.wb.f.GetPanes(s.name)
	if err == nil {
		for _, sel := range panes.Selection {
			raw := sel.SQRef
			if raw == "" {
				raw = sel.ActiveCell
			}
			if raw == "" {
				continue
			}
			if parsed, perr := ParseRef(raw); perr == nil {
				ref = parsed
				break
			}
		}
	}
	return s.ReadRegion(ctx, ref.Start, ref.Rows(), ref.Cols())
}

func (s *Sheet) CurrentRegion(ctx context.Context, at models.Position) (models.Region, bool, error) {
	rows, err := s.rows()
	if err != nil {
		return models.Region{}, false, err
	}
	b, ok := ConnectedBounds(rows, at)
	if !ok {
		return models.Region{}, false, nil
	}
	return models.NewRegion(s.name, b.Origin(), Window(rows, b.Origin(), b.Rows(), b.Cols())), true, nil
}

func (s *Sheet) OccupiedRange(ctx context.Context) (models.Region, error) {
	rows, err := s.rows()
	if err != nil {
		return models.Region{}, err
	}
	b, ok := FindDataBounds(rows)
	if !ok {
		return models.Region{Sheet: s.name}, nil
	}
	return models.NewRegion(s.name, b.Origin(), Window(rows, b.Origin(), b.Rows(), b.Cols())), nil
}

func (s *Sheet) ReadRegion(ctx context.Context, origin models.Position, nrows, ncols int) (models.Region, error) {
	if origin.Negative() {
		return models.Region{}, fmt.Errorf("region origin %s is negative", origin)
	}
	rows, err := s.rows()
	if err != nil {
		return models.Region{}, err
	}
	return models.NewRegion(s.name, origin, Window(rows, origin, nrows, ncols)), nil
}

func (s *Sheet) ReadCell(ctx context.Context, at models.Position) (string, error) {
	name, err := CellName(at)
	if err != nil {
		return "", err
	}
	return s.wb.f.GetCellValue(s.name, name)
}

func (s *Sheet) WriteCell(ctx context.Context, at models.Position, v models.Value) error {
	name, err := CellName(at)
	if err != nil {
		return err
	}
	return s.wb.f.SetCellValue(s.name, name, v.Interface())
}

// SetFill derives a style from the cell's current one with a solid fill, so
// number formats and fonts survive highlighting.
func (s *Sheet) SetFill(ctx context.Context, at models.Position, color string) error {
	name, err := CellName(at)
	if err != nil {
		return err
	}
	base, err := s.wb.f.GetCellStyle(s.name, name)
	if err != nil {
		return err
	}
	color = strings.TrimPrefix(strings.ToUpper(color), "#")
	key := styleKey{base: base, color: color}
	id, ok := s.styles[key]
	if !ok {
		style, err := s.baseStyle(base)
		if err != nil {
			return err
		}
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
		if id, err = s.wb.f.NewStyle(style); err != nil {
			return err
		}
		s.styles[key] = id
	}
	return s.wb.f.SetCellStyle(s.name, name, name, id)
}

func (s *Sheet) ClearFill(ctx context.Context, r models.Region) error {
	for row := 0; row < r.Rows; row++ {
		for col := 0; col < r.Cols; col++ {
			name, err := CellName(models.Position{Row: r.Row + row, Col: r.Col + col})
			if err != nil {
				return err
			}
			base, err := s.wb.f.GetCellStyle(s.name, name)
			if err != nil {
				return err
			}
			if base == 0 {
				continue
			}
			style, err := s.baseStyle(base)
			if err != nil {
				return err
			}
			if style.Fill.Type == "" && len(style.Fill.Color) == 0 {
				continue
			}
			style.Fill = excelize.Fill{}
			id, err := s.wb.f.NewStyle(style)
			if err != nil {
				return err
			}
			if err := s.wb.f.SetCellStyle(s.name, name, name, id); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Sheet) baseStyle(id int) (*excelize.Style, error) {
	if id == 0 {
		return &excelize.Style{}, nil
	}
	return s.wb.f.GetStyle(id)
}

func (s *Sheet) AddAnnotation(ctx context.Context, at models.Position, text string) error {
	name, err := CellName(at)
	if err != nil {
		return err
	}
	comments, err := s.wb.f.GetComments(s.name)
	if err != nil {
		return err
	}
	for _, c := range comments {
		if c.Cell == name {
			if err := s.wb.f.DeleteComment(s.name, name); err != nil {
				return err
			}
			break
		}
	}
	return s.wb.f.AddComment(s.name, excelize.Comment{
		Author:    s.author,
		Cell:      name,
		Paragraph: []excelize.RichTextRun{{Text: text}},
	})
}

// Sync saves the workbook to its output path.
func (s *Sheet) Sync(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.wb.output == "" {
		return nil
	}
	return s.wb.f.SaveAs(s.wb.output)
}
