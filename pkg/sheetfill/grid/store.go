// Package grid abstracts the host spreadsheet behind a sheet-scoped Store and
// provides the coordinate helpers shared by its implementations.
package grid

import (
	"context"

	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
)

// DefaultMismatchColor is the fill applied to mismatched cells.
const DefaultMismatchColor = "FFC7CE"

// Store is the spreadsheet capability consumed by the pipeline. It is bound to
// one sheet; every coordinate crossing it is absolute and 0-based.
type Store interface {
	// Selection returns the currently selected region.
	Selection(ctx context.Context) (models.Region, error)
	// CurrentRegion returns the bounding box of the contiguous non-empty
	// block containing at. ok is false when at is empty.
	CurrentRegion(ctx context.Context, at models.Position) (region models.Region, ok bool, err error)
	// OccupiedRange returns the bounding box of all non-empty cells.
	OccupiedRange(ctx context.Context) (models.Region, error)
	// ReadRegion reads rows x cols cells starting at origin.
	ReadRegion(ctx context.Context, origin models.Position, rows, cols int) (models.Region, error)
	ReadCell(ctx context.Context, at models.Position) (string, error)
	WriteCell(ctx context.Context, at models.Position, v models.Value) error
	// SetFill paints the cell background with an RGB hex color.
	SetFill(ctx context.Context, at models.Position, color string) error
	// ClearFill removes the background color from every cell of r.
	ClearFill(ctx context.Context, r models.Region) error
	// AddAnnotation attaches a comment to the cell, replacing an existing one.
	AddAnnotation(ctx context.Context, at models.Position, text string) error
	// Sync commits the mutations issued since the last Sync.
	Sync(ctx context.Context) error
}
