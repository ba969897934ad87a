package sheetfill

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/analyze"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/expand"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/grid"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/llm"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/mapper"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/populate"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/validate"
)

// Run is the state of one pipeline execution. Each stage fills in its
// result; after a failure the fields of the completed stages remain set.
type Run struct {
	ID         string                    `json:"id"`
	Mode       Mode                      `json:"mode"`
	Region     models.Region             `json:"region"`
	Range      string                    `json:"range"`
	Structure  *models.TemplateStructure `json:"structure,omitempty"`
	Extracted  interface{}               `json:"extracted,omitempty"`
	Rows       []models.MappedRow        `json:"-"`
	Placements []models.Placement        `json:"placements,omitempty"`
	Mismatches []models.Mismatch         `json:"mismatches,omitempty"`
	Highlights *validate.HighlightReport `json:"highlights,omitempty"`
}

// Engine runs the populate, validate and inspect pipelines against one sheet.
// Stages run strictly in sequence; an Engine holds no state between runs.
type Engine struct {
	store    grid.Store
	expander *expand.Expander
	analyzer *analyze.Analyzer
	mapper   *mapper.Mapper
	writer   *populate.Populator
	checker  *validate.Validator
	extract  Extractor
	logger   zerolog.Logger
}

// NewEngine wires the pipeline stages around store.
func NewEngine(store grid.Store, c Collaborators, opts Options) *Engine {
	logger := opts.logger()

	expandOpts := []expand.Option{expand.WithLogger(logger)}
	if opts.PadRows > 0 || opts.PadCols > 0 {
		expandOpts = append(expandOpts, expand.WithPadding(opts.PadRows, opts.PadCols))
	}

	return &Engine{
		store:    store,
		expander: expand.New(store, expandOpts...),
		analyzer: analyze.New(c.Inferrer, analyze.WithLogger(logger)),
		mapper:   mapper.New(c.Aligner, mapper.WithLogger(logger)),
		writer:   populate.New(store, populate.WithLogger(logger)),
		checker:  validate.New(store, c.Comparer, validate.WithLogger(logger), validate.WithColor(opts.HighlightColor)),
		extract:  c.Extractor,
		logger:   logger,
	}
}

// Selection reads the region named by ref (A1 notation), or the store's
// current selection when ref is empty.
func (e *Engine) Selection(ctx context.Context, ref string) (models.Region, error) {
	if ref == "" {
		return e.store.Selection(ctx)
	}
	parsed, err := grid.ParseRef(ref)
	if err != nil {
		return models.Region{}, err
	}
	return e.store.ReadRegion(ctx, parsed.Start, parsed.Rows(), parsed.Cols())
}

func (e *Engine) newRun(mode Mode) (*Run, zerolog.Logger) {
	run := &Run{ID: uuid.NewString(), Mode: mode}
	return run, e.logger.With().Str("run_id", run.ID).Str("mode", string(mode)).Logger()
}

func (r *Run) setRegion(region models.Region) {
	r.Region = region
	r.Range = grid.RangeName(region)
}

// Inspect expands sel and infers its structure without writing anything.
func (e *Engine) Inspect(ctx context.Context, sel models.Region) (*Run, error) {
	run, logger := e.newRun(ModeInspect)

	region, err := e.expander.ExpandForTemplate(ctx, sel)
	if err != nil {
		return run, err
	}
	run.setRegion(region)
	logger.Info().Str("range", run.Range).Msg("region selected")

	run.Structure, err = e.analyzer.Analyze(ctx, region)
	if err != nil {
		return run, err
	}
	return run, nil
}

// Populate expands sel into a template region, infers its structure,
// extracts doc, maps the data onto the fields and writes it.
func (e *Engine) Populate(ctx context.Context, sel models.Region, doc *llm.Document, instructions string) (*Run, error) {
	run, logger := e.newRun(ModePopulate)

	region, err := e.expander.ExpandForTemplate(ctx, sel)
	if err != nil {
		return run, err
	}
	run.setRegion(region)
	logger.Info().Str("range", run.Range).Msg("region selected")

	if run.Structure, err = e.analyzer.Analyze(ctx, region); err != nil {
		return run, err
	}
	logger.Info().
		Str("orientation", string(run.Structure.Orientation)).
		Strs("fields", run.Structure.FieldNames()).
		Msg("template analyzed")

	if run.Extracted, err = e.extractDocument(ctx, doc, instructions); err != nil {
		return run, err
	}

	if run.Rows, err = e.mapper.Map(ctx, run.Extracted, run.Structure.Fields); err != nil {
		return run, err
	}

	run.Placements, err = e.writer.Populate(ctx, run.Rows, run.Structure, region.Origin())
	if err != nil {
		return run, err
	}
	logger.Info().Int("cells", len(run.Placements)).Msg("populate finished")
	return run, nil
}

// Validate expands sel, extracts doc, compares the two and highlights the
// cells that disagree.
func (e *Engine) Validate(ctx context.Context, sel models.Region, doc *llm.Document, instructions string) (*Run, error) {
	run, logger := e.newRun(ModeValidate)

	region, err := e.expander.Expand(ctx, sel)
	if err != nil {
		return run, err
	}
	run.setRegion(region)
	logger.Info().Str("range", run.Range).Msg("region selected")

	if run.Extracted, err = e.extractDocument(ctx, doc, instructions); err != nil {
		return run, err
	}

	if run.Mismatches, err = e.checker.Validate(ctx, region, run.Extracted, instructions); err != nil {
		return run, err
	}

	if run.Highlights, err = e.checker.ApplyHighlights(ctx, run.Mismatches, region); err != nil {
		return run, err
	}
	logger.Info().
		Int("mismatches", len(run.Mismatches)).
		Int("highlighted", len(run.Highlights.Applied)).
		Msg("validate finished")
	return run, nil
}

func (e *Engine) extractDocument(ctx context.Context, doc *llm.Document, instructions string) (interface{}, error) {
	if doc == nil {
		return nil, models.NewExtractionError("no document given", nil)
	}
	data, err := e.extract.Extract(ctx, doc, instructions)
	if err != nil {
		var me *models.Error
		if errors.As(err, &me) {
			return nil, err
		}
		return nil, fmt.Errorf("extract %s: %w", doc.Name, err)
	}
	return data, nil
}
