// Package sheetfill fills spreadsheet templates from documents and validates
// spreadsheet data against them.
package sheetfill

import (
	"github.com/rs/zerolog"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/analyze"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/grid"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/llm"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/mapper"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/validate"
)

// Mode represents the pipeline a run executes.
type Mode string

const (
	// ModePopulate analyzes the template and writes extracted values into it.
	ModePopulate Mode = "populate"
	// ModeValidate compares the region with the document and highlights mismatches.
	ModeValidate Mode = "validate"
	// ModeInspect expands and analyzes the region without touching it.
	ModeInspect Mode = "inspect"
)

// Collaborators are the inference backends a run delegates to.
type Collaborators struct {
	Extractor Extractor
	Inferrer  analyze.Inferrer
	Aligner   mapper.Aligner
	Comparer  validate.Comparer
}

// ModelCollaborators backs every stage with the language model client.
func ModelCollaborators(client *llm.Client) Collaborators {
	return Collaborators{
		Extractor: client,
		Inferrer:  analyze.NewModelInferrer(client),
		Aligner:   mapper.NewModelAligner(client),
		Comparer:  client,
	}
}

// OfflineCollaborators uses the deterministic heuristics and reads JSON
// documents directly.
func OfflineCollaborators() Collaborators {
	return Collaborators{
		Extractor: JSONExtractor{},
		Inferrer:  analyze.NewHeuristicInferrer(),
		Aligner:   mapper.NewHeuristicAligner(),
		Comparer:  validate.NewHeuristicComparer(),
	}
}

// Options configures an Engine.
type Options struct {
	// Logger receives pipeline logs. Defaults to a no-op logger.
	Logger *zerolog.Logger
	// HighlightColor is the RGB hex fill for mismatched cells.
	HighlightColor string
	// PadRows and PadCols override the expander's generic padding when positive.
	PadRows int
	PadCols int
}

// DefaultOptions returns the default engine options.
func DefaultOptions() Options {
	return Options{HighlightColor: grid.DefaultMismatchColor}
}

func (o Options) logger() zerolog.Logger {
	if o.Logger != nil {
		return *o.Logger
	}
	return zerolog.Nop()
}
