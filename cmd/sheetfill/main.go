// Package main provides the CLI entry point for sheetfill.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/llm"
	"github.com/ukaji3/sheetfill-go/pkg/sheetfill/models"
)

var (
	configPath string
	logLevel   string
	logFormat  string
	noColor    bool
	quiet      bool

	documentPath string
	sheetName    string
	rangeRef     string
	instructions string
	outputPath   string
	offline      bool
	jsonReport   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sheetfill",
		Short: "Fill spreadsheet templates from documents",
		Long: `sheetfill reads a document (PDF, image, text or JSON), works out the layout
of a template region in an Excel sheet and writes the extracted values into it.
It can also compare existing sheet data with a document and highlight the
cells that disagree.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: console or json")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print errors")

	populateCmd := &cobra.Command{
		Use:   "populate [workbook.xlsx]",
		Short: "Write values extracted from a document into a template region",
		Args:  cobra.ExactArgs(1),
		RunE:  runPopulate,
	}
	validateCmd := &cobra.Command{
		Use:   "validate [workbook.xlsx]",
		Short: "Highlight cells that disagree with a document",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}
	inspectCmd := &cobra.Command{
		Use:   "inspect [workbook.xlsx]",
		Short: "Print the detected template region and structure as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}

	for _, cmd := range []*cobra.Command{populateCmd, validateCmd, inspectCmd} {
		cmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet name (default: active sheet)")
		cmd.Flags().StringVarP(&rangeRef, "range", "r", "", "Starting range in A1 notation (default: the sheet's selection)")
		cmd.Flags().BoolVar(&offline, "offline", false, "Use local heuristics instead of the model; documents must be JSON")
	}
	for _, cmd := range []*cobra.Command{populateCmd, validateCmd} {
		cmd.Flags().StringVarP(&documentPath, "document", "d", "", "Source document")
		cmd.Flags().StringVarP(&instructions, "instructions", "i", "", "Extra instructions for the model")
		cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Save the workbook here instead of overwriting the input")
		cmd.Flags().BoolVar(&jsonReport, "json", false, "Print the run report as JSON")
		_ = cmd.MarkFlagRequired("document")
	}

	rootCmd.AddCommand(populateCmd, validateCmd, inspectCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		newUI(noColor, false).fail("%v", err)
		stop()
		os.Exit(1)
	}
}

func runPopulate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	u := newUI(noColor, quiet || jsonReport)

	s, sel, doc, err := prepare(ctx, args[0], true)
	if err != nil {
		return err
	}
	defer s.Close()

	u.start("Populating " + args[0])
	run, err := s.engine.Populate(ctx, sel, doc, instructions)
	u.stop()
	if err != nil {
		return fmt.Errorf("populate failed: %w", err)
	}

	if jsonReport {
		return writeJSON(cmd.OutOrStdout(), run)
	}
	u.success("Filled %d cells in %s (%s, %d fields), saved to %s",
		len(run.Placements), run.Range, run.Structure.Orientation, len(run.Structure.Fields), s.wb.Output())
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	u := newUI(noColor, quiet || jsonReport)

	s, sel, doc, err := prepare(ctx, args[0], true)
	if err != nil {
		return err
	}
	defer s.Close()

	u.start("Validating " + args[0])
	run, err := s.engine.Validate(ctx, sel, doc, instructions)
	u.stop()
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if jsonReport {
		return writeJSON(cmd.OutOrStdout(), run)
	}
	h := run.Highlights
	if len(h.Dropped) > 0 {
		u.warning("%d mismatches pointed outside %s and were ignored", len(h.Dropped), run.Range)
	}
	if len(h.AnnotationFailures) > 0 {
		u.warning("%d highlighted cells could not be annotated", len(h.AnnotationFailures))
	}
	if len(h.Applied) == 0 {
		u.success("No mismatches in %s", run.Range)
		return nil
	}
	u.success("Highlighted %d mismatched cells in %s, saved to %s", len(h.Applied), run.Range, s.wb.Output())
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s, sel, _, err := prepare(ctx, args[0], false)
	if err != nil {
		return err
	}
	defer s.Close()

	run, err := s.engine.Inspect(ctx, sel)
	if err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}
	return writeJSON(cmd.OutOrStdout(), run)
}

// prepare opens the session, reads the starting selection and loads the
// source document when needDoc is set.
func prepare(ctx context.Context, workbookPath string, needDoc bool) (*session, models.Region, *llm.Document, error) {
	var doc *llm.Document
	if needDoc {
		var err error
		if doc, err = llm.LoadDocument(documentPath); err != nil {
			return nil, models.Region{}, nil, err
		}
	}

	s, err := openSession(ctx, workbookPath)
	if err != nil {
		return nil, models.Region{}, nil, err
	}
	sel, err := s.engine.Selection(ctx, rangeRef)
	if err != nil {
		s.Close()
		return nil, models.Region{}, nil, fmt.Errorf("read selection: %w", err)
	}
	return s, sel, doc, nil
}

func writeJSON(w io.Writer, run *sheetfill.Run) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
