package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/startable/startable-go/block"
	"github.com/startable/startable-go/csv"
	"github.com/startable/startable-go/excel"
	"github.com/startable/startable-go/internal/config"
	"github.com/startable/startable-go/internal/ctxlog"
	"github.com/startable/startable-go/jsondata"
	"github.com/startable/startable-go/parse"
	"github.com/startable/startable-go/table"
)

// Run executes the configured pipeline: read every input, segment and type
// its blocks, apply the filter, and write the collected blocks to the output.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	fixer := parse.NewDefaultFixer()
	fixer.StopOnErrors = !a.pipeline.Tolerant

	opts := parse.Options{
		Fixer:  fixer,
		Filter: filterFunc(a.pipeline.Filter),
	}

	var blocks []parse.Parsed
	for _, in := range a.pipeline.Inputs {
		read, err := a.readInput(ctx, in, opts)
		if err != nil {
			return fmt.Errorf("reading %s: %w", in.Path, err)
		}
		blocks = append(blocks, read...)
	}
	a.logger.Info("Inputs parsed.", "inputs", len(a.pipeline.Inputs), "blocks", len(blocks))

	if err := a.writeOutput(a.pipeline.Output, blocks); err != nil {
		return fmt.Errorf("writing %s: %w", outputLabel(a.pipeline.Output.Path), err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// readInput parses one input file into its blocks. The transport is chosen
// from the configured format, falling back to the file extension.
func (a *App) readInput(ctx context.Context, in *config.Input, opts parse.Options) ([]parse.Parsed, error) {
	logger := ctxlog.FromContext(ctx)

	format := in.Format
	if format == "" {
		switch strings.ToLower(filepath.Ext(in.Path)) {
		case ".xlsx", ".xlsm":
			format = "excel"
		default:
			format = "csv"
		}
	}
	logger.Debug("Reading input.", "path", in.Path, "format", format)

	switch format {
	case "csv":
		f, err := os.Open(in.Path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		sep := rune(csv.DefaultSep)
		if in.Sep != "" {
			sep = []rune(in.Sep)[0]
		}
		popts := opts
		popts.Origin = in.Path
		it, err := csv.Read(f, csv.ReadOptions{Sep: sep, Parse: popts})
		if err != nil {
			return nil, err
		}
		return it.ReadAll()

	case "excel":
		wb, err := excel.OpenFile(in.Path)
		if err != nil {
			return nil, err
		}
		defer wb.Close()

		var all []parse.Parsed
		for _, sheet := range wb.SheetNames() {
			it, err := wb.Parse(sheet, opts)
			if err != nil {
				return nil, fmt.Errorf("sheet %q: %w", sheet, err)
			}
			blocks, err := it.ReadAll()
			if err != nil {
				return nil, fmt.Errorf("sheet %q: %w", sheet, err)
			}
			all = append(all, blocks...)
		}
		return all, nil
	}
	return nil, fmt.Errorf("unknown input format %q", format)
}

// writeOutput serializes the blocks to the configured destination. An empty
// path or "-" writes to the app's output writer.
func (a *App) writeOutput(out *config.Output, blocks []parse.Parsed) error {
	format := out.Format
	if format == "" {
		switch strings.ToLower(filepath.Ext(out.Path)) {
		case ".xlsx", ".xlsm":
			format = "excel"
		case ".json":
			format = "json"
		default:
			format = "csv"
		}
	}

	var w io.Writer
	if out.Path == "" || out.Path == "-" {
		w = a.outW
	} else {
		f, err := os.Create(out.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "json":
		return writeJSON(w, blocks)
	case "csv":
		cw := csv.NewWriter(w, csv.DefaultSep)
		for _, b := range blocks {
			if err := cw.Write(b.Value); err != nil {
				return err
			}
		}
		return nil
	case "excel":
		return excel.WriteTables(w, "Sheet1", tablesOf(blocks))
	}
	return fmt.Errorf("unknown output format %q", format)
}

// writeJSON emits the table blocks as a JSON array; other block types have
// no JSON encoding and are dropped.
func writeJSON(w io.Writer, blocks []parse.Parsed) error {
	tables := []*jsondata.Table{}
	for _, t := range tablesOf(blocks) {
		jt, err := jsondata.FromTable(t)
		if err != nil {
			return err
		}
		tables = append(tables, jt)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tables)
}

func tablesOf(blocks []parse.Parsed) []*table.Table {
	var tables []*table.Table
	for _, b := range blocks {
		if t, ok := b.Value.(*table.Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// filterFunc translates the declarative pipeline filter into a block filter.
// An empty list places no constraint on its dimension.
func filterFunc(f *config.Filter) parse.Filter {
	if f == nil {
		return nil
	}
	return func(t block.Type, name string) bool {
		if len(f.Types) > 0 && !containsFold(f.Types, t.String()) {
			return false
		}
		if t == block.TypeTable && len(f.Tables) > 0 && !containsFold(f.Tables, name) {
			return false
		}
		return true
	}
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}

func outputLabel(path string) string {
	if path == "" || path == "-" {
		return "stdout"
	}
	return path
}
