package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/startable/startable-go/internal/config"
)

// translatePipeline converts the HCL-specific pipeline schema into the
// format-agnostic model, evaluating filter expressions and validating
// formats.
func (l *Loader) translatePipeline(p *pipelineSchema) (*config.Model, error) {
	pipeline := &config.Pipeline{Tolerant: p.Tolerant}

	if len(p.Inputs) == 0 {
		return nil, fmt.Errorf("pipeline has no input blocks")
	}
	for _, in := range p.Inputs {
		if err := validateInputFormat(in.Format); err != nil {
			return nil, fmt.Errorf("input %q: %w", in.Path, err)
		}
		pipeline.Inputs = append(pipeline.Inputs, &config.Input{
			Path:   in.Path,
			Format: in.Format,
			Sep:    in.Sep,
		})
	}

	if p.Output == nil {
		return nil, fmt.Errorf("pipeline has no output block")
	}
	if err := validateOutputFormat(p.Output.Format); err != nil {
		return nil, fmt.Errorf("output %q: %w", p.Output.Path, err)
	}
	pipeline.Output = &config.Output{Path: p.Output.Path, Format: p.Output.Format}

	if p.Filter != nil {
		tables, err := stringList(p.Filter.Tables)
		if err != nil {
			return nil, fmt.Errorf("filter tables: %w", err)
		}
		types, err := stringList(p.Filter.Types)
		if err != nil {
			return nil, fmt.Errorf("filter types: %w", err)
		}
		pipeline.Filter = &config.Filter{Tables: tables, Types: types}
	}

	return &config.Model{Pipeline: pipeline}, nil
}

// stringList evaluates an HCL expression to a list of strings. A nil or
// null expression yields nil.
func stringList(expr hcl.Expression) ([]string, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	listVal, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("expected a list of strings: %w", err)
	}
	var out []string
	for it := listVal.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		out = append(out, elem.AsString())
	}
	return out, nil
}

func validateInputFormat(format string) error {
	switch format {
	case "", "csv", "excel":
		return nil
	}
	return fmt.Errorf("unknown input format %q; expected 'csv' or 'excel'", format)
}

func validateOutputFormat(format string) error {
	switch format {
	case "", "json", "csv", "excel":
		return nil
	}
	return fmt.Errorf("unknown output format %q; expected 'json', 'csv' or 'excel'", format)
}
