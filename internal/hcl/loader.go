// Package hcl is the HCL-specific implementation of the pipeline loader: it
// parses a `pipeline` block from a .hcl file and translates it into the
// format-agnostic config model.
package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/startable/startable-go/internal/config"
	"github.com/startable/startable-go/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL pipeline loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the pipeline file at path and translates it into the model.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse pipeline file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode pipeline file %s: %w", path, diags)
	}
	if root.Pipeline == nil {
		return nil, fmt.Errorf("pipeline file %s contains no pipeline block", path)
	}

	model, err := l.translatePipeline(root.Pipeline)
	if err != nil {
		return nil, fmt.Errorf("invalid pipeline file %s: %w", path, err)
	}

	logger.Debug("HCL loading complete.",
		"inputs", len(model.Pipeline.Inputs), "tolerant", model.Pipeline.Tolerant)
	return model, nil
}
