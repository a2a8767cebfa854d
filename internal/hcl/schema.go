package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes the top-level blocks of a pipeline file.
type fileRoot struct {
	Pipeline *pipelineSchema `hcl:"pipeline,block"`
	Remain   hcl.Body        `hcl:",remain"`
}

// pipelineSchema is an HCL `pipeline` block.
type pipelineSchema struct {
	Inputs   []*inputSchema `hcl:"input,block"`
	Output   *outputSchema  `hcl:"output,block"`
	Filter   *filterSchema  `hcl:"filter,block"`
	Tolerant bool           `hcl:"tolerant,optional"`
}

// inputSchema is an `input "path" {}` block.
type inputSchema struct {
	Path   string `hcl:"path,label"`
	Format string `hcl:"format,optional"`
	Sep    string `hcl:"sep,optional"`
}

// outputSchema is the `output {}` block.
type outputSchema struct {
	Path   string `hcl:"path"`
	Format string `hcl:"format,optional"`
}

// filterSchema is the `filter {}` block. The attribute values are kept as
// raw expressions and evaluated during translation.
type filterSchema struct {
	Tables hcl.Expression `hcl:"tables,optional"`
	Types  hcl.Expression `hcl:"types,optional"`
}
