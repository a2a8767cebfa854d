package config

// Model is the format-agnostic representation of a conversion pipeline: the
// inputs to read, an optional block filter, the fixer tolerance, and the
// output to produce. It is what the application executes, whether it was
// loaded from an HCL pipeline file or synthesized from command-line flags.
type Model struct {
	Pipeline *Pipeline
}

// Pipeline describes one conversion run.
type Pipeline struct {
	Inputs   []*Input
	Output   *Output
	Filter   *Filter
	Tolerant bool
}

// Input is a single file to read.
type Input struct {
	Path string
	// Format is "csv" or "excel"; empty means infer from the file
	// extension.
	Format string
	// Sep is the CSV field separator; empty means the default ";".
	Sep string
}

// Output describes where and how converted blocks are written.
type Output struct {
	Path string
	// Format is "json", "csv" or "excel"; empty means infer from the file
	// extension.
	Format string
}

// Filter restricts which blocks are parsed and written. A nil Filter keeps
// everything.
type Filter struct {
	// Tables lists table names to keep; empty keeps all tables.
	Tables []string
	// Types lists block type names to keep ("metadata", "directive",
	// "table", "template_row"); empty keeps all types.
	Types []string
}
