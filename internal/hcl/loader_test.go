package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePipeline(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.hcl")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestLoad_FullPipeline(t *testing.T) {
	t.Parallel()

	path := writePipeline(t, `
pipeline {
  tolerant = true

  input "animals.csv" {
    sep = ","
  }

  input "sites.xlsx" {
    format = "excel"
  }

  output {
    path   = "out.json"
    format = "json"
  }

  filter {
    tables = ["farm_animals", "transport"]
    types  = ["table"]
  }
}
`)

	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	p := model.Pipeline
	assert.True(t, p.Tolerant)
	require.Len(t, p.Inputs, 2)
	assert.Equal(t, "animals.csv", p.Inputs[0].Path)
	assert.Equal(t, ",", p.Inputs[0].Sep)
	assert.Equal(t, "excel", p.Inputs[1].Format)
	assert.Equal(t, "out.json", p.Output.Path)
	assert.Equal(t, "json", p.Output.Format)
	require.NotNil(t, p.Filter)
	assert.Equal(t, []string{"farm_animals", "transport"}, p.Filter.Tables)
	assert.Equal(t, []string{"table"}, p.Filter.Types)
}

func TestLoad_MinimalPipeline(t *testing.T) {
	t.Parallel()

	path := writePipeline(t, `
pipeline {
  input "in.csv" {}

  output {
    path = "out.csv"
  }
}
`)

	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	p := model.Pipeline
	assert.False(t, p.Tolerant)
	assert.Nil(t, p.Filter)
	require.Len(t, p.Inputs, 1)
	assert.Empty(t, p.Inputs[0].Format)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		contents string
		wantErr  string
	}{
		{
			name:     "syntax error",
			contents: `pipeline {`,
			wantErr:  "failed to parse",
		},
		{
			name:     "no pipeline block",
			contents: ``,
			wantErr:  "no pipeline block",
		},
		{
			name: "no inputs",
			contents: `
pipeline {
  output { path = "out.csv" }
}
`,
			wantErr: "no input blocks",
		},
		{
			name: "no output",
			contents: `
pipeline {
  input "in.csv" {}
}
`,
			wantErr: "no output block",
		},
		{
			name: "bad input format",
			contents: `
pipeline {
  input "in.csv" { format = "parquet" }
  output { path = "out.csv" }
}
`,
			wantErr: "unknown input format",
		},
		{
			name: "bad output format",
			contents: `
pipeline {
  input "in.csv" {}
  output {
    path   = "out"
    format = "yaml"
  }
}
`,
			wantErr: "unknown output format",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := writePipeline(t, tc.contents)
			_, err := NewLoader().Load(context.Background(), path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent.hcl"))
	require.Error(t, err)
}
