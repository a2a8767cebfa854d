package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startable/startable-go/block"
	"github.com/startable/startable-go/internal/config"
)

const animalsDoc = `**farm_animals;;;
your_farm my_farm;;;
species;n_legs;avg_weight;
text;-;kg;
chicken;2;2;
pig;4;89;

**transport;;
all;;
vehicle;wheels;
text;-;
bike;2;
`

func writeInput(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestRun_CSVToJSON(t *testing.T) {
	t.Parallel()

	inPath := writeInput(t, animalsDoc)
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	cfg, err := NewConfig(Config{InputPath: inPath, OutputFormat: "json", LogLevel: "error"})
	require.NoError(t, err)
	a := NewApp(out, logs, cfg, nil)
	require.NoError(t, a.Run(context.Background()))

	var tables []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &tables))
	require.Len(t, tables, 2)
	assert.Equal(t, "farm_animals", tables[0]["name"])
	assert.Equal(t, "transport", tables[1]["name"])
}

func TestRun_CSVToCSVFile(t *testing.T) {
	t.Parallel()

	inPath := writeInput(t, animalsDoc)
	outPath := filepath.Join(t.TempDir(), "out.csv")

	cfg, err := NewConfig(Config{InputPath: inPath, OutputPath: outPath, LogLevel: "error"})
	require.NoError(t, err)
	a := NewApp(&bytes.Buffer{}, &bytes.Buffer{}, cfg, nil)
	require.NoError(t, a.Run(context.Background()))

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(written), "**farm_animals")
	assert.Contains(t, string(written), "chicken;2;2")
}

func TestRun_PipelineWithFilter(t *testing.T) {
	t.Parallel()

	inPath := writeInput(t, animalsDoc)
	out := &bytes.Buffer{}

	a := &App{
		outW:   out,
		logger: newLogger("error", "text", &bytes.Buffer{}),
		pipeline: &config.Pipeline{
			Inputs: []*config.Input{{Path: inPath}},
			Output: &config.Output{Format: "json"},
			Filter: &config.Filter{Tables: []string{"transport"}},
		},
	}
	require.NoError(t, a.Run(context.Background()))

	var tables []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &tables))
	require.Len(t, tables, 1)
	assert.Equal(t, "transport", tables[0]["name"])
}

func TestRun_StrictByDefault(t *testing.T) {
	t.Parallel()

	defective := strings.Join([]string{
		"**dup;;",
		"all;;",
		"a;a;",
		"-;-;",
		"1;2;",
		"",
	}, "\n")
	inPath := writeInput(t, defective)

	cfg, err := NewConfig(Config{InputPath: inPath, OutputFormat: "json", LogLevel: "error"})
	require.NoError(t, err)
	a := NewApp(&bytes.Buffer{}, &bytes.Buffer{}, cfg, nil)
	require.Error(t, a.Run(context.Background()), "defective input must fail a strict run")
}

func TestRun_TolerantRepairs(t *testing.T) {
	t.Parallel()

	defective := strings.Join([]string{
		"**dup;;",
		"all;;",
		"a;a;",
		"-;-;",
		"1;2;",
		"",
	}, "\n")
	inPath := writeInput(t, defective)
	out := &bytes.Buffer{}

	cfg, err := NewConfig(Config{
		InputPath: inPath, OutputFormat: "json", Tolerant: true, LogLevel: "error",
	})
	require.NoError(t, err)
	a := NewApp(out, &bytes.Buffer{}, cfg, nil)
	require.NoError(t, a.Run(context.Background()))

	var tables []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &tables))
	require.Len(t, tables, 1)
	columns := tables[0]["columns"].(map[string]any)
	assert.Contains(t, columns, "a_fixed_000")
}

func TestFilterFunc(t *testing.T) {
	t.Parallel()

	f := filterFunc(&config.Filter{Tables: []string{"keep"}, Types: []string{"table", "metadata"}})
	assert.True(t, f(block.TypeTable, "keep"))
	assert.False(t, f(block.TypeTable, "drop"))
	assert.True(t, f(block.TypeMetadata, ""))
	assert.False(t, f(block.TypeDirective, ""))

	assert.Nil(t, filterFunc(nil))

	typesOnly := filterFunc(&config.Filter{Types: []string{"table"}})
	assert.True(t, typesOnly(block.TypeTable, "anything"))
	assert.False(t, typesOnly(block.TypeBlank, ""))
}
