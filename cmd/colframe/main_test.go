package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/colframe/pkg/errors"
	"github.com/ajitpratap0/colframe/pkg/testutil"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCommand(&stdout, &stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(testutil.TestContext(t))
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "colframe v"+version)
}

func TestDemoCommandTable(t *testing.T) {
	out, _, err := execute(t, "demo")
	require.NoError(t, err)
	assert.Equal(t, `DataFrame "people" (2 columns, 4 rows)
  "Name" string: ["Joe", "Sally", "Sam", "Bob"]
  "Age" int: [11, 100, 1, 101]
`, out)
}

func TestDemoCommandGridWithMetrics(t *testing.T) {
	out, stderr, err := execute(t, "demo", "--format", "grid", "--metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "Bob    | 101\n")
	assert.Contains(t, stderr, `colframe_rows{frame="people"} 4`)
}

func TestDemoCommandConfigFile(t *testing.T) {
	path := testutil.WriteFile(t, "colframe.yaml", []byte(`
name: staff
output:
  format: json
`))

	out, _, err := execute(t, "demo", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"name":"staff"`)

	// an explicit flag wins over the file
	out, _, err = execute(t, "demo", "--config", path, "--format", "grid")
	require.NoError(t, err)
	assert.Contains(t, out, "Name   | Age\n")
}

func TestDemoCommandRejectsBadFlags(t *testing.T) {
	_, _, err := execute(t, "demo", "--compression", "brotli")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	_, _, err = execute(t, "demo", "extra")
	assert.Error(t, err)
}
