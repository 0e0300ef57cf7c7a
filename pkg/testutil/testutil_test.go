package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/colframe/pkg/frame"
)

func TestRequireInvariants(t *testing.T) {
	f := frame.New(frame.WithLogger(TestLogger(t)))
	RequireInvariants(t, f)

	require.NoError(t, f.AddColumn("Name", frame.Strings("Joe")))
	require.NoError(t, f.AddRow(frame.Str("Bob")))
	RequireInvariants(t, f)
	RequireRow(t, f, 1, frame.Str("Bob"))
}

func TestWriteFile(t *testing.T) {
	path := WriteFile(t, "config.yaml", []byte("name: x\n"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name: x\n", string(data))
}

func TestTestContext(t *testing.T) {
	ctx := TestContext(t)
	_, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.NoError(t, ctx.Err())
}
