// Package testutil provides testing utilities for colframe
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/colframe/pkg/frame"
)

// TestLogger creates a logger that writes to the test output
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a context that is cancelled when the test ends or
// after 30 seconds
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// WriteFile writes content to name inside a per-test temporary directory
// and returns the full path.
func WriteFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

// RequireInvariants fails the test unless every column of f has NumRows
// elements and the schema, names and columns agree.
func RequireInvariants(t *testing.T, f *frame.DataFrame) {
	t.Helper()
	require.NoError(t, f.Validate())

	names := f.ColumnNames()
	schema := f.Schema()
	require.Len(t, names, f.NumColumns())
	require.Len(t, schema, f.NumColumns())

	for i, field := range schema {
		require.Equal(t, names[i], field.Name, "column %d name", i)
		col, err := f.ColumnAt(i)
		require.NoError(t, err)
		require.Equal(t, f.NumRows(), col.Len(), "column %q length", field.Name)
		require.Equal(t, field.Kind, col.Kind(), "column %q kind", field.Name)
	}
	if f.NumColumns() == 0 {
		require.Equal(t, frame.StateEmpty, f.State())
	} else {
		require.Equal(t, frame.StatePopulated, f.State())
	}
}

// RequireRow fails the test unless row i of f equals want
func RequireRow(t *testing.T, f *frame.DataFrame, i int, want ...frame.Value) {
	t.Helper()
	row, err := f.Row(i)
	require.NoError(t, err)
	require.Equal(t, want, row)
}
