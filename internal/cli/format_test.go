package cli

import (
	"bytes"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tbl := newTable(&buf)
	tbl.AppendHeader(table.Row{"id", "name"})
	tbl.AppendRow(table.Row{"p1", "demo"})
	tbl.Render()

	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "demo")
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"completed": 2}))
	assert.JSONEq(t, `{"completed": 2}`, buf.String())
}

func TestProgressCell(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2/5", progressCell(2, 5))
	assert.Equal(t, "0/0", progressCell(0, 0))
}
