package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{name: "table", input: "table", want: FormatTable},
		{name: "empty defaults to table", input: "", want: FormatTable},
		{name: "json", input: "json", want: FormatJSON},
		{name: "JSON uppercase", input: "JSON", want: FormatJSON},
		{name: "yaml", input: "yaml", want: FormatYAML},
		{name: "yml alias", input: "yml", want: FormatYAML},
		{name: "whitespace trimmed", input: "  table  ", want: FormatTable},
		{name: "invalid format", input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTableData(t *testing.T) {
	table := NewTableData("ID", "Name")

	assert.Equal(t, []string{"ID", "Name"}, table.Headers())
	assert.Empty(t, table.Rows())

	table.AddRow("cmsc23300", "Networks")
	table.AddRow("cmsc15400", "Systems")

	rows := table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"cmsc23300", "Networks"}, rows[0])
}

func TestPrintTable(t *testing.T) {
	table := NewTableData("ID", "Name")
	table.AddRow("cmsc23300", "Networks")

	var buf bytes.Buffer
	require.NoError(t, PrintTable(&buf, table))

	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "cmsc23300")
	assert.Contains(t, out, "Networks")
}

func TestKeyValueTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, KeyValueTable(&buf, [][2]string{
		{"Course", "cmsc23300"},
		{"Team", "jdoe-asmith"},
	}))

	out := buf.String()
	assert.Contains(t, out, "Course")
	assert.Contains(t, out, "jdoe-asmith")
}

func TestPrinterJSON(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, FormatJSON)

	require.NoError(t, printer.Print(map[string]string{"id": "cmsc23300"}))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "cmsc23300", decoded["id"])
}

func TestPrinterYAML(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, FormatYAML)

	require.NoError(t, printer.Print(map[string]string{"id": "cmsc23300"}))
	assert.Contains(t, buf.String(), "id: cmsc23300")
}

func TestPrinterTableFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, FormatTable)

	// map does not implement TableRenderer
	require.NoError(t, printer.Print(map[string]string{"id": "cmsc23300"}))
	assert.Contains(t, buf.String(), `"id"`)
}
