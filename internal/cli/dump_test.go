package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDump_Text(t *testing.T) {
	tests := map[string]struct {
		file     string
		content  string
		expected string
	}{
		"json": {
			file:    "doc.json",
			content: `{"name": "goref", "tags": ["a"], "count": 2, "ratio": 0.5}`,
			expected: "map[string]interface {} (4) [\n" +
				"  count => int64 2\n" +
				"  name => string (5) \"goref\"\n" +
				"  ratio => float64 0.5\n" +
				"  tags => []interface {} (1) [\n" +
				"    0 => string (1) \"a\"\n" +
				"  ]\n" +
				"]\n",
		},
		"multiple json documents": {
			file:     "docs.json",
			content:  "1\n\"<b>\"\n",
			expected: "int64 1\nstring (3) \"<b>\"\n",
		},
		"yaml": {
			file:    "doc.yaml",
			content: "enabled: true\nitems:\n  - 1\n  - null\n",
			expected: "map[string]interface {} (2) [\n" +
				"  enabled => bool true\n" +
				"  items => []interface {} (2) [\n" +
				"    0 => int 1\n" +
				"    1 => nil\n" +
				"  ]\n" +
				"]\n",
		},
		"multiple yaml documents": {
			file:     "docs.yml",
			content:  "a: 1\n---\nb: x\n",
			expected: "map[string]interface {} (1) [\n  a => int 1\n]\nmap[string]interface {} (1) [\n  b => string (1) \"x\"\n]\n",
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, test.file, test.content)
			out, err := runCommand(t, "", "dump", path)
			require.NoError(t, err)
			assert.Equal(t, test.expected, out)
		})
	}
}

func TestDump_Stdin(t *testing.T) {
	out, err := runCommand(t, `{"a": [1, 2]}`, "dump")
	require.NoError(t, err)
	assert.Equal(t, "map[string]interface {} (1) [\n"+
		"  a => []interface {} (2) [\n"+
		"    0 => int 1\n"+
		"    1 => int 2\n"+
		"  ]\n"+
		"]\n", out)
}

func TestDump_Formats(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		out, err := runCommand(t, "key: <b>\n", "dump", "--format", "json")
		require.NoError(t, err)
		var nodes []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &nodes))
		require.Len(t, nodes, 1)
		assert.Equal(t, "composite", nodes[0]["kind"])
		assert.Equal(t, true, nodes[0]["expanded"])
		assert.Contains(t, out, `"value": "<b>"`)
	})
	t.Run("html", func(t *testing.T) {
		for range 2 {
			out, err := runCommand(t, "key: <b>\n", "dump", "-f", "html")
			require.NoError(t, err)
			assert.Equal(t, 1, strings.Count(out, "<style scoped>"))
			assert.Contains(t, out, `<div class="ref">`)
			assert.Contains(t, out, "&lt;b&gt;")
			assert.NotContains(t, out, "<b>")
		}
	})
	t.Run("verbose", func(t *testing.T) {
		_, err := runCommand(t, "1", "dump", "-v")
		assert.NoError(t, err)
	})
}

func TestDump_Errors(t *testing.T) {
	t.Run("unknown format", func(t *testing.T) {
		_, err := runCommand(t, "1", "dump", "--format", "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "format")
	})
	t.Run("empty format", func(t *testing.T) {
		_, err := runCommand(t, "1", "dump", "--format", "")
		assert.Error(t, err)
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := runCommand(t, "", "dump", filepath.Join(t.TempDir(), "missing.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open")
	})
	t.Run("malformed json", func(t *testing.T) {
		path := writeFile(t, "bad.json", `{"a": }`)
		_, err := runCommand(t, "", "dump", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode JSON document 0")
	})
	t.Run("malformed yaml", func(t *testing.T) {
		_, err := runCommand(t, "a: [1\n", "dump")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode YAML document 0 from -")
	})
}

func TestNormalizeNumbers(t *testing.T) {
	in := map[string]any{
		"int":   json.Number("42"),
		"float": json.Number("1.25"),
		"huge":  json.Number("1e400"),
		"list":  []any{json.Number("-1"), "x"},
	}
	out := normalizeNumbers(in).(map[string]any)
	assert.Equal(t, int64(42), out["int"])
	assert.Equal(t, 1.25, out["float"])
	assert.Equal(t, "1e400", out["huge"])
	assert.Equal(t, []any{int64(-1), "x"}, out["list"])
}
