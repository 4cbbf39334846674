package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const stdinSource = "-"

type document struct {
	source string
	// index is the position of the document within its source.
	index int
	value any
}

// readDocuments decodes every document from the given files,
// or from stdin if no files were provided.
func readDocuments(stdin io.Reader, files []string) ([]document, error) {
	if len(files) == 0 {
		return decodeYAML(stdin, stdinSource)
	}
	var docs []document
	for _, name := range files {
		fileDocs, err := readFile(name)
		if err != nil {
			return nil, err
		}
		docs = append(docs, fileDocs...)
	}
	return docs, nil
}

func readFile(name string) ([]document, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", name)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return decodeJSON(f, name)
	default:
		return decodeYAML(f, name)
	}
}

func decodeJSON(r io.Reader, source string) ([]document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var docs []document
	for {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode JSON document %d from %s", len(docs), source)
		}
		docs = append(docs, document{source: source, index: len(docs), value: normalizeNumbers(v)})
	}
}

func decodeYAML(r io.Reader, source string) ([]document, error) {
	dec := yaml.NewDecoder(r)
	var docs []document
	for {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode YAML document %d from %s", len(docs), source)
		}
		docs = append(docs, document{source: source, index: len(docs), value: v})
	}
}

// normalizeNumbers replaces [json.Number] with int64 when possible and float64 otherwise.
func normalizeNumbers(v any) any {
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]any:
		for key, value := range v {
			v[key] = normalizeNumbers(value)
		}
		return v
	case []any:
		for i, value := range v {
			v[i] = normalizeNumbers(value)
		}
		return v
	default:
		return v
	}
}
