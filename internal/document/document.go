// Package document decodes query definitions and document streams from JSON
// or YAML into generic value trees, normalizing numbers so the engine sees
// int64 for integers and float64 for everything else regardless of the input
// format.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format selects the decoder for a document source.
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var ErrEmptyInput = errors.New("document: no documents in input")

// ParseFormat validates a format name given on the command line.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatAuto, FormatJSON, FormatYAML:
		return Format(name), nil
	default:
		return "", fmt.Errorf("document: unknown format %q (expected auto, json or yaml)", name)
	}
}

// DetectFormat resolves FormatAuto using the file extension; .yaml and .yml
// select YAML, everything else (including stdin) defaults to JSON.
func DetectFormat(format Format, name string) Format {
	if format != FormatAuto {
		return format
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// DecodeAll reads every document from r: a concatenated JSON/NDJSON stream,
// or a multi-document YAML stream.
func DecodeAll(r io.Reader, format Format, name string) ([]any, error) {
	switch DetectFormat(format, name) {
	case FormatYAML:
		return decodeAllYAML(r)
	default:
		return decodeAllJSON(r)
	}
}

// DecodeQuery reads exactly one document, the query definition.
func DecodeQuery(r io.Reader, format Format, name string) (any, error) {
	documents, err := DecodeAll(r, format, name)
	if err != nil {
		return nil, err
	}
	if len(documents) == 0 {
		return nil, ErrEmptyInput
	}
	if len(documents) > 1 {
		return nil, fmt.Errorf("document: expected a single query document, got %d", len(documents))
	}
	return documents[0], nil
}

// ParseQueryString decodes an inline query given on the command line. YAML is
// a superset of JSON, so both syntaxes are accepted.
func ParseQueryString(input string) (any, error) {
	var value any
	if err := yaml.Unmarshal([]byte(input), &value); err != nil {
		return nil, fmt.Errorf("document: invalid query: %w", err)
	}
	return Normalize(value), nil
}

func decodeAllJSON(r io.Reader) ([]any, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var documents []any
	for {
		var value any
		err := decoder.Decode(&value)
		if errors.Is(err, io.EOF) {
			return documents, nil
		}
		if err != nil {
			return nil, fmt.Errorf("document: invalid JSON: %w", err)
		}
		documents = append(documents, Normalize(value))
	}
}

func decodeAllYAML(r io.Reader) ([]any, error) {
	decoder := yaml.NewDecoder(r)

	var documents []any
	for {
		var value any
		err := decoder.Decode(&value)
		if errors.Is(err, io.EOF) {
			return documents, nil
		}
		if err != nil {
			return nil, fmt.Errorf("document: invalid YAML: %w", err)
		}
		documents = append(documents, Normalize(value))
	}
}

// Normalize rewrites decoder-specific numeric types: integral values become
// int64 and all other numbers become float64, preserving the int/float
// distinction that $type relies on. Containers are normalized recursively.
func Normalize(value any) any {
	switch current := value.(type) {
	case map[string]any:
		normalized := make(map[string]any, len(current))
		for key, element := range current {
			normalized[key] = Normalize(element)
		}
		return normalized
	case map[any]any:
		normalized := make(map[string]any, len(current))
		for key, element := range current {
			normalized[fmt.Sprint(key)] = Normalize(element)
		}
		return normalized
	case []any:
		normalized := make([]any, len(current))
		for i, element := range current {
			normalized[i] = Normalize(element)
		}
		return normalized
	case json.Number:
		return normalizeJSONNumber(current)
	case int:
		return int64(current)
	case int32:
		return int64(current)
	case uint:
		return normalizeUint64(uint64(current))
	case uint64:
		return normalizeUint64(current)
	case float32:
		return float64(current)
	default:
		return value
	}
}

func normalizeJSONNumber(value json.Number) any {
	text := value.String()
	if !strings.ContainsAny(text, ".eE") {
		if parsed, err := value.Int64(); err == nil {
			return parsed
		}
	}
	if parsed, err := value.Float64(); err == nil {
		return parsed
	}
	return text
}

func normalizeUint64(value uint64) any {
	if value <= math.MaxInt64 {
		return int64(value)
	}
	return float64(value)
}
