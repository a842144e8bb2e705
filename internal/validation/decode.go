package validation

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

// Numbers decode as their literal so integral checks on orderIndex see "1.5"
// rather than a rounded float. Map keys are sorted so encoded documents are
// byte-stable.
var jsonAPI = jsoniter.Config{UseNumber: true, SortMapKeys: true}.Froze()

// DecodeJSON decodes raw JSON into untyped values suitable for the structural
// parser.
func DecodeJSON(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("document is empty")
	}
	var v any
	if err := jsonAPI.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}
	return v, nil
}

// EncodeJSON encodes a decoded document back to compact JSON.
func EncodeJSON(v any) ([]byte, error) {
	data, err := jsonAPI.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}
	return data, nil
}

// DecodeYAML decodes a YAML document and normalizes it to the JSON value model.
func DecodeYAML(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("document is empty")
	}
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	return normalizeYAML(v), nil
}

// DecodeFile reads an authoring file. ".yaml" and ".yml" are decoded as YAML,
// everything else as JSON.
func DecodeFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return DecodeJSON(data)
	}
}

// normalizeYAML rewrites map[any]any (non-string YAML keys) into string-keyed
// maps so the document looks like decoded JSON.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeYAML(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return m
	case []any:
		for i, val := range t {
			t[i] = normalizeYAML(val)
		}
		return t
	default:
		return v
	}
}

// MalformedResult reports a document that could not be decoded.
func MalformedResult(err error) *ValidationResult {
	r := newResult()
	r.AddError(&ValidationError{
		Code:    CodeMalformedDocument,
		Message: err.Error(),
		Path:    Path{},
	})
	return r
}
