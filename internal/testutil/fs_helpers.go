// Package testutil provides fixtures shared by funnelkit tests: authoring
// files on disk and seeded SQLite stores.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/carecompass/funnelkit/internal/definition"
)

var fixtureJSON = jsoniter.Config{SortMapKeys: true}.Froze()

// QuestionnaireOption customizes a generated questionnaire.
type QuestionnaireOption func(*questionnaireOpts)

type questionnaireOpts struct {
	schemaVersion    string
	steps            int
	questionsPerStep int
	questionType     string
	filename         string
}

// WithSchemaVersion sets schemaVersion. An empty value omits the field.
func WithSchemaVersion(v string) QuestionnaireOption {
	return func(o *questionnaireOpts) { o.schemaVersion = v }
}

// WithSteps sets the number of steps. Zero writes an empty steps array.
func WithSteps(n int) QuestionnaireOption {
	return func(o *questionnaireOpts) { o.steps = n }
}

// WithQuestionsPerStep sets how many questions each step carries.
func WithQuestionsPerStep(n int) QuestionnaireOption {
	return func(o *questionnaireOpts) { o.questionsPerStep = n }
}

// WithQuestionType sets the type of every question. Choice types get two options.
func WithQuestionType(qt string) QuestionnaireOption {
	return func(o *questionnaireOpts) { o.questionType = qt }
}

// WithQuestionnaireFilename sets the file written by CreateTempQuestionnaire.
func WithQuestionnaireFilename(name string) QuestionnaireOption {
	return func(o *questionnaireOpts) { o.filename = name }
}

// Questionnaire returns an untyped questionnaire document, valid by default:
// schemaVersion v1, one step, one text question.
func Questionnaire(opts ...QuestionnaireOption) map[string]any {
	o := &questionnaireOpts{
		schemaVersion:    "v1",
		steps:            1,
		questionsPerStep: 1,
		questionType:     "text",
	}
	for _, opt := range opts {
		opt(o)
	}

	steps := make([]any, 0, o.steps)
	n := 0
	for s := 1; s <= o.steps; s++ {
		questions := make([]any, 0, o.questionsPerStep)
		for q := 1; q <= o.questionsPerStep; q++ {
			n++
			question := map[string]any{
				"id":    fmt.Sprintf("q%d", n),
				"key":   fmt.Sprintf("answer_%d", n),
				"type":  o.questionType,
				"label": fmt.Sprintf("Question %d", n),
			}
			qt := definition.QuestionType(o.questionType)
			switch {
			case qt.IsChoice():
				question["options"] = []any{
					map[string]any{"value": "yes", "label": "Yes"},
					map[string]any{"value": "no", "label": "No"},
				}
			case qt == definition.QuestionScale, qt == definition.QuestionSlider:
				question["minValue"] = 0
				question["maxValue"] = 10
			}
			questions = append(questions, question)
		}
		steps = append(steps, map[string]any{
			"id":        fmt.Sprintf("step-%d", s),
			"title":     fmt.Sprintf("Step %d", s),
			"questions": questions,
		})
	}

	doc := map[string]any{"steps": steps}
	if o.schemaVersion != "" {
		doc["schemaVersion"] = o.schemaVersion
	}
	return doc
}

// CreateTempQuestionnaire writes a questionnaire as JSON into dir and returns its path.
func CreateTempQuestionnaire(t *testing.T, dir string, opts ...QuestionnaireOption) string {
	t.Helper()

	o := &questionnaireOpts{filename: "questionnaire.json"}
	for _, opt := range opts {
		opt(o)
	}
	data, err := fixtureJSON.MarshalIndent(Questionnaire(opts...), "", "  ")
	if err != nil {
		t.Fatalf("failed to encode questionnaire: %v", err)
	}
	path := filepath.Join(dir, o.filename)
	WriteFile(t, path, string(data))
	return path
}

// ContentOption customizes a generated content manifest.
type ContentOption func(*contentOpts)

type contentOpts struct {
	schemaVersion string
	pages         int
	assets        int
	filename      string
}

// WithContentSchemaVersion sets schemaVersion. An empty value omits the field.
func WithContentSchemaVersion(v string) ContentOption {
	return func(o *contentOpts) { o.schemaVersion = v }
}

// WithPages sets the number of pages. Zero writes an empty pages array.
func WithPages(n int) ContentOption {
	return func(o *contentOpts) { o.pages = n }
}

// WithAssets adds n image assets.
func WithAssets(n int) ContentOption {
	return func(o *contentOpts) { o.assets = n }
}

// WithContentFilename sets the file written by CreateTempContent.
func WithContentFilename(name string) ContentOption {
	return func(o *contentOpts) { o.filename = name }
}

// Content returns an untyped content manifest, valid by default: schemaVersion
// v1 and one page with a hero section.
func Content(opts ...ContentOption) map[string]any {
	o := &contentOpts{schemaVersion: "v1", pages: 1}
	for _, opt := range opts {
		opt(o)
	}

	pages := make([]any, 0, o.pages)
	for p := 1; p <= o.pages; p++ {
		pages = append(pages, map[string]any{
			"slug":  fmt.Sprintf("page-%d", p),
			"title": fmt.Sprintf("Page %d", p),
			"sections": []any{
				map[string]any{
					"key":     "hero",
					"type":    "hero",
					"content": map[string]any{"headline": fmt.Sprintf("Welcome to page %d", p)},
				},
			},
		})
	}

	doc := map[string]any{"pages": pages}
	if o.schemaVersion != "" {
		doc["schemaVersion"] = o.schemaVersion
	}
	if o.assets > 0 {
		assets := make([]any, 0, o.assets)
		for a := 1; a <= o.assets; a++ {
			assets = append(assets, map[string]any{
				"key":  fmt.Sprintf("image-%d", a),
				"type": "image",
				"url":  fmt.Sprintf("https://cdn.example.com/%d.png", a),
			})
		}
		doc["assets"] = assets
	}
	return doc
}

// CreateTempContent writes a content manifest into dir and returns its path.
// The encoding follows the file extension; the default is content.yaml.
func CreateTempContent(t *testing.T, dir string, opts ...ContentOption) string {
	t.Helper()

	o := &contentOpts{filename: "content.yaml"}
	for _, opt := range opts {
		opt(o)
	}

	var (
		data []byte
		err  error
	)
	doc := Content(opts...)
	if strings.HasSuffix(o.filename, ".json") {
		data, err = fixtureJSON.MarshalIndent(doc, "", "  ")
	} else {
		data, err = yaml.Marshal(doc)
	}
	if err != nil {
		t.Fatalf("failed to encode content manifest: %v", err)
	}
	path := filepath.Join(dir, o.filename)
	WriteFile(t, path, string(data))
	return path
}

// MustJSON encodes v as JSON, failing the test on error.
func MustJSON(t *testing.T, v any) []byte {
	t.Helper()

	data, err := fixtureJSON.Marshal(v)
	if err != nil {
		t.Fatalf("failed to encode JSON: %v", err)
	}
	return data
}

// WriteFile writes content to a file, creating parent directories if needed.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadFile reads file content, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}

	return string(content)
}
