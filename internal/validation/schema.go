package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/carecompass/funnelkit/internal/definition"
)

// ArtifactType identifies one of a funnel version's two artifacts.
type ArtifactType string

const (
	// ArtifactTypeQuestionnaire is the questionnaire configuration.
	ArtifactTypeQuestionnaire ArtifactType = "questionnaire"
	// ArtifactTypeContent is the content manifest.
	ArtifactTypeContent ArtifactType = "content"
)

// FieldType represents the expected JSON kind of a schema field.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeInt     FieldType = "integer"
	FieldTypeBool    FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
	FieldTypeAny     FieldType = "any"
	FieldTypeLiteral FieldType = "literal"
)

// SchemaField documents a field of an artifact.
type SchemaField struct {
	Name        string        `json:"name"`                  // Field name in JSON
	Type        FieldType     `json:"type"`                  // Expected kind
	Required    bool          `json:"required"`              // Whether the field must be present for the artifact to be accepted
	Enum        []string      `json:"enum,omitempty"`        // Closed registry for the field, if any
	Description string        `json:"description,omitempty"` // Human-readable description
	Children    []SchemaField `json:"children,omitempty"`    // Nested fields for object/array types
}

// Schema is the documented shape of an artifact type.
type Schema struct {
	Type        ArtifactType  `json:"type"`
	Description string        `json:"description"`
	Fields      []SchemaField `json:"fields"`
}

func names[T ~string](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}

func conditionalLogicField(desc string) SchemaField {
	return SchemaField{
		Name:        "conditionalLogic",
		Type:        FieldTypeObject,
		Description: desc,
		Children: []SchemaField{
			{Name: "type", Type: FieldTypeString, Required: true, Enum: definition.LogicTypes(), Description: "Visibility effect"},
			{Name: "logic", Type: FieldTypeString, Enum: definition.LogicOperators(), Description: "How conditions combine (default and)"},
			{
				Name: "conditions", Type: FieldTypeArray, Required: true, Description: "Answer conditions",
				Children: []SchemaField{
					{Name: "questionId", Type: FieldTypeString, Required: true, Description: "Question in the same or an earlier step"},
					{Name: "operator", Type: FieldTypeString, Required: true, Enum: definition.ConditionOperators(), Description: "Comparison"},
					{Name: "value", Type: FieldTypeAny, Description: "Value compared against the answer"},
				},
			},
		},
	}
}

// QuestionnaireSchema documents the questionnaire configuration.
var QuestionnaireSchema = Schema{
	Type:        ArtifactTypeQuestionnaire,
	Description: "Ordered steps of questions with optional visibility rules",
	Fields: []SchemaField{
		{Name: "schemaVersion", Type: FieldTypeLiteral, Required: true, Enum: []string{definition.SchemaVersionV1}, Description: "Artifact schema version"},
		{Name: "version", Type: FieldTypeString, Description: "Display version (default 1.0)"},
		{
			Name: "steps", Type: FieldTypeArray, Required: true, Description: "Ordered steps",
			Children: []SchemaField{
				{Name: "id", Type: FieldTypeString, Required: true, Description: "Unique step id"},
				{Name: "title", Type: FieldTypeString, Required: true, Description: "Step title"},
				{Name: "description", Type: FieldTypeString, Description: "Step description"},
				{
					Name: "questions", Type: FieldTypeArray, Required: true, Description: "Ordered questions (at least one)",
					Children: []SchemaField{
						{Name: "id", Type: FieldTypeString, Required: true, Description: "Globally unique question id"},
						{Name: "key", Type: FieldTypeString, Required: true, Description: "Globally unique answer-binding key"},
						{Name: "type", Type: FieldTypeString, Required: true, Enum: names(definition.QuestionTypes()), Description: "Question type"},
						{Name: "label", Type: FieldTypeString, Required: true, Description: "Question label"},
						{Name: "helpText", Type: FieldTypeString, Description: "Help text"},
						{Name: "placeholder", Type: FieldTypeString, Description: "Input placeholder"},
						{Name: "required", Type: FieldTypeBool, Description: "Whether an answer is required"},
						{
							Name: "options", Type: FieldTypeArray, Description: "Choices (required, non-empty for radio/checkbox)",
							Children: []SchemaField{
								{Name: "value", Type: FieldTypeString, Required: true, Description: "Stored value"},
								{Name: "label", Type: FieldTypeString, Description: "Display label"},
							},
						},
						{Name: "minValue", Type: FieldTypeNumber, Description: "Lower bound"},
						{Name: "maxValue", Type: FieldTypeNumber, Description: "Upper bound"},
					},
				},
				conditionalLogicField("Step visibility rule"),
			},
		},
		conditionalLogicField("Funnel-wide visibility rule"),
	},
}

// ContentSchema documents the content manifest.
var ContentSchema = Schema{
	Type:        ArtifactTypeContent,
	Description: "Editorial pages and shared assets",
	Fields: []SchemaField{
		{Name: "schemaVersion", Type: FieldTypeLiteral, Required: true, Enum: []string{definition.SchemaVersionV1}, Description: "Artifact schema version"},
		{Name: "version", Type: FieldTypeString, Description: "Display version (default 1.0)"},
		{
			Name: "pages", Type: FieldTypeArray, Required: true, Description: "Ordered pages",
			Children: []SchemaField{
				{Name: "slug", Type: FieldTypeString, Required: true, Description: "Unique page slug"},
				{Name: "title", Type: FieldTypeString, Required: true, Description: "Page title"},
				{Name: "description", Type: FieldTypeString, Description: "Page description"},
				{
					Name: "sections", Type: FieldTypeArray, Required: true, Description: "Sections (at least one)",
					Children: []SchemaField{
						{Name: "key", Type: FieldTypeString, Required: true, Description: "Section key, unique within the page"},
						{Name: "type", Type: FieldTypeString, Required: true, Enum: names(definition.SectionTypes()), Description: "Section type"},
						{Name: "content", Type: FieldTypeObject, Description: "Type-specific content"},
						{Name: "orderIndex", Type: FieldTypeInt, Description: "Render position"},
					},
				},
			},
		},
		{
			Name: "assets", Type: FieldTypeArray, Description: "Shared media",
			Children: []SchemaField{
				{Name: "key", Type: FieldTypeString, Required: true, Description: "Unique asset key"},
				{Name: "type", Type: FieldTypeString, Required: true, Enum: names(definition.AssetTypes()), Description: "Asset type"},
				{Name: "url", Type: FieldTypeString, Required: true, Description: "Asset location"},
				{Name: "metadata", Type: FieldTypeObject, Description: "Free-form metadata"},
			},
		},
	},
}

// GetSchema returns the schema for the given artifact type.
func GetSchema(artifactType ArtifactType) (*Schema, error) {
	switch artifactType {
	case ArtifactTypeQuestionnaire:
		return &QuestionnaireSchema, nil
	case ArtifactTypeContent:
		return &ContentSchema, nil
	default:
		return nil, fmt.Errorf("unknown artifact type: %s", artifactType)
	}
}

// ParseArtifactType parses a string into an ArtifactType.
func ParseArtifactType(s string) (ArtifactType, error) {
	switch s {
	case "questionnaire", "questionnaire-config":
		return ArtifactTypeQuestionnaire, nil
	case "content", "content-manifest":
		return ArtifactTypeContent, nil
	default:
		return "", fmt.Errorf("invalid artifact type: %s (valid types: %s)", s, strings.Join(ValidArtifactTypes(), ", "))
	}
}

// ValidArtifactTypes returns a list of valid artifact type strings.
func ValidArtifactTypes() []string {
	return []string{string(ArtifactTypeQuestionnaire), string(ArtifactTypeContent)}
}

// InferArtifactTypeFromFilename infers the artifact type from names such as
// questionnaire.json or stress.content.yaml.
func InferArtifactTypeFromFilename(filename string) (ArtifactType, error) {
	base := strings.ToLower(filepath.Base(filename))
	base = strings.TrimSuffix(base, filepath.Ext(base))

	switch {
	case base == "questionnaire" || strings.HasSuffix(base, ".questionnaire"):
		return ArtifactTypeQuestionnaire, nil
	case base == "content" || strings.HasSuffix(base, ".content"):
		return ArtifactTypeContent, nil
	default:
		return "", fmt.Errorf("unrecognized artifact filename: %s", filepath.Base(filename))
	}
}

// FormatSchema renders a schema as an indented field listing.
func FormatSchema(s *Schema) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s\n", s.Type, s.Description))
	writeFields(&sb, s.Fields, 1)
	return sb.String()
}

func writeFields(sb *strings.Builder, fields []SchemaField, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, f := range fields {
		req := ""
		if f.Required {
			req = " (required)"
		}
		sb.WriteString(fmt.Sprintf("%s%s: %s%s - %s", indent, f.Name, f.Type, req, f.Description))
		if len(f.Enum) > 0 {
			sb.WriteString(fmt.Sprintf(" [%s]", strings.Join(f.Enum, ", ")))
		}
		sb.WriteString("\n")
		writeFields(sb, f.Children, depth+1)
	}
}
