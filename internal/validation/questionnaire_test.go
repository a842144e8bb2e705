// Package validation_test tests questionnaire structural parsing and integrity checks.
// Related: internal/validation/questionnaire.go, internal/validation/parse.go
// Tags: validation, questionnaire, steps, questions, conditional-logic, schema-version
package validation

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carecompass/funnelkit/internal/definition"
)

func decode(t *testing.T, doc string) any {
	t.Helper()
	raw, err := DecodeJSON([]byte(doc))
	require.NoError(t, err)
	return raw
}

func codesOf(errs []*ValidationError) []Code {
	out := make([]Code, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidateQuestionnaireConfig_ValidFile(t *testing.T) {
	t.Parallel()

	raw, err := DecodeFile(filepath.Join("testdata", "questionnaire", "valid.json"))
	require.NoError(t, err)

	result := ValidateQuestionnaireConfig(raw)
	require.True(t, result.Valid, FormatValidationErrors(result.Errors))
	assert.Empty(t, result.Errors)
	require.NotNil(t, result.Summary)
	assert.Equal(t, ArtifactTypeQuestionnaire, result.Summary.Type)
	assert.Equal(t, 2, result.Summary.Counts["steps"])
	assert.Equal(t, 4, result.Summary.Counts["questions"])
}

func TestCompileQuestionnaire_TypedOutput(t *testing.T) {
	t.Parallel()

	raw, err := DecodeFile(filepath.Join("testdata", "questionnaire", "valid.json"))
	require.NoError(t, err)

	cfg, result := CompileQuestionnaire(raw, StrictParse)
	require.True(t, result.Valid)
	require.NotNil(t, cfg)

	assert.Equal(t, "v1", cfg.SchemaVersion)
	assert.Equal(t, "2.1", cfg.Version)
	require.Len(t, cfg.Steps, 2)

	age := cfg.Steps[0].Questions[0]
	assert.Equal(t, definition.QuestionNumber, age.Type)
	assert.True(t, age.Required)
	require.NotNil(t, age.MinValue)
	assert.InDelta(t, 18.0, *age.MinValue, 0)

	sleep := cfg.Steps[0].Questions[1]
	assert.Equal(t, []definition.Option{{Value: "good", Label: "Good"}, {Value: "poor", Label: "Poor"}}, sleep.Options)

	logic := cfg.Steps[1].ConditionalLogic
	require.NotNil(t, logic)
	assert.Equal(t, definition.LogicShow, logic.Type)
	assert.Equal(t, "q-sleep", logic.Conditions[0].QuestionID)
	assert.Equal(t, definition.OpEquals, logic.Conditions[0].Operator)

	require.NotNil(t, cfg.ConditionalLogic)
	assert.Equal(t, definition.LogicOr, cfg.ConditionalLogic.Logic)
}

func TestValidateQuestionnaireConfig_YAML(t *testing.T) {
	t.Parallel()

	raw, err := DecodeFile(filepath.Join("testdata", "questionnaire", "valid.yaml"))
	require.NoError(t, err)

	cfg, result := CompileQuestionnaire(raw, StrictParse)
	require.True(t, result.Valid, FormatValidationErrors(result.Errors))
	assert.Equal(t, "2", cfg.Steps[0].Questions[0].Options[1].Value)
	assert.Equal(t, definition.DefaultDisplayVersion, cfg.Version)
}

func TestSchemaVersion_StrictVersusLenient(t *testing.T) {
	t.Parallel()

	raw, err := DecodeFile(filepath.Join("testdata", "questionnaire", "legacy_no_schema_version.json"))
	require.NoError(t, err)

	strict := ValidateQuestionnaireConfig(raw)
	assert.False(t, strict.Valid)
	assert.Equal(t, []Code{CodeMissingSchemaVersion}, strict.Codes())

	cfg, lenient := CompileQuestionnaire(raw, LenientParse)
	require.True(t, lenient.Valid, FormatValidationErrors(lenient.Errors))
	assert.Equal(t, definition.SchemaVersionV1, cfg.SchemaVersion)
}

func TestSchemaVersion_InvalidInBothModes(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"wrong literal": `{"schemaVersion": "v2", "steps": [{"id": "s", "title": "t", "questions": [{"id": "q", "key": "k", "type": "text", "label": "l"}]}]}`,
		"not a string":  `{"schemaVersion": 1, "steps": [{"id": "s", "title": "t", "questions": [{"id": "q", "key": "k", "type": "text", "label": "l"}]}]}`,
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			for _, opts := range []ParseOptions{StrictParse, LenientParse} {
				_, result := CompileQuestionnaire(decode(t, doc), opts)
				assert.Equal(t, []Code{CodeInvalidSchemaVersion}, result.Codes())
			}
		})
	}
}

func TestParseQuestionnaireConfig_Structural(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		doc       string
		wantCodes []Code
		wantPath  string
	}{
		"root is an array": {
			doc:       `[]`,
			wantCodes: []Code{CodeInvalidRoot},
			wantPath:  "<root>",
		},
		"steps missing": {
			doc:       `{"schemaVersion": "v1"}`,
			wantCodes: []Code{CodeMissingSteps},
			wantPath:  "steps",
		},
		"steps wrong type": {
			doc:       `{"schemaVersion": "v1", "steps": "nope"}`,
			wantCodes: []Code{CodeInvalidFieldType},
			wantPath:  "steps",
		},
		"step is not an object": {
			doc:       `{"schemaVersion": "v1", "steps": [42]}`,
			wantCodes: []Code{CodeInvalidFieldType},
			wantPath:  "steps[0]",
		},
		"fantasy question type": {
			doc:       `{"schemaVersion": "v1", "steps": [{"id": "s", "title": "t", "questions": [{"id": "q", "key": "k", "type": "hologram", "label": "l"}]}]}`,
			wantCodes: []Code{CodeUnknownQuestionType},
			wantPath:  "steps[0].questions[0].type",
		},
		"required not a boolean": {
			doc:       `{"schemaVersion": "v1", "steps": [{"id": "s", "title": "t", "questions": [{"id": "q", "key": "k", "type": "text", "label": "l", "required": "yes"}]}]}`,
			wantCodes: []Code{CodeInvalidFieldType},
			wantPath:  "steps[0].questions[0].required",
		},
		"minValue not a number": {
			doc:       `{"schemaVersion": "v1", "steps": [{"id": "s", "title": "t", "questions": [{"id": "q", "key": "k", "type": "number", "label": "l", "minValue": "1"}]}]}`,
			wantCodes: []Code{CodeInvalidFieldType},
			wantPath:  "steps[0].questions[0].minValue",
		},
		"logic type outside enum": {
			doc:       `{"schemaVersion": "v1", "steps": [{"id": "s", "title": "t", "questions": [{"id": "q", "key": "k", "type": "text", "label": "l"}], "conditionalLogic": {"type": "toggle", "conditions": []}}]}`,
			wantCodes: []Code{CodeInvalidEnumValue},
			wantPath:  "steps[0].conditionalLogic.type",
		},
		"empty logic type": {
			doc:       `{"schemaVersion": "v1", "steps": [{"id": "s", "title": "t", "questions": [{"id": "q", "key": "k", "type": "text", "label": "l"}], "conditionalLogic": {"type": "", "conditions": []}}]}`,
			wantCodes: []Code{CodeInvalidEnumValue},
			wantPath:  "steps[0].conditionalLogic.type",
		},
		"empty logic operator": {
			doc:       `{"schemaVersion": "v1", "steps": [{"id": "s", "title": "t", "questions": [{"id": "q", "key": "k", "type": "text", "label": "l"}], "conditionalLogic": {"type": "show", "logic": "", "conditions": []}}]}`,
			wantCodes: []Code{CodeInvalidEnumValue},
			wantPath:  "steps[0].conditionalLogic.logic",
		},
		"empty condition operator": {
			doc:       `{"schemaVersion": "v1", "steps": [{"id": "s", "title": "t", "questions": [{"id": "q", "key": "k", "type": "text", "label": "l"}], "conditionalLogic": {"type": "show", "conditions": [{"questionId": "q", "operator": ""}]}}]}`,
			wantCodes: []Code{CodeInvalidEnumValue},
			wantPath:  "steps[0].conditionalLogic.conditions[0].operator",
		},
		"logic type not a string": {
			doc:       `{"schemaVersion": "v1", "steps": [{"id": "s", "title": "t", "questions": [{"id": "q", "key": "k", "type": "text", "label": "l"}], "conditionalLogic": {"type": 7, "conditions": []}}]}`,
			wantCodes: []Code{CodeInvalidFieldType},
			wantPath:  "steps[0].conditionalLogic.type",
		},
		"condition without operator": {
			doc:       `{"schemaVersion": "v1", "steps": [{"id": "s", "title": "t", "questions": [{"id": "q", "key": "k", "type": "text", "label": "l"}], "conditionalLogic": {"type": "show", "conditions": [{"questionId": "q"}]}}]}`,
			wantCodes: []Code{CodeMissingRequiredField},
			wantPath:  "steps[0].conditionalLogic.conditions[0].operator",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg, errs := ParseQuestionnaireConfig(decode(t, tc.doc), StrictParse)
			assert.Nil(t, cfg)
			assert.Equal(t, tc.wantCodes, codesOf(errs))
			require.NotEmpty(t, errs)
			assert.Equal(t, tc.wantPath, errs[0].Path.String())
		})
	}
}

func TestParseQuestionnaireConfig_CollectsAllStructuralErrors(t *testing.T) {
	t.Parallel()

	doc := `{
		"steps": [
			{"id": 7, "title": "t", "questions": [{"id": "q", "key": "k", "type": "fantasy", "label": "l"}]},
			{"id": "s2", "title": ["x"], "questions": "none"}
		]
	}`

	_, errs := ParseQuestionnaireConfig(decode(t, doc), StrictParse)
	assert.Equal(t, []Code{
		CodeMissingSchemaVersion,
		CodeInvalidFieldType,
		CodeUnknownQuestionType,
		CodeInvalidFieldType,
		CodeInvalidFieldType,
	}, codesOf(errs))
}

func TestParseQuestionnaireConfig_NullFieldsAreAbsent(t *testing.T) {
	t.Parallel()

	doc := `{"schemaVersion": "v1", "version": null, "conditionalLogic": null,
		"steps": [{"id": "s", "title": "t", "description": null, "questions": [{"id": "q", "key": "k", "type": "text", "label": "l", "options": null}]}]}`

	cfg, errs := ParseQuestionnaireConfig(decode(t, doc), StrictParse)
	require.Empty(t, errs)
	assert.Equal(t, definition.DefaultDisplayVersion, cfg.Version)
	assert.Nil(t, cfg.ConditionalLogic)
	assert.Nil(t, cfg.Steps[0].Questions[0].Options)
}

func TestParseQuestionnaireConfig_LogicDefaultsToAnd(t *testing.T) {
	t.Parallel()

	doc := `{"schemaVersion": "v1", "steps": [{"id": "s", "title": "t",
		"questions": [{"id": "q", "key": "k", "type": "text", "label": "l"}],
		"conditionalLogic": {"type": "hide", "conditions": [{"questionId": "q", "operator": "contains", "value": "x"}]}}]}`

	cfg, errs := ParseQuestionnaireConfig(decode(t, doc), StrictParse)
	require.Empty(t, errs)
	assert.Equal(t, definition.LogicAnd, cfg.Steps[0].ConditionalLogic.Logic)
}

// validConfig returns a typed config that passes the integrity pass.
func validConfig() *definition.QuestionnaireConfig {
	return &definition.QuestionnaireConfig{
		SchemaVersion: "v1",
		Version:       "1.0",
		Steps: []definition.Step{
			{
				ID:    "s1",
				Title: "One",
				Questions: []definition.Question{
					{ID: "q1", Key: "k1", Type: definition.QuestionText, Label: "Q1"},
					{ID: "q2", Key: "k2", Type: definition.QuestionRadio, Label: "Q2", Options: []definition.Option{{Value: "a", Label: "A"}}},
				},
			},
			{
				ID:    "s2",
				Title: "Two",
				Questions: []definition.Question{
					{ID: "q3", Key: "k3", Type: definition.QuestionNumber, Label: "Q3"},
				},
			},
			{
				ID:    "s3",
				Title: "Three",
				Questions: []definition.Question{
					{ID: "q4", Key: "k4", Type: definition.QuestionTextarea, Label: "Q4"},
				},
			},
		},
	}
}

func showIf(qid string) *definition.ConditionalLogic {
	return &definition.ConditionalLogic{
		Type:       definition.LogicShow,
		Logic:      definition.LogicAnd,
		Conditions: []definition.Condition{{QuestionID: qid, Operator: definition.OpEquals, Value: "a"}},
	}
}

func TestCheckQuestionnaireIntegrity_ValidConfig(t *testing.T) {
	t.Parallel()

	errs, warnings := CheckQuestionnaireIntegrity(validConfig())
	assert.Empty(t, errs)
	assert.Empty(t, warnings)
}

func TestCheckQuestionnaireIntegrity_EmptyStepsShortCircuits(t *testing.T) {
	t.Parallel()

	cfg := &definition.QuestionnaireConfig{SchemaVersion: "v9", Steps: []definition.Step{}}
	errs, _ := CheckQuestionnaireIntegrity(cfg)
	require.Len(t, errs, 1)
	assert.Equal(t, CodeEmptySteps, errs[0].Code)
	assert.Equal(t, "steps", errs[0].Path.String())
}

func TestCheckQuestionnaireIntegrity_Violations(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mutate    func(cfg *definition.QuestionnaireConfig)
		wantCodes []Code
		wantPath  string
	}{
		"missing step id": {
			mutate:    func(cfg *definition.QuestionnaireConfig) { cfg.Steps[1].ID = "  " },
			wantCodes: []Code{CodeMissingStepID},
			wantPath:  "steps[1].id",
		},
		"duplicate step id": {
			mutate:    func(cfg *definition.QuestionnaireConfig) { cfg.Steps[2].ID = "s1" },
			wantCodes: []Code{CodeDuplicateStepID},
			wantPath:  "steps[2].id",
		},
		"missing step title": {
			mutate:    func(cfg *definition.QuestionnaireConfig) { cfg.Steps[0].Title = "" },
			wantCodes: []Code{CodeMissingStepTitle},
			wantPath:  "steps[0].title",
		},
		"questions absent": {
			mutate:    func(cfg *definition.QuestionnaireConfig) { cfg.Steps[2].Questions = nil },
			wantCodes: []Code{CodeMissingQuestions},
			wantPath:  "steps[2].questions",
		},
		"questions empty": {
			mutate:    func(cfg *definition.QuestionnaireConfig) { cfg.Steps[2].Questions = []definition.Question{} },
			wantCodes: []Code{CodeEmptyQuestions},
			wantPath:  "steps[2].questions",
		},
		"missing question id": {
			mutate:    func(cfg *definition.QuestionnaireConfig) { cfg.Steps[0].Questions[0].ID = "" },
			wantCodes: []Code{CodeMissingQuestionID},
			wantPath:  "steps[0].questions[0].id",
		},
		"duplicate question id across steps": {
			mutate:    func(cfg *definition.QuestionnaireConfig) { cfg.Steps[2].Questions[0].ID = "q1" },
			wantCodes: []Code{CodeDuplicateQuestionID},
			wantPath:  "steps[2].questions[0].id",
		},
		"missing question key": {
			mutate:    func(cfg *definition.QuestionnaireConfig) { cfg.Steps[1].Questions[0].Key = "" },
			wantCodes: []Code{CodeMissingQuestionKey},
			wantPath:  "steps[1].questions[0].key",
		},
		"duplicate question key": {
			mutate:    func(cfg *definition.QuestionnaireConfig) { cfg.Steps[1].Questions[0].Key = "k2" },
			wantCodes: []Code{CodeDuplicateQuestionKey},
			wantPath:  "steps[1].questions[0].key",
		},
		"missing question type": {
			mutate:    func(cfg *definition.QuestionnaireConfig) { cfg.Steps[0].Questions[0].Type = "" },
			wantCodes: []Code{CodeMissingQuestionType},
			wantPath:  "steps[0].questions[0].type",
		},
		"type outside registry": {
			mutate:    func(cfg *definition.QuestionnaireConfig) { cfg.Steps[0].Questions[0].Type = "fantasy" },
			wantCodes: []Code{CodeUnknownQuestionType},
			wantPath:  "steps[0].questions[0].type",
		},
		"missing question label": {
			mutate:    func(cfg *definition.QuestionnaireConfig) { cfg.Steps[0].Questions[0].Label = "" },
			wantCodes: []Code{CodeMissingQuestionLabel},
			wantPath:  "steps[0].questions[0].label",
		},
		"choice without options": {
			mutate:    func(cfg *definition.QuestionnaireConfig) { cfg.Steps[0].Questions[1].Options = nil },
			wantCodes: []Code{CodeMissingOptionsForChoice},
			wantPath:  "steps[0].questions[1].options",
		},
		"choice with empty options": {
			mutate:    func(cfg *definition.QuestionnaireConfig) { cfg.Steps[0].Questions[1].Options = []definition.Option{} },
			wantCodes: []Code{CodeEmptyOptionsForChoice},
			wantPath:  "steps[0].questions[1].options",
		},
		"checkbox with empty options": {
			mutate: func(cfg *definition.QuestionnaireConfig) {
				cfg.Steps[0].Questions[1].Type = definition.QuestionCheckbox
				cfg.Steps[0].Questions[1].Options = []definition.Option{}
			},
			wantCodes: []Code{CodeEmptyOptionsForChoice},
			wantPath:  "steps[0].questions[1].options",
		},
		"option without value": {
			mutate: func(cfg *definition.QuestionnaireConfig) {
				cfg.Steps[0].Questions[1].Options = append(cfg.Steps[0].Questions[1].Options, definition.Option{Label: "B"})
			},
			wantCodes: []Code{CodeMissingOptionValue},
			wantPath:  "steps[0].questions[1].options[1].value",
		},
		"duplicate option value": {
			mutate: func(cfg *definition.QuestionnaireConfig) {
				cfg.Steps[0].Questions[1].Options = append(cfg.Steps[0].Questions[1].Options, definition.Option{Value: "a", Label: "A again"})
			},
			wantCodes: []Code{CodeDuplicateOptionValue},
			wantPath:  "steps[0].questions[1].options[1].value",
		},
		"inverted value range": {
			mutate: func(cfg *definition.QuestionnaireConfig) {
				lo, hi := 10.0, 1.0
				cfg.Steps[1].Questions[0].MinValue = &lo
				cfg.Steps[1].Questions[0].MaxValue = &hi
			},
			wantCodes: []Code{CodeInvalidValueRange},
			wantPath:  "steps[1].questions[0].minValue",
		},
		"schema version drift": {
			mutate:    func(cfg *definition.QuestionnaireConfig) { cfg.SchemaVersion = "v2" },
			wantCodes: []Code{CodeInvalidSchemaVersion},
			wantPath:  "schemaVersion",
		},
		"logic without conditions": {
			mutate: func(cfg *definition.QuestionnaireConfig) {
				cfg.Steps[1].ConditionalLogic = &definition.ConditionalLogic{Type: definition.LogicShow, Logic: definition.LogicAnd}
			},
			wantCodes: []Code{CodeEmptyConditions},
			wantPath:  "steps[1].conditionalLogic.conditions",
		},
		"condition without question id": {
			mutate:    func(cfg *definition.QuestionnaireConfig) { cfg.Steps[1].ConditionalLogic = showIf("") },
			wantCodes: []Code{CodeMissingConditionQuestionID},
			wantPath:  "steps[1].conditionalLogic.conditions[0].questionId",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tc.mutate(cfg)

			errs, _ := CheckQuestionnaireIntegrity(cfg)
			assert.Equal(t, tc.wantCodes, codesOf(errs), FormatValidationErrors(errs))
			require.NotEmpty(t, errs)
			assert.Equal(t, tc.wantPath, errs[0].Path.String())
		})
	}
}

func TestCheckQuestionnaireIntegrity_ConditionalReferences(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		step     int
		ref      string
		wantCode Code
	}{
		"earlier step":      {step: 1, ref: "q1"},
		"same step":         {step: 1, ref: "q3"},
		"later step":        {step: 1, ref: "q4", wantCode: CodeConditionalForwardRef},
		"first step later":  {step: 0, ref: "q3", wantCode: CodeConditionalForwardRef},
		"unknown question":  {step: 2, ref: "q-missing", wantCode: CodeInvalidConditionalRef},
		"last step earlier": {step: 2, ref: "q2"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			cfg.Steps[tc.step].ConditionalLogic = showIf(tc.ref)

			errs, _ := CheckQuestionnaireIntegrity(cfg)
			if tc.wantCode == "" {
				assert.Empty(t, errs, FormatValidationErrors(errs))
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, tc.wantCode, errs[0].Code)
			assert.Equal(t, tc.ref, errs[0].Details["questionId"])
		})
	}
}

func TestCheckQuestionnaireIntegrity_FunnelWideLogic(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.ConditionalLogic = &definition.ConditionalLogic{
		Type:  definition.LogicHide,
		Logic: definition.LogicOr,
		Conditions: []definition.Condition{
			{QuestionID: "q4", Operator: definition.OpEquals},
			{QuestionID: "nope", Operator: definition.OpEquals},
		},
	}

	errs, _ := CheckQuestionnaireIntegrity(cfg)
	require.Len(t, errs, 1)
	assert.Equal(t, CodeInvalidConditionalRef, errs[0].Code)
	assert.Equal(t, "conditionalLogic.conditions[1].questionId", errs[0].Path.String())
}

func TestCheckQuestionnaireIntegrity_Exhaustive(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Steps[0].Title = ""
	cfg.Steps[2].Questions[0].Key = "k1"
	cfg.Steps[1].ConditionalLogic = showIf("q4")

	errs, _ := CheckQuestionnaireIntegrity(cfg)
	assert.Equal(t, []Code{
		CodeMissingStepTitle,
		CodeConditionalForwardRef,
		CodeDuplicateQuestionKey,
	}, codesOf(errs), "errors must follow declaration order and include every violation")
}

func TestCheckQuestionnaireIntegrity_NonChoiceOptionsWarn(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Steps[0].Questions[0].Options = []definition.Option{{Value: "x"}}

	errs, warnings := CheckQuestionnaireIntegrity(cfg)
	assert.Empty(t, errs)
	require.Len(t, warnings, 1)
	assert.Equal(t, CodeWarnNonChoiceOptions, warnings[0].Code)
}

func TestValidateQuestionnaireConfig_ChoiceCompleteness(t *testing.T) {
	t.Parallel()

	base := `{"schemaVersion": "v1", "steps": [{"id": "s", "title": "t", "questions": [
		{"id": "q", "key": "k", "type": "radio", "label": "Pick", "options": %s}]}]}`

	empty := ValidateQuestionnaireConfig(decode(t, fmt.Sprintf(base, `[]`)))
	assert.Equal(t, []Code{CodeEmptyOptionsForChoice}, empty.Codes())

	one := ValidateQuestionnaireConfig(decode(t, fmt.Sprintf(base, `[{"value": "yes", "label": "Yes"}]`)))
	assert.True(t, one.Valid, FormatValidationErrors(one.Errors))
}

func TestValidateQuestionnaireConfig_StructuralStopsBeforeIntegrity(t *testing.T) {
	t.Parallel()

	// Duplicate keys would be an integrity error, but the unknown type is
	// structural and the integrity pass must not run.
	doc := `{"schemaVersion": "v1", "steps": [{"id": "s", "title": "t", "questions": [
		{"id": "q1", "key": "k", "type": "fantasy", "label": "a"},
		{"id": "q2", "key": "k", "type": "text", "label": "b"}]}]}`

	result := ValidateQuestionnaireConfig(decode(t, doc))
	assert.Equal(t, []Code{CodeUnknownQuestionType}, result.Codes())
}

func TestArtifactValidator_MalformedFile(t *testing.T) {
	t.Parallel()

	v, err := NewArtifactValidator(ArtifactTypeQuestionnaire, StrictParse)
	require.NoError(t, err)

	result := v.ValidateFile(filepath.Join("testdata", "questionnaire", "malformed.json"))
	assert.False(t, result.Valid)
	assert.Equal(t, []Code{CodeMalformedDocument}, result.Codes())

	result = v.ValidateFile(filepath.Join("testdata", "questionnaire", "does-not-exist.json"))
	assert.Equal(t, []Code{CodeMalformedDocument}, result.Codes())
}

func TestArtifactValidator_Modes(t *testing.T) {
	t.Parallel()

	legacy := filepath.Join("testdata", "questionnaire", "legacy_no_schema_version.json")

	strict, err := NewArtifactValidator(ArtifactTypeQuestionnaire, StrictParse)
	require.NoError(t, err)
	assert.Equal(t, []Code{CodeMissingSchemaVersion}, strict.ValidateFile(legacy).Codes())

	lenient, err := NewArtifactValidator(ArtifactTypeQuestionnaire, LenientParse)
	require.NoError(t, err)
	assert.True(t, lenient.ValidateFile(legacy).Valid)
}
