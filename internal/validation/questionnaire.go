package validation

import (
	"fmt"
	"strings"

	"github.com/carecompass/funnelkit/internal/definition"
)

// ParseQuestionnaireConfig runs the structural pass over an untyped document.
// It returns the typed config, or nil and every structural error found.
func ParseQuestionnaireConfig(raw any, opts ParseOptions) (*definition.QuestionnaireConfig, []*ValidationError) {
	p := newParser(opts)
	root, ok := p.root(raw)
	if !ok {
		return nil, p.errs
	}

	cfg := &definition.QuestionnaireConfig{
		SchemaVersion: p.schemaVersion(root),
		Version:       p.displayVersion(root),
	}

	if _, present := field(root, "steps"); !present {
		p.fail(CodeMissingSteps, Path{"steps"}, "missing required field: steps", nil)
	} else if steps, ok := p.array(root, "steps", Path{}); ok {
		cfg.Steps = make([]definition.Step, 0, len(steps))
		for i, rawStep := range steps {
			path := Path{"steps"}.Index(i)
			m, ok := p.element(rawStep, path)
			if !ok {
				continue
			}
			cfg.Steps = append(cfg.Steps, p.step(m, path))
		}
	}

	cfg.ConditionalLogic = p.conditionalLogic(root, "conditionalLogic", Path{})

	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return cfg, nil
}

func (p *parser) step(m map[string]any, path Path) definition.Step {
	step := definition.Step{
		ID:          p.str(m, "id", path),
		Title:       p.str(m, "title", path),
		Description: p.str(m, "description", path),
	}
	if questions, ok := p.array(m, "questions", path); ok {
		step.Questions = make([]definition.Question, 0, len(questions))
		for i, rawQ := range questions {
			qp := path.Key("questions").Index(i)
			qm, ok := p.element(rawQ, qp)
			if !ok {
				continue
			}
			step.Questions = append(step.Questions, p.question(qm, qp))
		}
	}
	step.ConditionalLogic = p.conditionalLogic(m, "conditionalLogic", path)
	return step
}

func (p *parser) question(m map[string]any, path Path) definition.Question {
	q := definition.Question{
		ID:          p.str(m, "id", path),
		Key:         p.str(m, "key", path),
		Label:       p.str(m, "label", path),
		HelpText:    p.str(m, "helpText", path),
		Placeholder: p.str(m, "placeholder", path),
		Required:    p.boolean(m, "required", path),
		MinValue:    p.number(m, "minValue", path),
		MaxValue:    p.number(m, "maxValue", path),
	}

	if s := p.str(m, "type", path); s != "" {
		qt, ok := definition.ParseQuestionType(s)
		if !ok {
			p.fail(CodeUnknownQuestionType, path.Key("type"),
				fmt.Sprintf("unknown question type %q", s),
				map[string]any{"actual": s, "expected": questionTypeList()})
		}
		q.Type = qt
	}

	if options, ok := p.array(m, "options", path); ok {
		q.Options = make([]definition.Option, 0, len(options))
		for i, rawOpt := range options {
			op := path.Key("options").Index(i)
			om, ok := p.element(rawOpt, op)
			if !ok {
				continue
			}
			q.Options = append(q.Options, definition.Option{
				Value: p.optionValue(om, op),
				Label: p.str(om, "label", op),
			})
		}
	}
	return q
}

// optionValue accepts a string or a number literal.
func (p *parser) optionValue(m map[string]any, path Path) string {
	v, ok := field(m, "value")
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case numberLike:
		return t.String()
	}
	if f, ok := toFloat(v); ok {
		return fmt.Sprint(f)
	}
	p.wrongType(path.Key("value"), "string or number", v)
	return ""
}

func questionTypeList() string {
	types := definition.QuestionTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return "one of: " + strings.Join(names, ", ")
}

// CheckQuestionnaireIntegrity runs the referential pass over a structurally
// valid config. It reports every violation in declaration order; warnings are
// returned separately and never make the config invalid.
func CheckQuestionnaireIntegrity(cfg *definition.QuestionnaireConfig) (errs, warnings []*ValidationError) {
	var c collector

	if len(cfg.Steps) == 0 {
		c.fail(CodeEmptySteps, Path{"steps"}, "questionnaire must contain at least one step", nil)
		return c.errs, c.warnings
	}
	if cfg.SchemaVersion != definition.SchemaVersionV1 {
		c.fail(CodeInvalidSchemaVersion, Path{"schemaVersion"}, "unsupported schemaVersion",
			map[string]any{"expected": definition.SchemaVersionV1, "actual": cfg.SchemaVersion})
	}

	// First step index of every question id, so a reference into a later
	// step can be told apart from one to nothing at all.
	stepOf := make(map[string]int)
	for si, s := range cfg.Steps {
		for _, q := range s.Questions {
			if id := strings.TrimSpace(q.ID); id != "" {
				if _, seen := stepOf[id]; !seen {
					stepOf[id] = si
				}
			}
		}
	}

	seenSteps := make(map[string]int)
	seenIDs := make(map[string]Path)
	seenKeys := make(map[string]Path)

	for si, step := range cfg.Steps {
		path := Path{"steps"}.Index(si)

		if id := strings.TrimSpace(step.ID); id == "" {
			c.fail(CodeMissingStepID, path.Key("id"), "step is missing an id", nil)
		} else if first, dup := seenSteps[id]; dup {
			c.fail(CodeDuplicateStepID, path.Key("id"),
				fmt.Sprintf("duplicate step id %q", id),
				map[string]any{"stepId": id, "firstIndex": first})
		} else {
			seenSteps[id] = si
		}

		if strings.TrimSpace(step.Title) == "" {
			c.fail(CodeMissingStepTitle, path.Key("title"), "step is missing a title", nil)
		}

		switch {
		case step.Questions == nil:
			c.fail(CodeMissingQuestions, path.Key("questions"), "step has no questions field", nil)
		case len(step.Questions) == 0:
			c.fail(CodeEmptyQuestions, path.Key("questions"), "step must contain at least one question", nil)
		}

		for qi, q := range step.Questions {
			checkQuestion(&c, q, path.Key("questions").Index(qi), seenIDs, seenKeys)
		}

		if step.ConditionalLogic != nil {
			checkLogic(&c, step.ConditionalLogic, path.Key("conditionalLogic"), func(qid string) (Code, string) {
				at, ok := stepOf[qid]
				switch {
				case !ok:
					return CodeInvalidConditionalRef, fmt.Sprintf("condition references unknown question %q", qid)
				case at > si:
					return CodeConditionalForwardRef, fmt.Sprintf("condition references question %q from a later step", qid)
				default:
					return "", ""
				}
			})
		}
	}

	if cfg.ConditionalLogic != nil {
		checkLogic(&c, cfg.ConditionalLogic, Path{"conditionalLogic"}, func(qid string) (Code, string) {
			if _, ok := stepOf[qid]; !ok {
				return CodeInvalidConditionalRef, fmt.Sprintf("condition references unknown question %q", qid)
			}
			return "", ""
		})
	}

	return c.errs, c.warnings
}

func checkQuestion(c *collector, q definition.Question, path Path, seenIDs, seenKeys map[string]Path) {
	if id := strings.TrimSpace(q.ID); id == "" {
		c.fail(CodeMissingQuestionID, path.Key("id"), "question is missing an id", nil)
	} else if first, dup := seenIDs[id]; dup {
		c.fail(CodeDuplicateQuestionID, path.Key("id"),
			fmt.Sprintf("duplicate question id %q", id),
			map[string]any{"questionId": id, "firstPath": first.String()})
	} else {
		seenIDs[id] = path
	}

	if key := strings.TrimSpace(q.Key); key == "" {
		c.fail(CodeMissingQuestionKey, path.Key("key"), "question is missing a key", nil)
	} else if first, dup := seenKeys[key]; dup {
		c.fail(CodeDuplicateQuestionKey, path.Key("key"),
			fmt.Sprintf("duplicate question key %q", key),
			map[string]any{"questionKey": key, "firstPath": first.String()})
	} else {
		seenKeys[key] = path
	}

	if q.Type == "" {
		c.fail(CodeMissingQuestionType, path.Key("type"), "question is missing a type", nil)
	} else if _, ok := definition.ParseQuestionType(string(q.Type)); !ok {
		c.fail(CodeUnknownQuestionType, path.Key("type"),
			fmt.Sprintf("unknown question type %q", q.Type),
			map[string]any{"actual": string(q.Type), "expected": questionTypeList()})
	}

	if strings.TrimSpace(q.Label) == "" {
		c.fail(CodeMissingQuestionLabel, path.Key("label"), "question is missing a label", nil)
	}

	if q.Type.IsChoice() {
		switch {
		case q.Options == nil:
			c.fail(CodeMissingOptionsForChoice, path.Key("options"),
				fmt.Sprintf("%s question requires options", q.Type), nil)
		case len(q.Options) == 0:
			c.fail(CodeEmptyOptionsForChoice, path.Key("options"),
				fmt.Sprintf("%s question requires at least one option", q.Type), nil)
		}
	} else if len(q.Options) > 0 {
		c.warn(CodeWarnNonChoiceOptions, path.Key("options"),
			fmt.Sprintf("options are ignored for %s questions", q.Type), nil)
	}

	seenValues := make(map[string]struct{}, len(q.Options))
	for oi, opt := range q.Options {
		op := path.Key("options").Index(oi)
		v := strings.TrimSpace(opt.Value)
		if v == "" {
			c.fail(CodeMissingOptionValue, op.Key("value"), "option is missing a value", nil)
			continue
		}
		if _, dup := seenValues[v]; dup {
			c.fail(CodeDuplicateOptionValue, op.Key("value"),
				fmt.Sprintf("duplicate option value %q", v), map[string]any{"value": v})
			continue
		}
		seenValues[v] = struct{}{}
	}

	if q.MinValue != nil && q.MaxValue != nil && *q.MinValue > *q.MaxValue {
		c.fail(CodeInvalidValueRange, path.Key("minValue"), "minValue is greater than maxValue",
			map[string]any{"minValue": *q.MinValue, "maxValue": *q.MaxValue})
	}
}

// checkLogic validates a logic block; resolve classifies each referenced id
// and returns an empty code when the reference is allowed.
func checkLogic(c *collector, logic *definition.ConditionalLogic, path Path, resolve func(qid string) (Code, string)) {
	if len(logic.Conditions) == 0 {
		c.fail(CodeEmptyConditions, path.Key("conditions"), "conditional logic has no conditions", nil)
		return
	}
	for i, cond := range logic.Conditions {
		cp := path.Key("conditions").Index(i).Key("questionId")
		qid := strings.TrimSpace(cond.QuestionID)
		if qid == "" {
			c.fail(CodeMissingConditionQuestionID, cp, "condition is missing a questionId", nil)
			continue
		}
		if code, msg := resolve(qid); code != "" {
			c.fail(code, cp, msg, map[string]any{"questionId": qid})
		}
	}
}
