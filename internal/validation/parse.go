package validation

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/carecompass/funnelkit/internal/definition"
)

// ParseOptions controls the structural pass. Authoring uses StrictParse;
// the runtime resolver uses LenientParse so rows stored before schema
// versioning keep loading.
type ParseOptions struct {
	// RequireSchemaVersion rejects an absent schemaVersion instead of
	// defaulting it to "v1".
	RequireSchemaVersion bool
}

var (
	StrictParse  = ParseOptions{RequireSchemaVersion: true}
	LenientParse = ParseOptions{RequireSchemaVersion: false}
)

// numberLike matches json.Number and jsoniter's number literal.
type numberLike interface {
	Float64() (float64, error)
	String() string
}

// parser performs per-field shape checks over untyped JSON values. It never
// looks across fields; cross-references belong to the integrity pass.
type parser struct {
	opts ParseOptions
	collector
}

func newParser(opts ParseOptions) *parser {
	return &parser{opts: opts}
}

// kindOf converts an untyped value to its JSON kind name.
func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32, uint64, numberLike:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func (p *parser) wrongType(path Path, expected string, v any) {
	p.fail(CodeInvalidFieldType, path,
		fmt.Sprintf("wrong type for field '%s'", path),
		map[string]any{"expected": expected, "actual": kindOf(v)})
}

// root asserts the document is an object.
func (p *parser) root(raw any) (map[string]any, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		p.fail(CodeInvalidRoot, Path{}, "expected a JSON object at document root",
			map[string]any{"actual": kindOf(raw)})
		return nil, false
	}
	return obj, true
}

// field returns a present, non-null value.
func field(obj map[string]any, key string) (any, bool) {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (p *parser) str(obj map[string]any, key string, path Path) string {
	v, ok := field(obj, key)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		p.wrongType(path.Key(key), "string", v)
		return ""
	}
	return s
}

func (p *parser) boolean(obj map[string]any, key string, path Path) bool {
	v, ok := field(obj, key)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		p.wrongType(path.Key(key), "boolean", v)
		return false
	}
	return b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case numberLike:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func (p *parser) number(obj map[string]any, key string, path Path) *float64 {
	v, ok := field(obj, key)
	if !ok {
		return nil
	}
	f, ok := toFloat(v)
	if !ok {
		p.wrongType(path.Key(key), "number", v)
		return nil
	}
	return &f
}

func (p *parser) integer(obj map[string]any, key string, path Path) *int {
	v, ok := field(obj, key)
	if !ok {
		return nil
	}
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		p.wrongType(path.Key(key), "integer", v)
		return nil
	}
	i := int(f)
	return &i
}

func (p *parser) array(obj map[string]any, key string, path Path) ([]any, bool) {
	v, ok := field(obj, key)
	if !ok {
		return nil, false
	}
	arr, ok := v.([]any)
	if !ok {
		p.wrongType(path.Key(key), "array", v)
		return nil, false
	}
	return arr, true
}

func (p *parser) object(obj map[string]any, key string, path Path) (map[string]any, bool) {
	v, ok := field(obj, key)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		p.wrongType(path.Key(key), "object", v)
		return nil, false
	}
	return m, true
}

// element asserts an array element is an object.
func (p *parser) element(v any, path Path) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		p.wrongType(path, "object", v)
		return nil, false
	}
	return m, true
}

// enum checks a present string against allowed values. Absent returns "";
// a present empty string is not a member of any registry.
func (p *parser) enum(obj map[string]any, key string, path Path, allowed []string) string {
	v, ok := field(obj, key)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		p.wrongType(path.Key(key), "string", v)
		return ""
	}
	if !slices.Contains(allowed, s) {
		p.fail(CodeInvalidEnumValue, path.Key(key),
			fmt.Sprintf("invalid value for field '%s'", path.Key(key)),
			map[string]any{"expected": "one of: " + strings.Join(allowed, ", "), "actual": s})
		return ""
	}
	return s
}

func (p *parser) requireKey(obj map[string]any, key string, path Path) bool {
	if _, ok := field(obj, key); ok {
		return true
	}
	p.fail(CodeMissingRequiredField, path.Key(key),
		fmt.Sprintf("missing required field: %s", key), nil)
	return false
}

// schemaVersion applies the strict/lenient rule. This is the only branch
// where the two modes differ.
func (p *parser) schemaVersion(obj map[string]any) string {
	v, ok := field(obj, "schemaVersion")
	if !ok {
		if p.opts.RequireSchemaVersion {
			p.fail(CodeMissingSchemaVersion, Path{"schemaVersion"},
				"missing required field: schemaVersion",
				map[string]any{"expected": definition.SchemaVersionV1})
			return ""
		}
		return definition.SchemaVersionV1
	}
	s, isStr := v.(string)
	if !isStr || s != definition.SchemaVersionV1 {
		p.fail(CodeInvalidSchemaVersion, Path{"schemaVersion"},
			"unsupported schemaVersion",
			map[string]any{"expected": definition.SchemaVersionV1, "actual": fmt.Sprint(v)})
		return fmt.Sprint(v)
	}
	return s
}

func (p *parser) displayVersion(obj map[string]any) string {
	if s := p.str(obj, "version", Path{}); s != "" {
		return s
	}
	return definition.DefaultDisplayVersion
}

// conditionalLogic parses a visibility rule. Returns nil when absent.
func (p *parser) conditionalLogic(obj map[string]any, key string, path Path) *definition.ConditionalLogic {
	m, ok := p.object(obj, key, path)
	if !ok {
		return nil
	}
	lp := path.Key(key)
	logic := &definition.ConditionalLogic{}

	if p.requireKey(m, "type", lp) {
		logic.Type = definition.LogicType(p.enum(m, "type", lp, definition.LogicTypes()))
	}
	logic.Logic = definition.LogicAnd
	if op := p.enum(m, "logic", lp, definition.LogicOperators()); op != "" {
		logic.Logic = definition.LogicOperator(op)
	}

	if !p.requireKey(m, "conditions", lp) {
		return logic
	}
	conds, ok := p.array(m, "conditions", lp)
	if !ok {
		return logic
	}
	logic.Conditions = make([]definition.Condition, 0, len(conds))
	for i, raw := range conds {
		cp := lp.Key("conditions").Index(i)
		cm, ok := p.element(raw, cp)
		if !ok {
			continue
		}
		cond := definition.Condition{
			QuestionID: p.str(cm, "questionId", cp),
			Value:      cm["value"],
		}
		if p.requireKey(cm, "operator", cp) {
			cond.Operator = definition.ConditionOperator(p.enum(cm, "operator", cp, definition.ConditionOperators()))
		}
		logic.Conditions = append(logic.Conditions, cond)
	}
	return logic
}
