// Package definition holds the typed form of a funnel's two artifacts, the
// questionnaire configuration and the content manifest, together with the
// closed registries their "type" strings must belong to.
package definition

import "slices"

// SchemaVersionV1 is the only schema version currently accepted.
const SchemaVersionV1 = "v1"

// DefaultDisplayVersion is used when an artifact omits "version".
const DefaultDisplayVersion = "1.0"

// QuestionType is a member of the question-type registry.
type QuestionType string

const (
	QuestionText     QuestionType = "text"
	QuestionTextarea QuestionType = "textarea"
	QuestionNumber   QuestionType = "number"
	QuestionScale    QuestionType = "scale"
	QuestionSlider   QuestionType = "slider"
	QuestionRadio    QuestionType = "radio"
	QuestionCheckbox QuestionType = "checkbox"
	QuestionDate     QuestionType = "date"
)

var questionTypes = []QuestionType{
	QuestionText,
	QuestionTextarea,
	QuestionNumber,
	QuestionScale,
	QuestionSlider,
	QuestionRadio,
	QuestionCheckbox,
	QuestionDate,
}

// QuestionTypes returns the registry in declaration order.
func QuestionTypes() []QuestionType {
	return slices.Clone(questionTypes)
}

// ParseQuestionType returns the registry member for s.
func ParseQuestionType(s string) (QuestionType, bool) {
	t := QuestionType(s)
	return t, slices.Contains(questionTypes, t)
}

// IsChoice reports whether answers are picked from a fixed option list.
func (t QuestionType) IsChoice() bool {
	return t == QuestionRadio || t == QuestionCheckbox
}

// SectionType is a member of the content-section registry.
type SectionType string

const (
	SectionHero     SectionType = "hero"
	SectionText     SectionType = "text"
	SectionMarkdown SectionType = "markdown"
	SectionImage    SectionType = "image"
	SectionVideo    SectionType = "video"
	SectionCTA      SectionType = "cta"
	SectionDivider  SectionType = "divider"
	SectionFAQ      SectionType = "faq"
)

var sectionTypes = []SectionType{
	SectionHero,
	SectionText,
	SectionMarkdown,
	SectionImage,
	SectionVideo,
	SectionCTA,
	SectionDivider,
	SectionFAQ,
}

// SectionTypes returns the registry in declaration order.
func SectionTypes() []SectionType {
	return slices.Clone(sectionTypes)
}

// ParseSectionType returns the registry member for s.
func ParseSectionType(s string) (SectionType, bool) {
	t := SectionType(s)
	return t, slices.Contains(sectionTypes, t)
}

// AssetType is a member of the asset registry.
type AssetType string

const (
	AssetImage    AssetType = "image"
	AssetVideo    AssetType = "video"
	AssetAudio    AssetType = "audio"
	AssetDocument AssetType = "document"
)

var assetTypes = []AssetType{AssetImage, AssetVideo, AssetAudio, AssetDocument}

// AssetTypes returns the registry in declaration order.
func AssetTypes() []AssetType {
	return slices.Clone(assetTypes)
}

// ParseAssetType returns the registry member for s.
func ParseAssetType(s string) (AssetType, bool) {
	t := AssetType(s)
	return t, slices.Contains(assetTypes, t)
}

// LogicType selects whether matching conditions show or hide a node.
type LogicType string

const (
	LogicShow LogicType = "show"
	LogicHide LogicType = "hide"
)

// LogicTypes returns the allowed values for ConditionalLogic.Type.
func LogicTypes() []string {
	return []string{string(LogicShow), string(LogicHide)}
}

// LogicOperator combines the conditions of one logic block.
type LogicOperator string

const (
	LogicAnd LogicOperator = "and"
	LogicOr  LogicOperator = "or"
)

// LogicOperators returns the allowed values for ConditionalLogic.Logic.
func LogicOperators() []string {
	return []string{string(LogicAnd), string(LogicOr)}
}

// ConditionOperator compares an answer against Condition.Value.
type ConditionOperator string

const (
	OpEquals      ConditionOperator = "equals"
	OpNotEquals   ConditionOperator = "not_equals"
	OpGreaterThan ConditionOperator = "greater_than"
	OpLessThan    ConditionOperator = "less_than"
	OpContains    ConditionOperator = "contains"
	OpIn          ConditionOperator = "in"
)

// ConditionOperators returns the allowed values for Condition.Operator.
func ConditionOperators() []string {
	return []string{
		string(OpEquals),
		string(OpNotEquals),
		string(OpGreaterThan),
		string(OpLessThan),
		string(OpContains),
		string(OpIn),
	}
}
