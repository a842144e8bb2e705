package validation

// Code identifies a class of validation failure. Codes are an external
// contract: they are only ever added, never renamed or repurposed.
type Code string

// Document and structural codes.
const (
	CodeMalformedDocument     Code = "DEF_MALFORMED_DOCUMENT"
	CodeInvalidRoot           Code = "DEF_INVALID_ROOT"
	CodeMissingSchemaVersion  Code = "DEF_MISSING_SCHEMA_VERSION"
	CodeInvalidSchemaVersion  Code = "DEF_INVALID_SCHEMA_VERSION"
	CodeInvalidFieldType      Code = "DEF_INVALID_FIELD_TYPE"
	CodeMissingRequiredField  Code = "DEF_MISSING_REQUIRED_FIELD"
	CodeInvalidEnumValue      Code = "DEF_INVALID_ENUM_VALUE"
	CodeUnknownQuestionType   Code = "DEF_UNKNOWN_QUESTION_TYPE"
	CodeUnknownSectionType    Code = "DEF_UNKNOWN_SECTION_TYPE"
	CodeUnknownAssetType      Code = "DEF_UNKNOWN_ASSET_TYPE"
	CodeMissingSteps          Code = "DEF_MISSING_STEPS"
	CodeMissingPages          Code = "DEF_MISSING_PAGES"
)

// Questionnaire integrity codes.
const (
	CodeEmptySteps                 Code = "DEF_EMPTY_STEPS"
	CodeMissingStepID              Code = "DEF_MISSING_STEP_ID"
	CodeDuplicateStepID            Code = "DEF_DUPLICATE_STEP_ID"
	CodeMissingStepTitle           Code = "DEF_MISSING_STEP_TITLE"
	CodeMissingQuestions           Code = "DEF_MISSING_QUESTIONS"
	CodeEmptyQuestions             Code = "DEF_EMPTY_QUESTIONS"
	CodeMissingQuestionID          Code = "DEF_MISSING_QUESTION_ID"
	CodeMissingQuestionKey         Code = "DEF_MISSING_QUESTION_KEY"
	CodeMissingQuestionType        Code = "DEF_MISSING_QUESTION_TYPE"
	CodeMissingQuestionLabel       Code = "DEF_MISSING_QUESTION_LABEL"
	CodeDuplicateQuestionID        Code = "DEF_DUPLICATE_QUESTION_ID"
	CodeDuplicateQuestionKey       Code = "DEF_DUPLICATE_QUESTION_KEY"
	CodeMissingOptionsForChoice    Code = "DEF_MISSING_OPTIONS_FOR_CHOICE"
	CodeEmptyOptionsForChoice      Code = "DEF_EMPTY_OPTIONS_FOR_CHOICE"
	CodeMissingOptionValue         Code = "DEF_MISSING_OPTION_VALUE"
	CodeDuplicateOptionValue       Code = "DEF_DUPLICATE_OPTION_VALUE"
	CodeInvalidValueRange          Code = "DEF_INVALID_VALUE_RANGE"
	CodeEmptyConditions            Code = "DEF_EMPTY_CONDITIONS"
	CodeMissingConditionQuestionID Code = "DEF_MISSING_CONDITION_QUESTION_ID"
	CodeInvalidConditionalRef      Code = "DEF_INVALID_CONDITIONAL_REFERENCE"
	CodeConditionalForwardRef      Code = "DEF_CONDITIONAL_FORWARD_REFERENCE"
)

// Content manifest integrity codes.
const (
	CodeEmptyPages          Code = "DEF_EMPTY_PAGES"
	CodeMissingPageSlug     Code = "DEF_MISSING_PAGE_SLUG"
	CodeDuplicatePageSlug   Code = "DEF_DUPLICATE_PAGE_SLUG"
	CodeMissingPageTitle    Code = "DEF_MISSING_PAGE_TITLE"
	CodeMissingSections     Code = "DEF_MISSING_SECTIONS"
	CodeEmptySections       Code = "DEF_EMPTY_SECTIONS"
	CodeMissingSectionKey   Code = "DEF_MISSING_SECTION_KEY"
	CodeDuplicateSectionKey Code = "DEF_DUPLICATE_SECTION_KEY"
	CodeMissingSectionType  Code = "DEF_MISSING_SECTION_TYPE"
	CodeMissingAssetKey     Code = "DEF_MISSING_ASSET_KEY"
	CodeDuplicateAssetKey   Code = "DEF_DUPLICATE_ASSET_KEY"
	CodeMissingAssetType    Code = "DEF_MISSING_ASSET_TYPE"
	CodeMissingAssetURL     Code = "DEF_MISSING_ASSET_URL"
)

// Warning codes. Warnings never make a result invalid.
const (
	CodeWarnNonChoiceOptions    Code = "DEF_WARN_NON_CHOICE_OPTIONS"
	CodeWarnDuplicateOrderIndex Code = "DEF_WARN_DUPLICATE_ORDER_INDEX"
)

// AllCodes lists every code in taxonomy order.
func AllCodes() []Code {
	return []Code{
		CodeMalformedDocument,
		CodeInvalidRoot,
		CodeMissingSchemaVersion,
		CodeInvalidSchemaVersion,
		CodeInvalidFieldType,
		CodeMissingRequiredField,
		CodeInvalidEnumValue,
		CodeUnknownQuestionType,
		CodeUnknownSectionType,
		CodeUnknownAssetType,
		CodeMissingSteps,
		CodeMissingPages,
		CodeEmptySteps,
		CodeMissingStepID,
		CodeDuplicateStepID,
		CodeMissingStepTitle,
		CodeMissingQuestions,
		CodeEmptyQuestions,
		CodeMissingQuestionID,
		CodeMissingQuestionKey,
		CodeMissingQuestionType,
		CodeMissingQuestionLabel,
		CodeDuplicateQuestionID,
		CodeDuplicateQuestionKey,
		CodeMissingOptionsForChoice,
		CodeEmptyOptionsForChoice,
		CodeMissingOptionValue,
		CodeDuplicateOptionValue,
		CodeInvalidValueRange,
		CodeEmptyConditions,
		CodeMissingConditionQuestionID,
		CodeInvalidConditionalRef,
		CodeConditionalForwardRef,
		CodeEmptyPages,
		CodeMissingPageSlug,
		CodeDuplicatePageSlug,
		CodeMissingPageTitle,
		CodeMissingSections,
		CodeEmptySections,
		CodeMissingSectionKey,
		CodeDuplicateSectionKey,
		CodeMissingSectionType,
		CodeMissingAssetKey,
		CodeDuplicateAssetKey,
		CodeMissingAssetType,
		CodeMissingAssetURL,
		CodeWarnNonChoiceOptions,
		CodeWarnDuplicateOrderIndex,
	}
}
