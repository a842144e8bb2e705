package errors

import "fmt"

// MissingArtifactFile is returned when a validate or publish input path does not exist.
func MissingArtifactFile(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("artifact file not found: %s", path),
		"Check the path is relative to the current directory",
		"Artifacts must be .json, .yaml or .yml files",
	)
}

// UnknownArtifactType is returned when the artifact type argument is not questionnaire or content.
func UnknownArtifactType(value string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("unknown artifact type %q", value),
		"funnelkit validate [questionnaire|content] <file>",
		"Use questionnaire for questionnaire configurations",
		"Use content for content manifests",
	)
}

// ArtifactTypeNotInferred is returned when no type is given and the filename gives no hint.
func ArtifactTypeNotInferred(path string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("cannot tell whether %s is a questionnaire or a content manifest", path),
		"funnelkit validate [questionnaire|content] <file>",
		"Pass the type before the file: funnelkit validate questionnaire "+path,
		"Or name the file *questionnaire*.json or *content*.json",
	)
}

// FunnelNotFound is returned when a slug is not in the catalog.
func FunnelNotFound(slug string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("funnel not found: %s", slug),
		"List funnels with: funnelkit funnel list",
		fmt.Sprintf("Create it with: funnelkit funnel create %s --title <title>", slug),
	)
}

// NoPublishedVersion is returned when a funnel has no resolvable version.
func NoPublishedVersion(slug string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("funnel %s has no resolvable version", slug),
		fmt.Sprintf("Publish one with: funnelkit publish %s --default --semver <version> --questionnaire <file> --content <file>", slug),
	)
}

// PatientNotFound is returned when an override targets a user with no patient profile.
func PatientNotFound(userID string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("no patient profile for user %s", userID),
		"Create it with: funnelkit patient create <user-id>",
	)
}

// InvalidRolloutPercent is returned when --rollout falls outside 0..100.
func InvalidRolloutPercent(value int) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("rollout percent must be between 0 and 100, got %d", value),
	)
}

// ConfigFileNotFound is returned when an explicit --config path does not exist.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"Omit --config to use ~/.funnelkit/config.json and .funnelkit/config.json",
		"Create one with: funnelkit config set <key> <value>",
	)
}

// ConfigParseError is returned when configuration fails to load.
func ConfigParseError(path string, err error) *CLIError {
	cliErr := WrapWithMessage(err, Configuration, fmt.Sprintf("failed to load config %s", path),
		"Check the file is valid JSON",
		"Run 'funnelkit config show' to see the effective configuration",
		"Environment overrides use the FUNNELKIT_ prefix, e.g. FUNNELKIT_LOG_LEVEL")
	return cliErr
}

// DatabaseUnavailable is returned when the funnel store cannot be opened.
func DatabaseUnavailable(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime, fmt.Sprintf("cannot open funnel database %s", path),
		"Check the directory exists and is writable",
		"Set a different location with: funnelkit config set db_path <path>")
}
