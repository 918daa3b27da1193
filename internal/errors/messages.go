package errors

import "fmt"

// Common error messages for the relnotes CLI.
// These templates ensure consistent, actionable error messages.

// MissingVersion creates an error for a missing --version flag.
func MissingVersion(usage string) *CLIError {
	return NewArgumentErrorWithUsage(
		"--version is required",
		usage,
		"Pass the release version, e.g. --version v1.2.3",
	)
}

// NotGitRepository creates an error when the target directory is not in a git repository.
func NotGitRepository(path string) *CLIError {
	if path == "" {
		path = "current directory"
	}
	return NewRepositoryError(
		fmt.Sprintf("not a git repository: %s", path),
		"Run relnotes from inside a git checkout",
		"Or point at one with: relnotes generate --repo <path>",
	)
}

// HistoryUnavailable creates an error when commit history cannot be read.
func HistoryUnavailable(err error) *CLIError {
	return WrapWithMessage(err, Repository,
		"git history could not be read",
		"Check that the repository has at least one commit",
		"If --base was given, check that the reference exists: git rev-parse <ref>",
		"Use --base '' to read the full history",
	)
}

// ConfigParseError creates an error for an invalid config file.
func ConfigParseError(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("failed to load config file: %s", path),
		"Check that the file exists and is valid YAML or JSON",
		"Remove the file to fall back to environment variables and defaults",
	)
}

// FileNotReadable creates an error when an input file cannot be read.
func FileNotReadable(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("cannot read file: %s", path),
		"Check that the path is correct",
		"Check file permissions: ls -la "+path,
	)
}

// FileNotWritable creates an error when a file cannot be written.
func FileNotWritable(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("cannot write to file: %s", path),
		"Check file permissions: ls -la "+path,
		"Ensure parent directory is writable",
	)
}

// MissingApplicationSection creates an error when a project file has no [application] section.
func MissingApplicationSection(path string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("no [application] section in %s", path),
		"Check that --project points at a project.godot file",
	)
}
