package config

import "time"

// DefaultOpenAIBaseURL is the chat-completions API root used when none is configured.
const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

// DefaultRewriteTimeout bounds the rewrite request.
const DefaultRewriteTimeout = 20 * time.Second

// GetDefaults returns the default configuration values keyed by koanf path.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"base":               "auto",
		"changelog":          "CHANGELOG.md",
		"notes_out":          "dist/RELEASE_NOTES.md",
		"project":            "project.godot",
		"openai.api_key":     "",
		"openai.model":       "",
		"openai.base_url":    DefaultOpenAIBaseURL,
		"openai.timeout":     DefaultRewriteTimeout,
		"openai.temperature": 0.2,
	}
}

// GetDefaultConfigTemplate returns a commented .relnotes.yml template.
func GetDefaultConfigTemplate() string {
	return `# relnotes configuration
# Environment variables override this file: RELNOTES_<KEY>, and
# OPENAI_API_KEY / OPENAI_MODEL / OPENAI_BASE_URL for the openai block.

base: auto                            # auto (latest tag) | "" (full history) | any git ref
changelog: CHANGELOG.md               # Changelog read by extract, updated by generate --changelog
notes_out: dist/RELEASE_NOTES.md      # Output of extract
project: project.godot                # File patched by stamp

# Optional bullet rewrite. Disabled unless api_key and model are both set.
openai:
  model: ""                           # e.g. gpt-4o-mini
  base_url: https://api.openai.com/v1 # Any chat-completions compatible endpoint
  timeout: 20s                        # Request timeout; on timeout the original bullets are kept
  temperature: 0.2
`
}
