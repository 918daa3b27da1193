// Package config loads relnotes configuration using koanf.
// Configuration is loaded with priority: RELNOTES_* environment variables >
// OPENAI_* environment variables > project config (.relnotes.yml or .relnotes.json) > defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Configuration represents the relnotes configuration.
type Configuration struct {
	// Base selects the lower bound of history: "auto" (latest tag), "" (full
	// history) or a literal git reference.
	// Can be set via RELNOTES_BASE env var.
	Base string `koanf:"base"`

	// Changelog is the CHANGELOG.md path used by extract and generate --changelog.
	Changelog string `koanf:"changelog"`

	// NotesOut is where extract writes the release notes.
	NotesOut string `koanf:"notes_out"`

	// Project is the project.godot path patched by stamp.
	Project string `koanf:"project"`

	// OpenAI configures the optional bullet rewrite stage. The stage is
	// enabled only when both api_key and model are set.
	OpenAI OpenAIConfig `koanf:"openai"`
}

// OpenAIConfig holds settings for the chat-completions rewrite endpoint.
type OpenAIConfig struct {
	APIKey      string        `koanf:"api_key"`
	Model       string        `koanf:"model"`
	BaseURL     string        `koanf:"base_url"`
	Timeout     time.Duration `koanf:"timeout"`
	Temperature float64       `koanf:"temperature"`
}

// RewriteEnabled reports whether both the credential and the model are set.
func (c OpenAIConfig) RewriteEnabled() bool {
	return strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.Model) != ""
}

// debugLogger receives notes about settings that were ignored while loading.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for config loading.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .relnotes.yml,
	// falling back to .relnotes.json).
	ProjectConfigPath string
}

// Load loads configuration from defaults, the project file and the environment.
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if err := loadProjectConfig(k, opts.ProjectConfigPath); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadProjectConfig loads the project config file if one exists.
// An explicit path must exist; the default paths are optional.
func loadProjectConfig(k *koanf.Koanf, customPath string) error {
	path := customPath
	if path == "" {
		path = findProjectConfig()
		if path == "" {
			return nil
		}
	} else if !fileExists(path) {
		return fmt.Errorf("config file not found: %s", path)
	}

	if strings.HasSuffix(path, ".json") {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return fmt.Errorf("loading JSON config %s: %w", path, err)
		}
		return nil
	}

	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("loading YAML config %s: %w", path, err)
	}
	return nil
}

// findProjectConfig returns the first existing default project config path.
func findProjectConfig() string {
	for _, p := range ProjectConfigPaths() {
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// loadEnvironmentConfig loads environment variable overrides.
// OPENAI_* variables are read first so RELNOTES_OPENAI_* can override them.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider("OPENAI_", ".", openAIEnvTransform), nil); err != nil {
		return fmt.Errorf("failed to load OPENAI_ environment: %w", err)
	}
	if err := k.Load(env.Provider("RELNOTES_", ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load RELNOTES_ environment: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals the merged configuration.
// The openai block belongs to a best-effort stage, so bad values there are
// logged and never fail the load.
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	resetUnparseable(k, "openai.timeout", func(s string) error {
		_, err := time.ParseDuration(s)
		return err
	})
	resetUnparseable(k, "openai.temperature", func(s string) error {
		_, err := strconv.ParseFloat(s, 64)
		return err
	})

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.OpenAI.APIKey = strings.TrimSpace(cfg.OpenAI.APIKey)
	cfg.OpenAI.Model = strings.TrimSpace(cfg.OpenAI.Model)
	cfg.OpenAI.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.OpenAI.BaseURL), "/")

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		logDebug("[config] %v (rewrite requests may fail and keep the original bullets)", err)
	}

	return &cfg, nil
}

// resetUnparseable restores the default for key when its value cannot be
// decoded, so a typo in an optional setting never blocks loading.
func resetUnparseable(k *koanf.Koanf, key string, parse func(string) error) {
	var err error
	switch v := k.Get(key).(type) {
	case nil, time.Duration, int, int64, float64:
		return
	case string:
		if err = parse(v); err == nil {
			return
		}
	default:
		err = fmt.Errorf("unsupported type %T", v)
	}

	def := GetDefaults()[key]
	logDebug("[config] ignoring %s: %v; using %v", key, err, def)
	k.Set(key, def)
}

// openAIEnvTransform maps the conventional OpenAI variables onto config keys.
// Example: OPENAI_BASE_URL -> openai.base_url. Unknown OPENAI_* variables are ignored.
func openAIEnvTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "OPENAI_"))
	switch key {
	case "api_key", "model", "base_url":
		return "openai." + key
	default:
		return ""
	}
}

// envTransform converts RELNOTES_ variable names to config keys.
// Example: RELNOTES_NOTES_OUT -> notes_out, RELNOTES_OPENAI_MODEL -> openai.model
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "RELNOTES_"))
	if rest, ok := strings.CutPrefix(key, "openai_"); ok {
		return "openai." + rest
	}
	return key
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
