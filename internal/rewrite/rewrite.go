// Package rewrite implements the optional bullet rewrite stage backed by an
// OpenAI-compatible chat-completions endpoint.
//
// The stage is best-effort: every failure (transport, timeout, status,
// malformed or wrongly shaped response) is logged at debug level and the
// input bullets are returned unchanged.
package rewrite

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ariel-frischer/relnotes/internal/changelog"
)

// DefaultTimeout bounds a rewrite request when Config.Timeout is zero.
const DefaultTimeout = 20 * time.Second

// DefaultBaseURL is the API root used when Config.BaseURL is empty.
const DefaultBaseURL = "https://api.openai.com/v1"

// completionsPath is appended to the base URL.
const completionsPath = "/chat/completions"

// debugLogger is a function that logs debug messages when debug mode is enabled.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for rewrite requests.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Config holds everything the networked rewriter needs. It is built by the
// caller; nothing in this package reads the environment.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64

	// HTTPClient overrides the client used for requests. Its Timeout is left
	// untouched when set.
	HTTPClient *http.Client
}

// Enabled reports whether both the credential and the model are present.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.Model) != ""
}

// New returns the networked Client when cfg is enabled and Noop otherwise.
func New(cfg Config) changelog.Rewriter {
	if !cfg.Enabled() {
		logDebug("[rewrite] disabled: api key or model not configured")
		return Noop{}
	}
	return NewClient(cfg)
}

// Noop returns its input unchanged.
type Noop struct{}

// Rewrite returns bullets as given.
func (Noop) Rewrite(_ context.Context, bullets []string) []string {
	return bullets
}
