// Package rewrite tests the fail-open chat-completions rewriter.
// Related: internal/rewrite/rewrite.go, internal/rewrite/client.go, internal/rewrite/prompt.go
// Tags: rewrite, openai, http, fail-open

package rewrite

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var input = []string{"Add map", "Crash on load"}

// completion wraps content in a chat-completions response body.
func completion(t *testing.T, content string) string {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	require.NoError(t, err)
	return string(body)
}

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func enabledConfig(baseURL string) Config {
	return Config{APIKey: "sk-test", Model: "gpt-test", BaseURL: baseURL, Temperature: 0.2}
}

func TestNew_SelectsImplementation(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cfg      Config
		wantNoop bool
	}{
		"both set":       {cfg: Config{APIKey: "k", Model: "m"}, wantNoop: false},
		"missing key":    {cfg: Config{Model: "m"}, wantNoop: true},
		"missing model":  {cfg: Config{APIKey: "k"}, wantNoop: true},
		"blank values":   {cfg: Config{APIKey: " ", Model: " "}, wantNoop: true},
		"nothing at all": {cfg: Config{}, wantNoop: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			r := New(tc.cfg)
			_, isNoop := r.(Noop)
			assert.Equal(t, tc.wantNoop, isNoop)
		})
	}
}

func TestNoop_ReturnsInput(t *testing.T) {
	t.Parallel()
	assert.Equal(t, input, Noop{}.Rewrite(context.Background(), input))
}

func TestClient_Rewrite_Success(t *testing.T) {
	t.Parallel()

	var gotReq chatRequest
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_, _ = w.Write([]byte(completion(t, `["new map screen", "  fix:  fewer crashes  ", "", "New map screen"]`)))
	}))
	t.Cleanup(srv.Close)

	got := NewClient(enabledConfig(srv.URL+"/v1/")).Rewrite(context.Background(), input)

	assert.Equal(t, []string{"New map screen", "Fewer crashes"}, got)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "/v1/chat/completions", gotPath)
	assert.Equal(t, "gpt-test", gotReq.Model)
	assert.InDelta(t, 0.2, gotReq.Temperature, 1e-9)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Contains(t, gotReq.Messages[1].Content, "Return ONLY a JSON array of strings.")
	assert.Contains(t, gotReq.Messages[1].Content, "- Add map\n- Crash on load")
}

func TestClient_Rewrite_CapsAtDisplayLimit(t *testing.T) {
	t.Parallel()

	items := make([]string, 15)
	for i := range items {
		items[i] = "item " + string(rune('a'+i))
	}
	content, err := json.Marshal(items)
	require.NoError(t, err)

	srv := newServer(t, http.StatusOK, completion(t, string(content)))
	got := NewClient(enabledConfig(srv.URL)).Rewrite(context.Background(), input)

	assert.Len(t, got, 10)
	assert.Equal(t, "Item a", got[0])
}

func TestClient_Rewrite_FailOpen(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		status int
		body   string
	}{
		"server error":            {status: http.StatusInternalServerError, body: `{"error":"boom"}`},
		"unauthorized":            {status: http.StatusUnauthorized, body: `{}`},
		"non json body":           {status: http.StatusOK, body: "<html>oops</html>"},
		"no choices":              {status: http.StatusOK, body: `{"choices":[]}`},
		"prose content":           {status: http.StatusOK, body: completion(t, "Here are your bullets: - A")},
		"object content":          {status: http.StatusOK, body: completion(t, `{"bullets":["A"]}`)},
		"mixed array":             {status: http.StatusOK, body: completion(t, `["A", 2, true]`)},
		"number array":            {status: http.StatusOK, body: completion(t, `[1, 2]`)},
		"empty array":             {status: http.StatusOK, body: completion(t, `[]`)},
		"only empty strings":      {status: http.StatusOK, body: completion(t, `["", "  ", "fix:"]`)},
		"null content":            {status: http.StatusOK, body: completion(t, `null`)},
		"null element":            {status: http.StatusOK, body: completion(t, `["Better maps", null]`)},
		"only null elements":      {status: http.StatusOK, body: completion(t, `[null, null]`)},
		"nested array element":    {status: http.StatusOK, body: completion(t, `["A", ["B"]]`)},
		"object element":          {status: http.StatusOK, body: completion(t, `["A", {"text": "B"}]`)},
		"fenced json is not bare": {status: http.StatusOK, body: completion(t, "```json\n[\"A\"]\n```")},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			srv := newServer(t, tc.status, tc.body)
			got := NewClient(enabledConfig(srv.URL)).Rewrite(context.Background(), input)
			assert.Equal(t, input, got)
		})
	}
}

func TestClient_Rewrite_TransportFailure(t *testing.T) {
	t.Parallel()

	srv := newServer(t, http.StatusOK, completion(t, `["A"]`))
	url := srv.URL
	srv.Close()

	got := NewClient(enabledConfig(url)).Rewrite(context.Background(), input)
	assert.Equal(t, input, got)
}

func TestClient_Rewrite_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	cfg := enabledConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond

	start := time.Now()
	got := NewClient(cfg).Rewrite(context.Background(), input)
	assert.Equal(t, input, got)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestClient_Rewrite_EmptyInputSkipsRequest(t *testing.T) {
	t.Parallel()

	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	t.Cleanup(srv.Close)

	got := NewClient(enabledConfig(srv.URL)).Rewrite(context.Background(), nil)
	assert.Empty(t, got)
	assert.False(t, called)
}

func TestClient_Complete_ReportsReason(t *testing.T) {
	t.Parallel()

	srv := newServer(t, http.StatusOK, completion(t, `{"a":1}`))
	_, err := NewClient(enabledConfig(srv.URL)).Complete(context.Background(), input)
	require.ErrorIs(t, err, ErrNotStringArray)

	srv = newServer(t, http.StatusOK, `{"choices":[]}`)
	_, err = NewClient(enabledConfig(srv.URL)).Complete(context.Background(), input)
	require.ErrorIs(t, err, ErrNoChoices)

	srv = newServer(t, http.StatusOK, completion(t, `null`))
	_, err = NewClient(enabledConfig(srv.URL)).Complete(context.Background(), input)
	require.ErrorIs(t, err, ErrNotStringArray)

	srv = newServer(t, http.StatusOK, completion(t, `["Better maps", null]`))
	_, err = NewClient(enabledConfig(srv.URL)).Complete(context.Background(), input)
	require.ErrorIs(t, err, ErrNotStringArray)
	assert.Contains(t, err.Error(), "element 1 is null")

	srv = newServer(t, http.StatusOK, completion(t, `[""]`))
	_, err = NewClient(enabledConfig(srv.URL)).Complete(context.Background(), input)
	require.ErrorIs(t, err, ErrEmptyResult)

	srv = newServer(t, http.StatusBadGateway, "")
	_, err = NewClient(enabledConfig(srv.URL)).Complete(context.Background(), input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{APIKey: " k ", Model: " m "})
	assert.Equal(t, DefaultBaseURL+"/chat/completions", c.endpoint)
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
	assert.Equal(t, "k", c.apiKey)
	assert.Equal(t, "m", c.model)

	custom := &http.Client{}
	c = NewClient(Config{APIKey: "k", Model: "m", HTTPClient: custom, Timeout: time.Second})
	assert.Same(t, custom, c.httpClient)
	assert.Zero(t, c.httpClient.Timeout)
}

func TestParseBullets(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content string
		want    []string
		wantErr error
	}{
		"strings":            {content: `["fix: a", "B"]`, want: []string{"A", "B"}},
		"escaped quotes":     {content: `["Say \"hi\""]`, want: []string{"Say \"hi\""}},
		"whitespace padding": {content: " [ \"a\" , \"b\" ] ", want: []string{"A", "B"}},
		"top level null":     {content: `null`, wantErr: ErrNotStringArray},
		"null element":       {content: `["A", null]`, wantErr: ErrNotStringArray},
		"number element":     {content: `["A", 1]`, wantErr: ErrNotStringArray},
		"bool element":       {content: `[true]`, wantErr: ErrNotStringArray},
		"bare string":        {content: `"A"`, wantErr: ErrNotStringArray},
		"empty strings":      {content: `["", " "]`, wantErr: ErrEmptyResult},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := parseBullets(tc.content)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUserPrompt(t *testing.T) {
	t.Parallel()

	p := userPrompt([]string{"A", "B"})
	assert.True(t, strings.HasPrefix(p, "Rewrite the following changelog bullets"))
	assert.True(t, strings.HasSuffix(p, "Bullets:\n- A\n- B"))
}
