package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/chouse/pkg/errors"
	"github.com/matzehuels/chouse/pkg/integrations"
	"github.com/matzehuels/chouse/pkg/observability"
	"github.com/matzehuels/chouse/pkg/record"
)

// upstream fakes the registry API.
func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/company/00000006", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"company_name":"TEST LTD","company_number":"00000006","company_status":"active","type":"ltd","date_of_creation":"1990-01-01","links":{"self":"/company/00000006","officers":"/company/00000006/officers"}}`)
	})
	mux.HandleFunc("/company/00000006/officers", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"items":[]}`)
	})
	mux.HandleFunc("/company/99999999", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"errors":[{"error":"company-profile-not-found"}]}`)
	})
	mux.HandleFunc("/company/00000401", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"errors":[{"error":"invalid-authorization-header"}]}`)
	})
	mux.HandleFunc("/search/companies", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"items":[{"company_number":"00000006"},{"company_number":"99999999"}]}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// runCLI executes the root command in an isolated environment and returns
// what it wrote to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	return runCLIKeepEnv(t, args...)
}

func runCLIKeepEnv(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range []string{"CHOUSE_API_KEY", "COMPANIES_HOUSE_API_KEY", "CHOUSE_BASE_URL", "CHOUSE_CACHE", "CHOUSE_MAX_DEPTH", "CHOUSE_MONGO_URI", "CHOUSE_REDIS_ADDR"} {
		t.Setenv(key, "")
	}

	prev := statusOut
	statusOut = io.Discard
	t.Cleanup(func() { statusOut = prev })

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLookupCommand(t *testing.T) {
	up := upstream(t)

	out, err := runCLI(t, "lookup", "00000006", "99999999", "--compact", "--api-key", "key", "--base-url", up.URL)
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}

	want := `{"company_name":"TEST LTD","company_number":"00000006","company_status":"active","type":"ltd","date_of_creation":"1990-01-01","officers":{"items":[]}}` + "\n{}\n"
	if out != want {
		t.Errorf("lookup output =\n%s\nwant\n%s", out, want)
	}
}

func TestLookupCommandMaxDepthZero(t *testing.T) {
	up := upstream(t)

	out, err := runCLI(t, "lookup", "00000006", "--compact", "--max-depth", "0", "--api-key", "key", "--base-url", up.URL)
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}
	if strings.Contains(out, "officers") || strings.Contains(out, "links") {
		t.Errorf("lookup --max-depth 0 output = %s", out)
	}
}

func TestLookupCommandIndented(t *testing.T) {
	up := upstream(t)

	out, err := runCLI(t, "lookup", "00000006", "--api-key", "key", "--base-url", up.URL)
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}
	if !strings.HasPrefix(out, "{\n  \"company_name\": \"TEST LTD\"") {
		t.Errorf("lookup output should be indented JSON, got:\n%s", out)
	}
}

func TestLookupCommandErrors(t *testing.T) {
	up := upstream(t)

	_, err := runCLI(t, "lookup", "00000006", "--base-url", up.URL)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("lookup without key error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}

	_, err = runCLI(t, "lookup", "00000401", "--api-key", "key", "--base-url", up.URL)
	if !integrations.IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("lookup error = %v, want upstream 401", err)
	}

	_, err = runCLI(t, "lookup", "00000006", "--archive", "--api-key", "key", "--base-url", up.URL)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("lookup --archive without mongo URI error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}

	if _, err := runCLI(t, "lookup"); err == nil {
		t.Error("lookup without arguments should fail")
	}
}

func TestLookupCommandEnvKey(t *testing.T) {
	up := upstream(t)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("COMPANIES_HOUSE_API_KEY", "env-key")
	t.Setenv("CHOUSE_BASE_URL", up.URL)

	prev := statusOut
	statusOut = io.Discard
	defer func() { statusOut = prev }()

	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"fetch", "/company/00000006/officers", "--compact"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("fetch with env key error: %v", err)
	}
	if out.String() != "{\"items\":[]}\n" {
		t.Errorf("fetch output = %q", out.String())
	}
}

func TestSearchCommand(t *testing.T) {
	up := upstream(t)

	out, err := runCLI(t, "search", "test ltd", "--compact", "--api-key", "key", "--base-url", up.URL)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if !strings.HasPrefix(out, `[{"company_name":"TEST LTD"`) || !strings.HasSuffix(out, ",{}]\n") {
		t.Errorf("search output = %s", out)
	}
}

func TestSearchCommandTable(t *testing.T) {
	up := upstream(t)

	out, err := runCLI(t, "search", "test ltd", "--table", "--api-key", "key", "--base-url", up.URL)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	for _, want := range []string{"Number", "Name", "00000006", "TEST LTD", "1990-01-01", "(not found)"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestFetchCommand(t *testing.T) {
	up := upstream(t)

	out, err := runCLI(t, "fetch", "/company/00000006", "--compact", "--api-key", "key", "--base-url", up.URL)
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if !strings.Contains(out, `"links":{"self":"/company/00000006"`) {
		t.Errorf("fetch should not expand links, got %s", out)
	}

	out, err = runCLI(t, "fetch", "company/00000006/officers", "--compact", "--api-key", "key", "--base-url", up.URL)
	if err != nil {
		t.Fatalf("fetch relative error: %v", err)
	}
	if out != "{\"items\":[]}\n" {
		t.Errorf("fetch relative output = %q", out)
	}

	if _, err := runCLI(t, "fetch", "ftp://host/x", "--api-key", "key", "--base-url", up.URL); !errors.Is(err, errors.ErrCodeInvalidURL) {
		t.Errorf("fetch ftp error = %v, want %s", err, errors.ErrCodeInvalidURL)
	}
}

func TestConfigCommand(t *testing.T) {
	out, err := runCLI(t, "config", "--api-key", "super-secret", "--max-depth", "3")
	if err != nil {
		t.Fatalf("config error: %v", err)
	}
	if strings.Contains(out, "super-secret") {
		t.Errorf("config output leaks the API key:\n%s", out)
	}
	if !strings.Contains(out, "max_depth = 3") {
		t.Errorf("config output should reflect flags:\n%s", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := runCLI(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion error: %v", err)
	}
	if !strings.Contains(out, "chouse") {
		t.Error("bash completion should mention the command name")
	}
}

func TestSetLogLevelRegistersHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	c := New(io.Discard, LogInfo)
	c.SetLogLevel(LogInfo)
	if _, ok := observability.HTTP().(observability.NoopHTTPHooks); !ok {
		t.Error("info level should keep no-op hooks")
	}

	c.SetLogLevel(LogDebug)
	if _, ok := observability.HTTP().(*logHooks); !ok {
		t.Errorf("debug level should register log hooks, got %T", observability.HTTP())
	}
	if _, ok := observability.Registry().(*logHooks); !ok {
		t.Errorf("debug level should register registry hooks, got %T", observability.Registry())
	}
}

func TestWriteJSON(t *testing.T) {
	m, _ := record.Parse([]byte(`{"b":1,"a":2}`))

	var buf bytes.Buffer
	if err := writeJSON(&buf, m, true); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "{\"b\":1,\"a\":2}\n" {
		t.Errorf("compact = %q", buf.String())
	}

	buf.Reset()
	if err := writeJSON(&buf, m, false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "{\n  \"b\": 1,\n  \"a\": 2\n}\n" {
		t.Errorf("indented = %q", buf.String())
	}
}

func TestField(t *testing.T) {
	m, _ := record.Parse([]byte(`{"s":"x","n":null,"e":"","num":5}`))
	tests := map[string]string{"s": "x", "n": "-", "e": "-", "missing": "-", "num": "5"}
	for key, want := range tests {
		if got := field(m, key); got != want {
			t.Errorf("field(%q) = %q, want %q", key, got, want)
		}
	}
}
