package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/fndeploy/internal/domain"
)

func testPackage() domain.Package {
	artifact := domain.SourceArtifact{Path: "src/index.js", Content: "function foo() { return 1 }"}
	return domain.BuildPackage(artifact, "42", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestFunctionClient_Request(t *testing.T) {
	pkg := testPackage()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/functions/abc", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, pkg.Code, body["code"])

		_, _ = io.WriteString(w, `{"data":{"function":{"id":"abc","deployedAt":"2024-01-01T00:00:00Z"}}}`)
	}))
	defer ts.Close()

	c := NewFunctionClient(ts.Client(), ts.URL+"/", "abc", "secret")
	res := c.Update(context.Background(), pkg)

	require.NoError(t, res.Err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "2024-01-01T00:00:00Z", res.DeployedAt)
	assert.Empty(t, res.Errors)
}

func TestFunctionClient_URLEscapesFunctionID(t *testing.T) {
	c := NewFunctionClient(http.DefaultClient, "https://api.example.com", "a/b c", "t")

	assert.Equal(t, "https://api.example.com/functions/a%2Fb%20c", c.URL())
}

func TestFunctionClient_Responses(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		body           string
		wantDeployedAt string
		wantErrors     []string
		wantBody       string
	}{
		{
			name:       "top level errors",
			status:     http.StatusOK,
			body:       `{"errors":[{"message":"bad payload"},{"message":"too large"}]}`,
			wantErrors: []string{"bad payload", "too large"},
		},
		{
			name:       "errors under data",
			status:     http.StatusOK,
			body:       `{"data":{"errors":["bad payload"]}}`,
			wantErrors: []string{"bad payload"},
		},
		{
			name:       "unrecognised error shape kept raw",
			status:     http.StatusOK,
			body:       `{"errors":[42]}`,
			wantErrors: []string{"42"},
		},
		{
			name:           "empty errors ignored",
			status:         http.StatusOK,
			body:           `{"errors":[],"data":{"function":{"deployedAt":"2024-01-01T00:00:00Z"}}}`,
			wantDeployedAt: "2024-01-01T00:00:00Z",
		},
		{
			name:       "undecodable body",
			status:     http.StatusOK,
			body:       `<html>gateway</html>`,
			wantErrors: []string{"decode response: invalid character '<' looking for beginning of value"},
		},
		{
			name:     "server error keeps body",
			status:   http.StatusInternalServerError,
			body:     "upstream exploded\n",
			wantBody: "upstream exploded",
		},
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer ts.Close()

			res := NewFunctionClient(ts.Client(), ts.URL, "abc", "secret").Update(context.Background(), testPackage())

			require.NoError(t, res.Err)
			assert.Equal(t, tt.status, res.StatusCode)
			assert.Equal(t, tt.wantDeployedAt, res.DeployedAt)
			assert.Equal(t, tt.wantErrors, res.Errors)
			assert.Equal(t, tt.wantBody, res.Body)
		})
	}
}

func TestFunctionClient_TruncatesErrorBody(t *testing.T) {
	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'x'
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write(long)
	}))
	defer ts.Close()

	res := NewFunctionClient(ts.Client(), ts.URL, "abc", "secret").Update(context.Background(), testPackage())

	assert.Len(t, res.Body, maxErrorBody+len("..."))
}

func TestFunctionClient_TruncatesErrorBodyOnRuneBoundary(t *testing.T) {
	body := "x" + strings.Repeat("é", 1000)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, body)
	}))
	defer ts.Close()

	res := NewFunctionClient(ts.Client(), ts.URL, "abc", "secret").Update(context.Background(), testPackage())

	assert.True(t, utf8.ValidString(res.Body))
	assert.Len(t, res.Body, maxErrorBody-1+len("..."))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "abc", 5, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"ascii", "abcdef", 3, "abc..."},
		{"mid rune", "aé", 2, "a..."},
		{"rune boundary", "aéb", 3, "aé..."},
		{"wide rune", "€€", 4, "€..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

type failingClient struct{ err error }

func (f failingClient) Do(*http.Request) (*http.Response, error) { return nil, f.err }

func TestFunctionClient_TransportError(t *testing.T) {
	netErr := errors.New("dial tcp: connection refused")

	res := NewFunctionClient(failingClient{err: netErr}, "https://api.example.com", "abc", "secret").
		Update(context.Background(), testPackage())

	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, netErr)
	assert.Zero(t, res.StatusCode)
	assert.True(t, domain.RetryOnFailure(res))
}
