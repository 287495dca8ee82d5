package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/bft-labs/fndeploy/internal/domain"
	"github.com/bft-labs/fndeploy/internal/ports"
)

const (
	functionsEndpoint = "/functions/"

	// maxBodyBytes bounds how much of a response is read.
	maxBodyBytes = 1 << 20
	// maxErrorBody bounds the response text kept for failed attempts.
	maxErrorBody = 512
)

// FunctionClient implements ports.FunctionUpdater against the functions API.
type FunctionClient struct {
	client     ports.HTTPClient
	baseURL    string
	functionID string
	token      string
}

// NewFunctionClient creates a client bound to one remote function.
func NewFunctionClient(client ports.HTTPClient, baseURL, functionID, token string) *FunctionClient {
	return &FunctionClient{
		client:     client,
		baseURL:    strings.TrimRight(baseURL, "/"),
		functionID: functionID,
		token:      token,
	}
}

type updateRequest struct {
	Code string `json:"code"`
}

type updateResponse struct {
	Data *struct {
		Function *struct {
			DeployedAt string `json:"deployedAt"`
		} `json:"function"`
		Errors []json.RawMessage `json:"errors"`
	} `json:"data"`
	Errors []json.RawMessage `json:"errors"`
}

// URL returns the endpoint of the bound function.
func (c *FunctionClient) URL() string {
	return c.baseURL + functionsEndpoint + url.PathEscape(c.functionID)
}

// Update sends one PATCH carrying the package code.
func (c *FunctionClient) Update(ctx context.Context, pkg domain.Package) domain.AttemptResult {
	body, err := json.Marshal(updateRequest{Code: pkg.Code})
	if err != nil {
		return domain.AttemptResult{Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.URL(), bytes.NewReader(body))
	if err != nil {
		return domain.AttemptResult{Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.AttemptResult{Err: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	result := domain.AttemptResult{StatusCode: resp.StatusCode, Status: resp.Status}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil && resp.StatusCode < 400 {
		// A status line without a readable body is still a lost response.
		return domain.AttemptResult{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode >= 400 {
		result.Body = truncate(strings.TrimSpace(string(respBody)), maxErrorBody)
		return result
	}

	var decoded updateResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		result.Errors = []string{fmt.Sprintf("decode response: %v", err)}
		return result
	}

	result.Errors = errorMessages(decoded.Errors)
	if decoded.Data != nil {
		result.Errors = append(result.Errors, errorMessages(decoded.Data.Errors)...)
		if decoded.Data.Function != nil {
			result.DeployedAt = decoded.Data.Function.DeployedAt
		}
	}
	return result
}

// errorMessages accepts both plain strings and {"message": "..."} objects.
func errorMessages(raw []json.RawMessage) []string {
	var out []string
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			out = append(out, s)
			continue
		}
		var obj struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(r, &obj); err == nil && obj.Message != "" {
			out = append(out, obj.Message)
			continue
		}
		out = append(out, string(r))
	}
	return out
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

var _ ports.FunctionUpdater = (*FunctionClient)(nil)
