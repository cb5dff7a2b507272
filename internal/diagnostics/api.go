package diagnostics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"

	"opencode-diag/internal/domain"
)

// statusOverloaded is Anthropic's non-standard overload status code.
const statusOverloaded = 529

// maxAPIBody caps how much of a response body the probes will read.
const maxAPIBody = 1 << 20

// apiTarget describes one monitored AI service endpoint.
type apiTarget struct {
	name           string // check name in the report
	host           string // short host used in detail strings
	method         string
	url            string
	authStatuses   []int // codes that prove reachability without credentials
	extractMessage bool  // parse the body for an upstream error message
}

// checkClaudeAPI probes the Anthropic API with a lightweight HEAD request.
func (c *Checker) checkClaudeAPI(ctx context.Context) domain.CheckResult {
	return c.checkAPI(ctx, apiTarget{
		name:         "CLAUDE API",
		host:         "api.anthropic.com",
		method:       http.MethodHead,
		url:          c.anthropicURL,
		authStatuses: []int{http.StatusUnauthorized, http.StatusForbidden},
	})
}

// checkOpenAIAPI probes the OpenAI models endpoint and surfaces upstream
// error messages found in the response body.
func (c *Checker) checkOpenAIAPI(ctx context.Context) domain.CheckResult {
	return c.checkAPI(ctx, apiTarget{
		name:           "OPENAI API",
		host:           "api.openai.com",
		method:         http.MethodGet,
		url:            c.openaiURL,
		authStatuses:   []int{http.StatusUnauthorized, http.StatusForbidden},
		extractMessage: true,
	})
}

// checkGoogleAI probes the Gemini models endpoint. It answers 400 to
// unauthenticated requests, so that also counts as reachable.
func (c *Checker) checkGoogleAI(ctx context.Context) domain.CheckResult {
	return c.checkAPI(ctx, apiTarget{
		name:         "GOOGLE AI",
		host:         "googleapis.com",
		method:       http.MethodGet,
		url:          c.googleURL,
		authStatuses: []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden},
	})
}

// checkAPI issues one request to the target and maps the outcome through
// the shared status table.
func (c *Checker) checkAPI(ctx context.Context, target apiTarget) domain.CheckResult {
	ctx, cancel := context.WithTimeout(ctx, c.apiTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, target.method, target.url, nil)
	if err != nil {
		return domain.NewCheckResult(target.name, domain.CheckStatusError, fmt.Sprintf("%s :: %v", target.host, err))
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return domain.NewCheckResult(target.name, domain.CheckStatusError, transportDetails(target.host, err))
	}
	defer resp.Body.Close()

	var message string
	if target.extractMessage {
		if body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxAPIBody)); readErr == nil {
			message = extractErrorMessage(body)
		}
	}

	status, details := mapAPIStatus(target, resp.StatusCode, elapsed)
	result := domain.NewCheckResult(target.name, status, details)
	if message != "" {
		result = result.WithMessage(message)
	}
	return result
}

// mapAPIStatus converts an HTTP status code and the observed latency into
// the check status and the detail wording the diagnosis rules key off.
func mapAPIStatus(target apiTarget, code int, elapsed time.Duration) (domain.CheckStatus, string) {
	ms := elapsed.Milliseconds()
	switch {
	case code >= 200 && code < 400:
		return domain.CheckStatusOk, fmt.Sprintf("%s :: reachable :: %dms", target.host, ms)
	case isAuthStatus(target, code):
		return domain.CheckStatusOk, fmt.Sprintf("%s :: reachable :: %dms (auth required)", target.host, ms)
	case code == http.StatusTooManyRequests:
		return domain.CheckStatusWarning, fmt.Sprintf("%s :: %d :: rate limited", target.host, code)
	case code == http.StatusServiceUnavailable:
		return domain.CheckStatusError, fmt.Sprintf("%s :: %d :: server at capacity", target.host, code)
	case code == statusOverloaded:
		return domain.CheckStatusError, fmt.Sprintf("%s :: %d :: overloaded", target.host, code)
	case code >= 500:
		return domain.CheckStatusError, fmt.Sprintf("%s :: %d :: server error", target.host, code)
	case elapsed < apiSlowAfter:
		return domain.CheckStatusOk, fmt.Sprintf("%s :: reachable :: %dms", target.host, ms)
	default:
		return domain.CheckStatusWarning, fmt.Sprintf("%s :: slow :: %dms", target.host, ms)
	}
}

// isAuthStatus reports whether the code is an expected credential challenge
// for this target.
func isAuthStatus(target apiTarget, code int) bool {
	for _, s := range target.authStatuses {
		if s == code {
			return true
		}
	}
	return false
}

// transportDetails distinguishes timeouts from unreachable hosts in the
// detail text.
func transportDetails(host string, err error) string {
	switch {
	case isTimeout(err):
		return host + " :: timeout"
	case isConnectFailure(err):
		return host + " :: connection failed"
	default:
		return fmt.Sprintf("%s :: %v", host, err)
	}
}

// isTimeout reports whether the request failed by exceeding its deadline.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isConnectFailure reports whether the request never reached the host.
func isConnectFailure(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// extractErrorMessage pulls a human-readable error out of the common API
// error body shapes.
func extractErrorMessage(body []byte) string {
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if len(payload.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(payload.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
		var plain string
		if err := json.Unmarshal(payload.Error, &plain); err == nil && plain != "" {
			return plain
		}
	}
	return payload.Message
}
