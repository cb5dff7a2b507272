package diagnostics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"opencode-diag/internal/domain"
)

// checkInternet measures connectivity against the primary endpoint and
// consults the fallback before declaring the network down.
func (c *Checker) checkInternet(ctx context.Context) domain.CheckResult {
	const name = "INTERNET"

	start := time.Now()
	if c.fetchOK(ctx, c.primaryURL) {
		elapsed := time.Since(start)
		status := domain.CheckStatusOk
		if elapsed > internetSlowAfter {
			status = domain.CheckStatusWarning
		}
		return domain.NewCheckResult(name, status, fmt.Sprintf("PING: %dms :: google.com reachable", elapsed.Milliseconds()))
	}

	if c.fetchOK(ctx, c.fallbackURL) {
		return domain.NewCheckResult(name, domain.CheckStatusWarning, "google.com unreachable, cloudflare OK")
	}
	return domain.NewCheckResult(name, domain.CheckStatusError, "No internet connection")
}

// fetchOK reports whether a GET against the URL answers with a 2xx status
// inside the connectivity timeout.
func (c *Checker) fetchOK(ctx context.Context, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, c.internetTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
