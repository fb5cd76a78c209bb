// Package github fetches job logs from the GitHub Actions REST API.
//
// # Overview
//
// Two endpoints are used:
//
//   - GET /repos/{owner}/{repo}/actions/jobs/{job_id}/logs
//   - GET /repos/{owner}/{repo}/actions/runs/{run_id}/jobs
//
// The first answers with a redirect to a short-lived blob URL holding the
// plain-text log; the standard HTTP client follows it and drops the
// Authorization header on the cross-host hop.
//
// # Client Usage
//
//	client, err := github.NewClient(cfg.APIURL, cfg.Token())
//	repo, err := github.ParseRepo("cli/cli")
//	jobs, err := client.ListJobs(ctx, repo, runID)
//	text, err := client.FetchJobLog(ctx, repo, jobs[0].ID)
//
// # Error Handling
//
// Status codes that callers act on are mapped to sentinel errors wrapped
// with the request path:
//
//   - 404: ErrNotFound
//   - 410: ErrLogsExpired
//   - 401, 403: ErrUnauthorized
//
// Any other status >= 400 is a plain error mentioning the status code.
// Use errors.Is to test for the sentinels.
//
// # Testing
//
// LogFetcher is implemented by *Client. Tests elsewhere substitute a fake;
// tests here run against net/http/httptest servers.
package github
