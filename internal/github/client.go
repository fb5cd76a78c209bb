package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrNotFound is returned for 404 responses: unknown repo, run or job,
	// or a private repo without a token.
	ErrNotFound = errors.New("not found")
	// ErrLogsExpired is returned when GitHub has deleted the job's logs.
	ErrLogsExpired = errors.New("logs expired")
	// ErrUnauthorized is returned for 401 and 403 responses.
	ErrUnauthorized = errors.New("unauthorized")
)

// LogFetcher is implemented by *Client and can be replaced in tests.
type LogFetcher interface {
	FetchJobLog(ctx context.Context, repo Repo, jobID int64) (string, error)
	ListJobs(ctx context.Context, repo Repo, runID int64) ([]Job, error)
}

var _ LogFetcher = (*Client)(nil)

// Client talks to the GitHub Actions REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	token     string
	userAgent string
	maxLog    int64
}

const (
	defaultAPIURL    = "https://api.github.com"
	defaultUserAgent = "runlog/0.1"
	apiVersion       = "2022-11-28"
	requestTimeout   = 30 * time.Second
	jobsPerPage      = 100

	// MaxLogBytes caps a downloaded job log.
	MaxLogBytes = 64 << 20
)

// NewClient builds a Client for apiURL. An empty token sends
// unauthenticated requests, which only work for public repositories.
func NewClient(apiURL, token string) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		token:     strings.TrimSpace(token),
		userAgent: defaultUserAgent,
		maxLog:    MaxLogBytes,
	}, nil
}

// FetchJobLog downloads the plain-text log of one job. The API answers with
// a redirect to the log blob, which the HTTP client follows.
func (c *Client) FetchJobLog(ctx context.Context, repo Repo, jobID int64) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	if jobID <= 0 {
		return "", fmt.Errorf("job id required")
	}
	rel := &url.URL{Path: fmt.Sprintf("repos/%s/%s/actions/jobs/%d/logs", repo.Owner, repo.Name, jobID)}
	resp, err := c.get(ctx, rel, "application/vnd.github+json")
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxLog+1))
	if err != nil {
		return "", fmt.Errorf("read log: %w", err)
	}
	if int64(len(body)) > c.maxLog {
		return "", fmt.Errorf("job %d log exceeds %s", jobID, humanize.IBytes(uint64(c.maxLog)))
	}
	log.WithFields(log.Fields{
		"repo": repo.String(),
		"job":  jobID,
		"size": humanize.IBytes(uint64(len(body))),
	}).Debug("fetched job log")
	return string(body), nil
}

// ListJobs returns every job of a workflow run, following pagination.
func (c *Client) ListJobs(ctx context.Context, repo Repo, runID int64) ([]Job, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if runID <= 0 {
		return nil, fmt.Errorf("run id required")
	}
	var jobs []Job
	for page := 1; ; page++ {
		values := url.Values{}
		values.Set("per_page", strconv.Itoa(jobsPerPage))
		values.Set("page", strconv.Itoa(page))
		values.Set("filter", "latest")
		rel := &url.URL{
			Path:     fmt.Sprintf("repos/%s/%s/actions/runs/%d/jobs", repo.Owner, repo.Name, runID),
			RawQuery: values.Encode(),
		}
		var payload jobsResponse
		if err := c.getJSON(ctx, rel, &payload); err != nil {
			return nil, err
		}
		jobs = append(jobs, payload.Jobs...)
		if len(payload.Jobs) == 0 || len(jobs) >= payload.TotalCount {
			break
		}
	}
	log.WithFields(log.Fields{"repo": repo.String(), "run": runID, "jobs": len(jobs)}).Debug("listed jobs")
	return jobs, nil
}

func (c *Client) getJSON(ctx context.Context, rel *url.URL, dest any) error {
	resp, err := c.get(ctx, rel, "application/vnd.github+json")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// get issues a GET and maps error statuses. On success the caller owns
// the response body.
func (c *Client) get(ctx context.Context, rel *url.URL, accept string) (*http.Response, error) {
	reqURL := c.baseURL.JoinPath(rel.Path)
	reqURL.RawQuery = rel.RawQuery
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log.WithField("url", reqURL.String()).Debug("github request")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	if resp.StatusCode < 400 {
		return resp, nil
	}
	_ = resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, fmt.Errorf("api %s: %w", rel.Path, ErrNotFound)
	case http.StatusGone:
		return nil, fmt.Errorf("api %s: %w", rel.Path, ErrLogsExpired)
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("api %s returned status %d: %w", rel.Path, resp.StatusCode, ErrUnauthorized)
	default:
		return nil, fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
	}
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
