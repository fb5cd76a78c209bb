package github

import (
	"fmt"
	"strings"
	"time"
)

// Repo identifies a repository as owner/name.
type Repo struct {
	Owner string
	Name  string
}

// ParseRepo parses "owner/name".
func ParseRepo(s string) (Repo, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	owner = strings.TrimSpace(owner)
	name = strings.TrimSpace(name)
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repo{}, fmt.Errorf("invalid repository %q: want owner/name", s)
	}
	return Repo{Owner: owner, Name: name}, nil
}

func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

// jobsResponse mirrors GET /repos/{owner}/{repo}/actions/runs/{id}/jobs.
type jobsResponse struct {
	TotalCount int   `json:"total_count"`
	Jobs       []Job `json:"jobs"`
}

// Job is one job of a workflow run.
type Job struct {
	ID          int64     `json:"id"`
	RunID       int64     `json:"run_id"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	Conclusion  string    `json:"conclusion"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Steps       []Step    `json:"steps"`
}

// Step is one step of a job as reported by the API.
type Step struct {
	Name       string `json:"name"`
	Number     int    `json:"number"`
	Status     string `json:"status"`
	Conclusion string `json:"conclusion"`
}

// Done reports whether the job has finished; only finished jobs have
// complete logs.
func (j Job) Done() bool {
	return j.Status == "completed"
}

// Duration is the wall time of a finished job, or zero.
func (j Job) Duration() time.Duration {
	if j.StartedAt.IsZero() || j.CompletedAt.IsZero() {
		return 0
	}
	return j.CompletedAt.Sub(j.StartedAt)
}

// Label is a short display name such as "build (success)".
func (j Job) Label() string {
	state := j.Conclusion
	if state == "" {
		state = j.Status
	}
	if state == "" {
		return j.Name
	}
	return fmt.Sprintf("%s (%s)", j.Name, state)
}
