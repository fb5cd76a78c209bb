package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/five82/runlog/internal/github"
	"github.com/five82/runlog/internal/logtail"
)

// ErrNoSources is returned when a command names nothing to load.
var ErrNoSources = errors.New("no log sources given")

// SourceSpec describes where logs come from. Any combination may be set.
type SourceSpec struct {
	Paths []string // files; "-" reads stdin
	Dir   string   // root for Glob; empty means the working directory
	Glob  string   // doublestar pattern under Dir
	Repo  string   // owner/name for GitHub sources
	Jobs  []int64
	Run   int64 // every job of this workflow run
}

// Empty reports whether spec names no source at all.
func (s SourceSpec) Empty() bool {
	return len(s.Paths) == 0 && s.Glob == "" && len(s.Jobs) == 0 && s.Run == 0
}

// Target is one resolved log source.
type Target struct {
	ID          string
	Name        string
	Refetchable bool // false for stdin, which can only be read once

	fetch func(ctx context.Context) (string, error)
}

// Fetch reads the current log text.
func (t Target) Fetch(ctx context.Context) (string, error) {
	return t.fetch(ctx)
}

// Resolver expands a SourceSpec into targets.
type Resolver struct {
	Fetcher github.LogFetcher // required only for GitHub sources
	Stdin   io.Reader
}

// Resolve returns targets in a stable order: paths, glob matches, jobs,
// then the jobs of Run.
func (r Resolver) Resolve(ctx context.Context, spec SourceSpec) ([]Target, error) {
	if spec.Empty() {
		return nil, ErrNoSources
	}

	var targets []Target
	stdinUsed := false
	for _, p := range spec.Paths {
		if p == "-" {
			if stdinUsed {
				return nil, errors.New("stdin given more than once")
			}
			if r.Stdin == nil {
				return nil, errors.New("stdin is not available")
			}
			stdinUsed = true
			targets = append(targets, r.stdinTarget())
			continue
		}
		targets = append(targets, fileTarget(p, filepath.Base(p)))
	}

	if spec.Glob != "" {
		root := spec.Dir
		if root == "" {
			root = "."
		}
		matches, err := logtail.Glob(root, spec.Glob)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q under %s", spec.Glob, root)
		}
		for _, m := range matches {
			name, err := filepath.Rel(root, m)
			if err != nil {
				name = m
			}
			targets = append(targets, fileTarget(m, name))
		}
	}

	if len(spec.Jobs) > 0 || spec.Run != 0 {
		if spec.Repo == "" {
			return nil, errors.New("--repo is required for --job and --run")
		}
		if r.Fetcher == nil {
			return nil, errors.New("no GitHub client configured")
		}
		repo, err := github.ParseRepo(spec.Repo)
		if err != nil {
			return nil, err
		}
		for _, id := range spec.Jobs {
			targets = append(targets, r.jobTarget(repo, id, repo.String()+"#"+strconv.FormatInt(id, 10)))
		}
		if spec.Run != 0 {
			jobs, err := r.Fetcher.ListJobs(ctx, repo, spec.Run)
			if err != nil {
				return nil, fmt.Errorf("list jobs for run %d: %w", spec.Run, err)
			}
			for _, j := range jobs {
				fields := log.Fields{"job": j.Label(), "run": spec.Run}
				if !j.Done() {
					log.WithFields(fields).Info("job still running; log may be incomplete")
				} else {
					log.WithFields(fields).WithField("took", j.Duration()).Debug("job finished")
				}
				targets = append(targets, r.jobTarget(repo, j.ID, j.Name))
			}
		}
	}

	seen := make(map[string]bool, len(targets))
	out := targets[:0]
	for _, t := range targets {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out, nil
}

func fileTarget(path, name string) Target {
	id := path
	if abs, err := filepath.Abs(path); err == nil {
		id = abs
	}
	return Target{
		ID:          "file:" + id,
		Name:        name,
		Refetchable: true,
		fetch: func(context.Context) (string, error) {
			return logtail.ReadFile(path)
		},
	}
}

func (r Resolver) stdinTarget() Target {
	stdin := r.Stdin
	return Target{
		ID:   "stdin",
		Name: "stdin",
		fetch: func(context.Context) (string, error) {
			text, err := logtail.ReadAll(stdin)
			if err != nil {
				return "", fmt.Errorf("read stdin: %w", err)
			}
			return text, nil
		},
	}
}

func (r Resolver) jobTarget(repo github.Repo, id int64, name string) Target {
	fetcher := r.Fetcher
	return Target{
		ID:          fmt.Sprintf("github:%s/jobs/%d", repo, id),
		Name:        name,
		Refetchable: true,
		fetch: func(ctx context.Context) (string, error) {
			return fetcher.FetchJobLog(ctx, repo, id)
		},
	}
}
