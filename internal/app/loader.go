package app

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/five82/runlog/internal/logparse"
	"github.com/five82/runlog/internal/state"
)

// maxConcurrentFetches bounds parallel downloads and parses.
const maxConcurrentFetches = 4

// Load fetches every target into store concurrently. Individual failures
// are recorded on their entries; Load only fails when ctx is done or when
// no target could be loaded at all.
func Load(ctx context.Context, store *state.Store, targets []Target) error {
	if len(targets) == 0 {
		return ErrNoSources
	}

	for _, t := range targets {
		store.Track(t.ID, t.Name)
	}

	var (
		mu     sync.Mutex
		failed int
		errs   = make([]error, len(targets))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, t := range targets {
		g.Go(func() error {
			if err := fetchInto(gctx, store, t); err != nil {
				mu.Lock()
				failed++
				errs[i] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	if failed == len(targets) {
		for i, err := range errs {
			if err != nil {
				return fmt.Errorf("load %s: %w", targets[i].Name, err)
			}
		}
	}
	return nil
}

// fetchInto refreshes a single target and records the outcome.
func fetchInto(ctx context.Context, store *state.Store, t Target) error {
	text, err := t.Fetch(ctx)
	if err != nil {
		store.Fail(t.ID, t.Name, err)
		log.WithFields(log.Fields{"source": t.Name}).WithError(err).Warn("fetch failed")
		return err
	}
	changed := store.Put(logparse.Source{ID: t.ID, Name: t.Name, Text: text})
	log.WithFields(log.Fields{
		"source":  t.Name,
		"bytes":   len(text),
		"changed": changed,
	}).Debug("fetched log")
	return nil
}
