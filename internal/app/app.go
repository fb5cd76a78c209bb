package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/five82/runlog/internal/config"
	"github.com/five82/runlog/internal/github"
	"github.com/five82/runlog/internal/logparse"
	"github.com/five82/runlog/internal/prefs"
	"github.com/five82/runlog/internal/state"
	"github.com/five82/runlog/internal/ui"
)

// Options configure a runlog session.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/runlog/prefs.toml
	LogLevel   string // overrides config when set
	Sources    SourceSpec
	Follow     bool // keep refetching sources in the background
	Step       int  // viewer opens at this step; zero starts at the top
	Stdin      io.Reader
	LogOutput  io.Writer // defaults to stderr
}

// Session holds everything a command needs after sources are loaded.
type Session struct {
	Config    config.Config
	PrefsPath string
	Store     *state.Store
	Targets   []Target
	Interval  time.Duration
}

// Open loads configuration, resolves sources and fills the store.
func Open(ctx context.Context, opts Options) (*Session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	if err := SetupLogging(level, out); err != nil {
		return nil, err
	}

	resolver := Resolver{Stdin: opts.Stdin}
	if len(opts.Sources.Jobs) > 0 || opts.Sources.Run != 0 {
		token := cfg.Token()
		if token == "" {
			log.Warnf("$%s is empty; private repositories will not be readable", cfg.TokenEnv)
		}
		client, err := github.NewClient(cfg.APIURL, token)
		if err != nil {
			return nil, fmt.Errorf("init github client: %w", err)
		}
		resolver.Fetcher = client
	}

	targets, err := resolver.Resolve(ctx, opts.Sources)
	if err != nil {
		return nil, err
	}

	store := &state.Store{}
	if err := Load(ctx, store, targets); err != nil {
		return nil, err
	}

	return &Session{
		Config:    cfg,
		PrefsPath: opts.PrefsPath,
		Store:     store,
		Targets:   targets,
		Interval:  time.Duration(cfg.PollSeconds) * time.Second,
	}, nil
}

// Documents returns the loaded documents in source order. Sources that
// failed are skipped.
func (s *Session) Documents() []*logparse.Document {
	snap := s.Store.Snapshot()
	docs := make([]*logparse.Document, 0, len(s.Targets))
	for _, t := range s.Targets {
		e, ok := snap.Find(t.ID)
		if !ok || !e.Ready() {
			continue
		}
		docs = append(docs, e.Doc)
	}
	return docs
}

// Follow starts the background poller for the session's sources.
func (s *Session) Follow(ctx context.Context) {
	StartPoller(ctx, s.Store, s.Targets, s.Interval)
}

// Refresh refetches every refetchable source once.
func (s *Session) Refresh(ctx context.Context) {
	var live []Target
	for _, t := range s.Targets {
		if t.Refetchable {
			live = append(live, t)
		}
	}
	refresh(ctx, s.Store, live)
}

// Run opens a session and blocks in the interactive viewer until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	sess, err := Open(ctx, opts)
	if err != nil {
		return err
	}

	restore, err := LogToFile(sess.Config.LogFile)
	if err != nil {
		log.WithError(err).Warn("logging to stderr")
	} else {
		defer restore()
	}

	if opts.Follow {
		sess.Follow(ctx)
	}

	if !prefs.Exists(opts.PrefsPath) {
		log.Debug("no preferences file; using defaults")
	}
	userPrefs := prefs.Load(opts.PrefsPath)
	return ui.Run(ui.Options{
		Context:        ctx,
		Store:          sess.Store,
		Prefs:          userPrefs,
		PrefsPath:      opts.PrefsPath,
		ShowTimestamps: sess.Config.ShowTimestamps && !userPrefs.HideTimestamps,
		PollTick:       time.Second,
		Step:           opts.Step,
		Refresh:        sess.Refresh,
	})
}
