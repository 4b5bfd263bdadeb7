// Package publish copies the assets of registered themes into the public
// directory.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/afero"

	"github.com/jmylchreest/stylist/internal/event"
	"github.com/jmylchreest/stylist/internal/observability"
	"github.com/jmylchreest/stylist/internal/storage"
	"github.com/jmylchreest/stylist/internal/theme"
)

// Candidate is a located theme directory and its publishability.
type Candidate struct {
	Dir         string       `json:"dir"`
	Theme       *theme.Theme `json:"theme,omitempty"`
	Publishable bool         `json:"publishable"`
	Destination string       `json:"destination,omitempty"` // relative to the public directory
	PublishedAt *time.Time   `json:"published_at,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// Result describes one published theme.
type Result struct {
	Theme       *theme.Theme      `json:"theme"`
	Destination string            `json:"destination"` // relative to the public directory
	Stats       storage.CopyStats `json:"stats"`
}

// Report summarises a publish run.
type Report struct {
	RunID     string            `json:"run_id"`
	Requested string            `json:"requested,omitempty"`
	Results   []Result          `json:"results"`
	Total     storage.CopyStats `json:"total"`
	StartedAt time.Time         `json:"started_at"`
	Duration  time.Duration     `json:"duration"`
}

// Publisher runs the publish procedure: dispatch the publishing event,
// register located themes that have an assets directory, then copy assets.
type Publisher struct {
	fs       afero.Fs
	sandbox  *storage.Sandbox
	registry *theme.Registry
	events   *event.Dispatcher
	prefix   string
	logger   *slog.Logger
}

// NewPublisher creates a publisher. Theme sources are read through the
// sandbox's filesystem; assets are written under prefix inside the sandbox.
func NewPublisher(sandbox *storage.Sandbox, registry *theme.Registry, events *event.Dispatcher, prefix string) *Publisher {
	if prefix == "" {
		prefix = "."
	}
	return &Publisher{
		fs:       sandbox.Fs(),
		sandbox:  sandbox,
		registry: registry,
		events:   events,
		prefix:   filepath.Clean(prefix),
		logger:   slog.Default(),
	}
}

// WithLogger sets the logger for the publisher.
func (p *Publisher) WithLogger(logger *slog.Logger) *Publisher {
	p.logger = observability.WithComponent(logger, "publisher")
	return p
}

// Locate dispatches the publishing event and returns every directory the
// listeners contributed, each loaded and checked for an assets directory.
// Candidates carry their destination and, when it already exists, its
// modification time. A destination outside the themes prefix is reported
// in Error but does not clear Publishable; publishing such a theme fails.
func (p *Publisher) Locate(ctx context.Context) ([]Candidate, error) {
	if !p.events.HasListeners(event.Publishing) {
		p.logger.WarnContext(ctx, "nothing listens for the publishing event, no themes can be located")
	}

	locator := theme.NewLocator(p.fs)
	if err := p.events.Dispatch(ctx, event.Publishing, locator); err != nil {
		return nil, err
	}

	dirs := locator.Paths()
	candidates := make([]Candidate, 0, len(dirs))
	for _, dir := range dirs {
		p.logger.Log(ctx, observability.LevelTrace, "located theme directory", slog.String("path", dir))
		c := Candidate{Dir: dir}

		t, err := theme.Load(p.fs, dir)
		if err != nil {
			c.Error = err.Error()
			candidates = append(candidates, c)
			continue
		}
		c.Theme = t

		ok, err := storage.DirExists(p.fs, t.AssetsDir())
		if err != nil {
			c.Error = err.Error()
		}
		c.Publishable = ok

		if err := p.describeDestination(&c); err != nil && c.Error == "" {
			c.Error = err.Error()
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}

// Setup locates themes and registers, by path, those that have an assets
// directory. Themes that fail to load are logged and skipped.
func (p *Publisher) Setup(ctx context.Context) error {
	candidates, err := p.Locate(ctx)
	if err != nil {
		return err
	}

	for _, c := range candidates {
		switch {
		case c.Theme == nil:
			p.logger.WarnContext(ctx, "skipping theme",
				slog.String("path", c.Dir),
				slog.String("error", c.Error))
		case !c.Publishable && c.Error != "":
			p.logger.WarnContext(ctx, "skipping theme",
				slog.String("theme", c.Theme.Name),
				slog.String("error", c.Error))
		case !c.Publishable:
			p.logger.DebugContext(ctx, "theme has no assets directory",
				slog.String("theme", c.Theme.Name),
				slog.String("path", c.Dir))
		default:
			t, err := p.registry.RegisterPath(c.Dir)
			if err != nil {
				p.logger.WarnContext(ctx, "skipping theme",
					slog.String("path", c.Dir),
					slog.String("error", err.Error()))
				continue
			}
			p.logger.DebugContext(ctx, "registered theme",
				slog.String("theme", t.Name),
				slog.String("path", c.Dir))
		}
	}

	p.logger.DebugContext(ctx, "themes registered", slog.Int("count", p.registry.Len()))
	return nil
}

// Publish registers themes and copies their assets. When name is not empty
// only that theme is published and an error wrapping theme.ErrThemeNotFound
// is returned if it is not registered.
//
// Publishing stops at the first failure; the returned report then holds
// the themes published before it.
func (p *Publisher) Publish(ctx context.Context, name string) (report *Report, err error) {
	report = &Report{
		RunID:     ulid.Make().String(),
		Requested: name,
		StartedAt: time.Now(),
	}
	logger := observability.WithRunID(p.logger, report.RunID)
	done := observability.TimedOperationWithError(ctx, logger, "publish", &err)
	defer done()
	defer func() { report.Duration = time.Since(report.StartedAt) }()

	if err = p.Setup(ctx); err != nil {
		return report, err
	}

	var targets []*theme.Theme
	if name != "" {
		t, getErr := p.registry.Get(name)
		if getErr != nil {
			err = getErr
			return report, err
		}
		targets = []*theme.Theme{t}
	} else {
		targets = p.registry.Themes()
	}

	for _, t := range targets {
		var res Result
		res, err = p.publishSingle(ctx, logger, t)
		if err != nil {
			return report, err
		}
		report.Results = append(report.Results, res)
		report.Total.Add(res.Stats)
	}

	if err = p.events.Dispatch(ctx, event.Published, report); err != nil {
		return report, err
	}
	return report, nil
}

func (p *Publisher) publishSingle(ctx context.Context, logger *slog.Logger, t *theme.Theme) (Result, error) {
	dest, err := p.destination(t)
	if err != nil {
		return Result{}, fmt.Errorf("publishing %s: %w", t.Name, err)
	}

	stats, err := p.sandbox.CopyDirectory(t.AssetsDir(), dest)
	if err != nil {
		return Result{}, fmt.Errorf("publishing %s: %w", t.Name, err)
	}

	logger.InfoContext(ctx, "theme assets published",
		slog.String("theme", t.Name),
		slog.String("destination", dest),
		slog.Int("files", stats.Files),
		slog.Int64("bytes", stats.Bytes))

	return Result{Theme: t, Destination: filepath.ToSlash(dest), Stats: stats}, nil
}

// destination returns where t's assets go, relative to the public
// directory. It must stay under the themes prefix.
func (p *Publisher) destination(t *theme.Theme) (string, error) {
	dest := filepath.Join(p.prefix, filepath.FromSlash(t.AssetPath))

	rel, err := filepath.Rel(p.prefix, dest)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: asset path %q leaves %s", storage.ErrPathEscapes, t.AssetPath, filepath.ToSlash(p.prefix))
	}
	return dest, nil
}

// describeDestination fills in where c's theme publishes to and when that
// destination was last written, if it exists.
func (p *Publisher) describeDestination(c *Candidate) error {
	dest, err := p.destination(c.Theme)
	if err != nil {
		return err
	}
	c.Destination = filepath.ToSlash(dest)

	info, err := p.sandbox.Stat(dest)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	modTime := info.ModTime()
	c.PublishedAt = &modTime
	return nil
}
