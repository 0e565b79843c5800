// Package extract turns an accessibility tree into a deduplicated list of
// labeled buttons and editable fields.
//
// Extraction runs in four passes over call-local state: the walker
// classifies nodes and filters decorative buttons, the resolver labels fields
// and textless buttons from nearby text nodes and settles final labels, Dedup
// drops redundant representations of the same field, and the exporter
// assembles the snapshot. Dedup keys on the labels that are emitted, so
// running it again on a snapshot's elements removes nothing. An Extractor
// holds only configuration and is safe for concurrent use.
package extract

import (
	"log/slog"
	"time"

	"github.com/mj1618/droid-cli/internal/model"
)

// Result is the outcome of one extraction.
type Result struct {
	Snapshot  model.Snapshot `yaml:"snapshot"            json:"snapshot"`
	Discarded []Discard      `yaml:"discarded,omitempty" json:"discarded,omitempty"`
	Removed   []Removal      `yaml:"removed,omitempty"   json:"removed,omitempty"`
}

// Extractor converts trees into snapshots with a fixed configuration.
type Extractor struct {
	cfg Config
	log *slog.Logger
	now func() time.Time
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger receiving diagnostics about filtered and
// deduplicated elements.
func WithLogger(l *slog.Logger) Option {
	return func(x *Extractor) {
		if l != nil {
			x.log = l
		}
	}
}

// WithClock sets the clock used for snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(x *Extractor) {
		if now != nil {
			x.now = now
		}
	}
}

// New returns an Extractor using cfg.
func New(cfg Config, opts ...Option) *Extractor {
	x := &Extractor{
		cfg: cfg,
		log: slog.New(slog.DiscardHandler),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Config returns the extractor's configuration.
func (x *Extractor) Config() Config {
	return x.cfg
}

// Extract converts the tree rooted at root into a snapshot named sourceName.
func (x *Extractor) Extract(root model.Node, sourceName string) Result {
	w := walk(root, x.cfg, x.log)
	resolved := finalizeLabels(resolveLabels(w.elements, w.labels, x.cfg))
	kept, removals := Dedup(resolved, x.cfg)
	for _, r := range removals {
		x.log.Debug("removed duplicate element",
			slog.String("rule", string(r.Rule)),
			slog.String("kind", string(r.Kind)),
			slog.String("label", r.Label))
	}

	snap := export(kept, sourceName, x.now().Format(time.RFC3339))
	x.log.Debug("extracted snapshot",
		slog.String("source", sourceName),
		slog.Int("buttons", snap.ButtonCount),
		slog.Int("inputs", snap.InputCount),
		slog.Int("labels", len(w.labels)),
		slog.Int("discarded", len(w.discarded)),
		slog.Int("removed", len(removals)))

	return Result{Snapshot: snap, Discarded: w.discarded, Removed: removals}
}

// Extract converts root with the default configuration.
func Extract(root model.Node, sourceName string) model.Snapshot {
	return New(DefaultConfig()).Extract(root, sourceName).Snapshot
}
