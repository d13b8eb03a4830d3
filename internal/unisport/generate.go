package unisport

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"unical/internal/config"
	appLog "unical/internal/log"
	"unical/internal/model"
)

// FetchFunc retrieves the raw anchors for a listing URL. Overridable in
// tests; defaults to the chromedp-backed FetchAnchors.
type FetchFunc func(ctx context.Context, url string) ([]Anchor, error)

// Generator runs the full pipeline: fetch listing, parse rows, expand
// events, write events.json and meta.json.
type Generator struct {
	cfg   *config.Config
	fetch FetchFunc
}

// NewGenerator builds a Generator for the given config.
func NewGenerator(cfg *config.Config) *Generator {
	return &Generator{cfg: cfg, fetch: FetchAnchors}
}

// Run executes one generation cycle. On any failure the existing data
// files are left untouched.
func (g *Generator) Run(ctx context.Context) error {
	loc, err := time.LoadLocation(g.cfg.Timezone)
	if err != nil {
		appLog.Warn("unisport: bad timezone, using local", "timezone", g.cfg.Timezone)
		loc = time.Local
	}

	anchors, err := g.fetch(ctx, g.cfg.SearchURL)
	if err != nil {
		return err
	}

	rows := RowsFromAnchors(anchors, originOf(g.cfg.SearchURL))
	events := ExpandRows(rows, ExpandOptions{
		Location:           loc,
		Now:                time.Now().In(loc),
		PhaseLookaheadDays: g.cfg.PhaseLookaheadDays,
		SourceURL:          g.cfg.SearchURL,
	})

	meta := model.Meta{
		UpdatedAt:          time.Now().UTC(),
		RowsParsed:         len(rows),
		EventsGenerated:    len(events),
		Source:             g.cfg.SearchURL,
		PhaseLookaheadDays: g.cfg.PhaseLookaheadDays,
	}

	if err := writeJSONAtomic(g.cfg.EventsPath(), events); err != nil {
		return err
	}
	if err := writeJSONAtomic(g.cfg.MetaPath(), meta); err != nil {
		return err
	}

	appLog.Info("unisport generation completed",
		"rows_parsed", len(rows),
		"events_generated", len(events),
		"events_path", g.cfg.EventsPath(),
	)
	return nil
}

func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// writeJSONAtomic writes v as indented JSON via a temp file + rename so
// readers never observe a partially written data file.
func writeJSONAtomic(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".unical-data-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
