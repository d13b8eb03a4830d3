package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	appLog "unical/internal/log"
	"unical/internal/model"
)

// LoadError indicates an unreachable resource or a non-success response.
type LoadError struct {
	Path   string
	Status int
	Err    error
}

func (e *LoadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("feed: load %s: HTTP %d", e.Path, e.Status)
	}
	return fmt.Sprintf("feed: load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ParseError indicates a fetched body that is not valid JSON.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("feed: parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Loader fetches the precomputed event data and its metadata summary.
// Paths may be http(s) URLs or plain filesystem paths; HTTP fetches
// bypass intermediary caches. Loads are one-shot: no retries, no
// timeout beyond what the caller's context imposes.
type Loader struct {
	client     *http.Client
	eventsPath string
	metaPath   string
}

// NewLoader constructs a Loader for the two resource locations.
func NewLoader(eventsPath, metaPath string) *Loader {
	return &Loader{
		client:     &http.Client{},
		eventsPath: eventsPath,
		metaPath:   metaPath,
	}
}

// Result is the outcome of a successful load. Events already carry the
// fixed display colors.
type Result struct {
	Events []model.Event
	Meta   model.Meta
}

// Load fetches both resources concurrently with join semantics: both
// must succeed or the whole load fails and no partial result is
// returned.
func (l *Loader) Load(ctx context.Context) (Result, error) {
	var res Result

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		body, err := l.fetch(ctx, l.eventsPath)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, &res.Events); err != nil {
			return &ParseError{Path: l.eventsPath, Err: err}
		}
		return nil
	})
	g.Go(func() error {
		body, err := l.fetch(ctx, l.metaPath)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, &res.Meta); err != nil {
			return &ParseError{Path: l.metaPath, Err: err}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	model.StampDisplayColors(res.Events)

	appLog.Info("feed load completed",
		"events", len(res.Events),
		"rows_parsed", res.Meta.RowsParsed,
		"updated_at", res.Meta.UpdatedAt.Format(time.RFC3339),
	)
	return res, nil
}

func (l *Loader) fetch(ctx context.Context, path string) ([]byte, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return l.fetchHTTP(ctx, path)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return body, nil
}

func (l *Loader) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cacheBust(url), nil)
	if err != nil {
		return nil, &LoadError{Path: url, Err: err}
	}
	// Bypass intermediary and client caches; the data files change in
	// place and a stale copy is worse than a slow one.
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &LoadError{Path: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &LoadError{Path: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LoadError{Path: url, Err: err}
	}
	return body, nil
}

// cacheBust appends a timestamp query parameter so that even caches that
// ignore request headers serve a fresh copy.
func cacheBust(url string) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_=" + strconv.FormatInt(time.Now().UnixMilli(), 10)
}
