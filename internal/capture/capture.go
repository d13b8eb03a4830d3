// Package capture takes a PNG snapshot of the served calendar page with
// headless Chromium, for embedding the current week view elsewhere.
package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
)

// readySelector is the attribute the calendar page sets once FullCalendar
// has finished its first render.
const readySelector = `[data-ready="true"]`

// settleDelay gives the browser a beat to finish paints that land after
// the ready marker appears.
const settleDelay = 500 * time.Millisecond

const (
	defaultWidth   = 1280
	defaultHeight  = 960
	defaultTimeout = 30 * time.Second
)

// Options defines parameters for a snapshot capture.
type Options struct {
	// URL of the calendar page, e.g. "http://127.0.0.1:8080/calendar".
	URL string

	// OutputPath is where the PNG will be written. Parent directories are
	// created as needed.
	OutputPath string

	// Width and Height are the viewport dimensions in pixels. Zero uses
	// the defaults.
	Width  int
	Height int

	// Timeout bounds the entire capture operation.
	Timeout time.Duration
}

func (o *Options) normalize() error {
	if o.URL == "" {
		return errors.New("capture: no page URL given")
	}
	if o.OutputPath == "" {
		return errors.New("capture: no output path given")
	}
	if o.Width <= 0 {
		o.Width = defaultWidth
	}
	if o.Height <= 0 {
		o.Height = defaultHeight
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return nil
}

// SnapshotPNG navigates to opts.URL, waits until the page marks itself
// rendered, and writes a full-page screenshot to opts.OutputPath.
func SnapshotPNG(parentCtx context.Context, opts Options) error {
	if err := opts.normalize(); err != nil {
		return err
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()
	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var png []byte
	err := chromedp.Run(ctx,
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(readySelector, chromedp.ByQuery),
		chromedp.Sleep(settleDelay),
		chromedp.FullScreenshot(&png, 100),
	)
	if err != nil {
		return fmt.Errorf("capture: browser session for %s: %w", opts.URL, err)
	}

	if dir := filepath.Dir(opts.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("capture: create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(opts.OutputPath, png, 0o644); err != nil {
		return fmt.Errorf("capture: write %s: %w", opts.OutputPath, err)
	}
	return nil
}
