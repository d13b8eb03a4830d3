package unisport

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	appLog "unical/internal/log"
)

const fetchTimeout = 60 * time.Second

// Anchor is one link extracted from the listing page: the link target
// plus the full text of the enclosing line.
type Anchor struct {
	Href string `json:"href"`
	Line string `json:"line"`
}

// extractAnchorsJS collects every anchor with its parent's collapsed
// text. The offer lines live in the anchor's enclosing element, so the
// line grammar is applied Go-side against that text.
const extractAnchorsJS = `
Array.from(document.querySelectorAll('a')).map(a => {
	const parent = a.parentElement;
	return {
		href: a.getAttribute('href') || '',
		line: parent ? (parent.innerText || '').replace(/\s+/g, ' ').trim() : '',
	};
})
`

// FetchAnchors loads the listing page in headless Chromium and returns
// the raw anchors. A browser is used instead of a plain GET because the
// listing markup is irregular and the in-page DOM gives us collapsed
// line text for free.
func FetchAnchors(parentCtx context.Context, url string) ([]Anchor, error) {
	if url == "" {
		return nil, errors.New("unisport: listing URL is empty")
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()
	ctx, timeoutCancel := context.WithTimeout(ctx, fetchTimeout)
	defer timeoutCancel()

	appLog.Info("unisport fetch start", "url", url)

	var anchors []Anchor
	err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(extractAnchorsJS, &anchors),
	)
	if err != nil {
		return nil, err
	}

	appLog.Info("unisport fetch completed", "url", url, "anchor_count", len(anchors))
	return anchors, nil
}

// RowsFromAnchors applies the line grammar to raw anchors and
// absolutizes relative links against the listing origin.
func RowsFromAnchors(anchors []Anchor, baseOrigin string) []Row {
	rows := make([]Row, 0, len(anchors))
	for _, a := range anchors {
		href := a.Href
		if strings.HasPrefix(href, "/") {
			href = strings.TrimSuffix(baseOrigin, "/") + href
		}
		if row, ok := ParseLine(a.Line, href); ok {
			rows = append(rows, row)
		}
	}
	return DedupeRows(rows)
}
