package browser

import (
	"context"
	"time"
)

const (
	// clickAttempts is the maximum number of native click attempts.
	clickAttempts = 10

	// clickBackoff is the fixed wait between failed click attempts. A fixed
	// interval accommodates scroll settling better than exponential backoff
	// here: the element usually becomes clickable within one or two frames
	// once scrolling finishes.
	clickBackoff = 200 * time.Millisecond
)

// centerScrollScript scrolls the element to the vertical middle of the
// viewport. An element can be unclickable for two main reasons: it sits
// outside the viewport, or it sits under a fixed banner or toolbar.
// Centering it solves both.
const centerScrollScript = `el => {
	const viewPortHeight = Math.max(document.documentElement.clientHeight, window.innerHeight || 0);
	const elementTop = el.getBoundingClientRect().top;
	window.scrollBy(0, elementTop - viewPortHeight / 2);
}`

// clickWithRetry runs scroll once, then attempts click up to clickAttempts
// times, sleeping clickBackoff between failures. The engine needs time to
// settle after scrolling before a click lands; waiting for the element to
// report itself clickable is not reliable enough, so this retries blindly
// on any interaction error.
func clickWithRetry(ctx context.Context, scroll, click func() error) error {
	if err := scroll(); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < clickAttempts; i++ {
		lastErr = click()
		if lastErr == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(clickBackoff):
		}
	}

	return &ClickFailedError{Attempts: clickAttempts, LastErr: lastErr}
}
