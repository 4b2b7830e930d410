package mediagen

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultPollInterval is the fixed wait between status fetches.
	DefaultPollInterval = 5 * time.Second

	// DefaultMaxPolls bounds the polling loop at 10 minutes with the
	// default interval.
	DefaultMaxPolls = 120
)

// Poller drives a video generation job to completion: wait a fixed interval,
// re-fetch status, repeat until the backend reports done. The job handle is
// single-owner for the duration of Await; refreshes are strictly sequential.
type Poller struct {
	// Interval between status fetches. Zero means DefaultPollInterval.
	Interval time.Duration

	// MaxPolls caps the number of status fetches. Zero means
	// DefaultMaxPolls; a negative value removes the bound.
	MaxPolls int

	// APIKey is appended to the result URI as a query parameter so the
	// returned URL is fetchable without separate authorization.
	APIKey string
}

// Await blocks until the job completes, the poll budget runs out, or ctx is
// cancelled. A completed job without a result URI fails with KindNoPayload;
// an exhausted budget fails with KindTimeout.
func (p *Poller) Await(ctx context.Context, job VideoJob) (*VideoResult, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	maxPolls := p.MaxPolls
	if maxPolls == 0 {
		maxPolls = DefaultMaxPolls
	}

	status := job.Status()
	polls := 0
	for !status.Done {
		if maxPolls > 0 && polls >= maxPolls {
			return nil, newFailure(KindTimeout,
				fmt.Sprintf("video generation still pending after %d polls", polls))
		}

		if err := waitInterval(ctx, interval); err != nil {
			return nil, err
		}

		if err := job.Refresh(ctx); err != nil {
			var f *Failure
			if errors.As(err, &f) {
				return nil, err
			}
			return nil, wrapFailure(KindTransport, "fetching video job status", err)
		}
		polls++
		status = job.Status()
	}

	if status.ResultURI == "" {
		return nil, newFailure(KindNoPayload, "video generation completed without output")
	}

	return &VideoResult{URI: appendKey(status.ResultURI, p.APIKey)}, nil
}

// waitInterval sleeps for d or returns early when ctx is cancelled.
func waitInterval(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return wrapFailure(KindTimeout, "polling deadline exceeded", ctx.Err())
		}
		return wrapFailure(KindTransport, "polling cancelled", ctx.Err())
	case <-timer.C:
		return nil
	}
}

// appendKey adds the access credential as a "key" query parameter.
func appendKey(uri, key string) string {
	if key == "" {
		return uri
	}

	u, err := url.Parse(uri)
	if err != nil {
		// Not parseable as a URL; fall back to plain concatenation.
		sep := "?"
		if strings.Contains(uri, "?") {
			sep = "&"
		}
		return uri + sep + "key=" + url.QueryEscape(key)
	}

	q := u.Query()
	q.Set("key", key)
	u.RawQuery = q.Encode()
	return u.String()
}
