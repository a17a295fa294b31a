// Package retry implements a generic bounded-retry driver: a plain loop, not
// a scheduler, matching the source ecosystem's synchronous Retryer.
package retry

import (
	"context"
	"time"

	"github.com/nrao/yoink/yokerr"
)

// Op is the zero-return-value operation the Retryer wraps: it runs once per
// attempt and either succeeds (nil) or fails.
type Op func() error

// Do runs fn up to maxTries times, sleeping sleepInterval between attempts.
// Only errors for which yokerr.Retriable reports true are retried; any other
// error is returned immediately without consuming further attempts. A
// successful attempt short-circuits remaining tries. On exhaustion, the last
// observed error is returned. The returned tries count is always >= 1 when
// fn was invoked at least once.
func Do(ctx context.Context, maxTries int, sleepInterval time.Duration, fn Op) (tries int, err error) {
	if maxTries < 1 {
		maxTries = 1
	}

	for tries = 1; tries <= maxTries; tries++ {
		err = fn()
		if err == nil {
			return tries, nil
		}
		if !yokerr.Retriable(err) {
			return tries, err
		}
		if tries == maxTries {
			break
		}
		select {
		case <-ctx.Done():
			return tries, ctx.Err()
		case <-time.After(sleepInterval):
		}
	}
	return tries, err
}
