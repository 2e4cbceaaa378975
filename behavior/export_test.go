package behavior

import "time"

func (r *Retry[Req, Res]) BackoffFor(attempt int) time.Duration {
	return r.backoff(attempt)
}
