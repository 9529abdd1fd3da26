package obs

import (
	"context"
	"log"
	"time"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// Time reports how long a named operation took when the returned func runs,
// usually via defer. Passing the caller's error pointer lets the deferred
// call log the operation's final error alongside the timing.
func Time(ctx context.Context, op string) func(errp *error) {
	start := time.Now()

	reqID, _ := ctx.Value(RequestIDKey).(string)

	return func(errp *error) {
		elapsed := time.Since(start).Round(time.Millisecond)

		if errp != nil && *errp != nil {
			log.Printf("op=%s dur=%s req_id=%s err=%v", op, elapsed, reqID, *errp)
			return
		}
		log.Printf("op=%s dur=%s req_id=%s", op, elapsed, reqID)
	}
}
