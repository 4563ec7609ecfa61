// Package ratelimit paces outgoing API requests with a token bucket.
//
// Cloudflare allows 1200 API requests per five minutes per user. A sweep
// over a large account lists thousands of deployments and issues one
// DELETE per stale deployment, so the client waits on a bucket before every
// request attempt instead of running into HTTP 429.
//
//	bucket := ratelimit.NewTokenBucket(10, 4) // burst 10, 4 requests/sec
//	if err := bucket.Wait(ctx, 1); err != nil {
//	    return err // ctx canceled
//	}
package ratelimit
