// Package ctxutil holds small context helpers shared across packages.
package ctxutil

import "context"

// Canceled returns the context's error when it is already done
// (canceled or past its deadline), nil otherwise. Every blocking
// operation checks this at entry before touching the store or
// spawning processes.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}
