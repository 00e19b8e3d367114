package body

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// UpdateAll advances every body by dt concurrently. The bodies must be
// distinct; each one is touched by exactly one goroutine. If ctx is done
// before every body has been scheduled, the scheduled ones finish and
// ctx.Err() is returned.
func UpdateAll(ctx context.Context, bodies []*RigidBody, dt float64) error {
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, b := range bodies {
		if err := ctx.Err(); err != nil {
			_ = g.Wait()
			return err
		}
		g.Go(func() error {
			b.Update(dt)
			return nil
		})
	}

	return g.Wait()
}
