package fold

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/katalvlaran/hpfold/logger"
	"golang.org/x/sync/errgroup"
)

// safeGroup is an errgroup whose goroutines turn panics into errors, so one
// faulty worker aborts the run instead of the process.
type safeGroup struct {
	group *errgroup.Group
	log   logger.Logger
}

func newSafeGroup(ctx context.Context, log logger.Logger) (*safeGroup, context.Context) {
	g, ctx := errgroup.WithContext(ctx)

	return &safeGroup{group: g, log: log}, ctx
}

func (sg *safeGroup) Go(fn func() error) {
	sg.group.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				sg.log.Error("worker panic recovered",
					logger.WithField("panic", r),
					logger.WithField("stack_trace", string(debug.Stack())))
				err = fmt.Errorf("%w: %v", ErrWorkerPanic, r)
			}
		}()

		return fn()
	})
}

// Wait returns the first error any goroutine returned.
func (sg *safeGroup) Wait() error { return sg.group.Wait() }
