// Package goroutine runs fire-and-forget work off the request path.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/fammo-app/fammo/internal/shared/logger"
)

// Go runs task in its own goroutine. A returned error is logged as a warning
// and a panic is logged with its stack; neither reaches the caller.
func Go(log logger.Interface, name string, task func() error) {
	go Run(log, name, task)
}

// Run is the synchronous body of Go.
func Run(log logger.Interface, name string, task func() error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("background task panicked",
				"task", name,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()

	if err := task(); err != nil {
		log.Warnw("background task failed", "task", name, "error", err)
	}
}
