// Package handlers registers the built-in Go handlers that task
// descriptors can reference by name instead of a shell command.
package handlers

import (
	"context"
	"fmt"
	"time"

	"chorus/internal/task"
)

func init() {
	task.Register("hello", hello)
}

// hello is a demo handler for trying out descriptor files that use
// handler resolution.
func hello(ctx context.Context) error {
	fmt.Printf("Hello from chorus! The time is %s.\n", time.Now().Format("3:04:05 PM"))
	return nil
}
