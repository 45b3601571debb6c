// Package worker runs the supervised external command whose lifetime drives
// board completion. Output is discarded; the snapshot feed is the progress
// channel.
package worker

import (
	"context"
	"os/exec"

	"github.com/ppnw-ai-corp/stageboard/internal/board"
	"github.com/ppnw-ai-corp/stageboard/internal/launch"
)

// Shell returns a worker that runs command through "sh -c" in dir. The
// process is killed when ctx is cancelled.
func Shell(ctx context.Context, dir, command string) launch.Worker {
	return func(*board.Signal) {
		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		if dir != "" {
			cmd.Dir = dir
		}
		cmd.Run()
	}
}

// Start runs w in its own goroutine and sets done when it returns. The
// returned function joins the worker.
func Start(w launch.Worker, done *board.Signal) func() {
	joined := make(chan struct{})
	go func() {
		defer close(joined)
		defer done.Set()
		w(done)
	}()
	return func() { <-joined }
}
