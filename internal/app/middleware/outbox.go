package middleware

import (
	"context"
	"fmt"

	"roomdesk/internal/app/commands"
	"roomdesk/internal/app/outbox"
)

// OutboxFlush nudges the outbox after a command succeeds so that recorded
// events are published without waiting for the next poll. Failed commands
// leave the outbox alone.
func OutboxFlush(box outbox.Outbox) CommandMiddleware {
	if box == nil {
		panic("middleware: OutboxFlush needs an outbox")
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := box.Flush(ctx); err != nil {
				return nil, fmt.Errorf("flush outbox after %s: %w", cmd.Key(), err)
			}
			return res, nil
		})
	}
}
