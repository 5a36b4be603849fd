package convert_tools

import (
	"context"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// progressInterval is the pause between periodic progress notifications sent
// while a conversion is running.
const progressInterval = time.Second

// progressNotifier sends one progress notification carrying a counter value.
type progressNotifier func(progress int)

// notifierFromRequest builds a notifier bound to the request's progress
// token. It returns nil when the client did not send a token or the call did
// not arrive through an MCP session, in which case no notifications are sent.
func notifierFromRequest(ctx context.Context, request mcp.CallToolRequest) progressNotifier {
	meta := request.Params.Meta
	if meta == nil || meta.ProgressToken == nil {
		return nil
	}

	srv := mcpserver.ServerFromContext(ctx)
	if srv == nil {
		return nil
	}

	token := meta.ProgressToken
	return func(progress int) {
		// Best effort: a failed notification never fails the conversion.
		_ = srv.SendNotificationToClient(ctx, "notifications/progress", map[string]any{
			"progressToken": token,
			"progress":      progress,
		})
	}
}

// watchProgress sends an immediate notification and then one per interval so
// clients see activity during slow Drive exports instead of timing out. The
// returned stop function ends the stream and waits for the sender goroutine;
// it is safe to call more than once. A nil notifier yields a no-op stop.
func watchProgress(ctx context.Context, notify progressNotifier, interval time.Duration) (stop func()) {
	if notify == nil {
		return func() {}
	}

	notify(0)

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		count := 1
		for {
			select {
			case <-ticker.C:
				notify(count)
				count++
			case <-ctx.Done():
				return
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			<-finished
		})
	}
}
