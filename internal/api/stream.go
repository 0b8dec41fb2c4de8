package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portal-backend-go/internal/core"
	"portal-backend-go/internal/models"
)

// streamKeepAlive is how often an idle stream sends a ping event.
var streamKeepAlive = 25 * time.Second

type subscribeFunc func(ctx context.Context, fn func([]*models.Request)) *core.Subscription

// streamRequests relays subscription snapshots as Server-Sent Events until
// the client goes away or the watch fails. Each "requests" event carries the
// full ticket list.
//
// Snapshots arrive on the watch goroutine and are handed to this goroutine
// over a channel, since gin's ResponseWriter must only be written from the
// handler. The derived context is cancelled on return, which both stops the
// watch and unblocks a snapshot send that is still pending.
func streamRequests(c *gin.Context, logger *zap.Logger, subscribe subscribeFunc) {
	ctx, cancel := context.WithCancel(c.Request.Context())
	updates := make(chan []*models.Request, 8)
	sub := subscribe(ctx, func(reqs []*models.Request) {
		select {
		case updates <- reqs:
		case <-ctx.Done():
		}
	})
	defer func() {
		cancel()
		sub.Unsubscribe()
	}()

	// Standard SSE headers. X-Accel-Buffering disables response buffering in
	// nginx-style reverse proxies so events are delivered as they are written.
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush() // Commit the headers so the client sees the stream open.

	ping := time.NewTicker(streamKeepAlive)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			// Client disconnected or the server is shutting down.
			return
		case <-sub.Done():
			// The watch ended on its own. Tell the client before closing so a
			// retrying EventSource can distinguish this from a network drop.
			if err := sub.Err(); err != nil {
				logger.Error("Ticket stream ended", zap.Error(err))
				c.SSEvent("error", ErrorResponse{Error: "Live updates unavailable"})
				c.Writer.Flush()
			}
			return
		case reqs := <-updates:
			c.SSEvent("requests", reqs)
			c.Writer.Flush()
		case t := <-ping.C:
			c.SSEvent("ping", t.Unix())
			c.Writer.Flush()
		}
	}
}
