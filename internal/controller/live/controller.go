// Package live streams database change events to admin dashboards over
// Server-Sent Events.
package live

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"brainiax-backend/internal/events"
)

// heartbeatInterval is how often an idle stream emits a comment line so
// proxies do not reap the connection.
const heartbeatInterval = 25 * time.Second

// Controller handles the live event stream endpoint
type Controller struct {
	Feed *events.Feed
}

// NewController creates a new instance of the live Controller
func NewController(feed *events.Feed) *Controller {
	return &Controller{Feed: feed}
}

// Stream subscribes the caller to the change feed and relays events until
// the client disconnects or the feed shuts down.
// @Summary Live change event stream
// @Tags Admin
// @Produce text/event-stream
// @Param Authorization header string false "Insert your access token" default(Bearer <your access token>)
// @Param adminToken query string false "Access token for clients that cannot set headers"
// @Success 200 {string} string "SSE stream"
// @Failure 401 {object} utilities.MessageResponse "Invalid token"
// @Router /admin/events [get]
func (lc *Controller) Stream(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	sub := lc.Feed.Subscribe()
	defer sub.Close()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			if err := writeEvent(c.Writer, ev); err != nil {
				return
			}
		case <-heartbeat.C:
			if err := writeComment(c.Writer, "keep-alive"); err != nil {
				return
			}
		}
	}
}

// writeEvent emits one SSE frame and flushes it immediately.
func writeEvent(w gin.ResponseWriter, ev events.Event) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, ev.Payload); err != nil {
		return err
	}
	w.Flush()
	return nil
}

// writeComment emits an SSE comment line, which clients ignore.
func writeComment(w gin.ResponseWriter, text string) error {
	if _, err := fmt.Fprintf(w, ": %s\n\n", text); err != nil {
		return err
	}
	w.Flush()
	return nil
}
