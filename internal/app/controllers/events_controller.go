package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Saewt/university-visitor-system/internal/pkg/events"
)

// EventsController serves the live event stream
type EventsController struct {
	hub *events.Hub
}

// NewEventsController creates a new EventsController
func NewEventsController(hub *events.Hub) *EventsController {
	return &EventsController{
		hub: hub,
	}
}

// Stream delivers registration events over server-sent events. The connection
// stays open until the client disconnects.
// @Summary Event stream
// @Description Streams registration change events as text/event-stream
// @Tags events
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {string} string "SSE stream"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /events/stream [get]
func (c *EventsController) Stream(ctx *gin.Context) {
	flusher, ok := ctx.Writer.(http.Flusher)
	if !ok {
		ctx.Status(http.StatusInternalServerError)
		return
	}

	listener := c.hub.Subscribe()
	defer c.hub.Unsubscribe(listener)

	header := ctx.Writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	ctx.Writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	done := ctx.Request.Context().Done()
	for {
		select {
		case <-done:
			return
		case message, open := <-listener.C:
			if !open {
				return
			}
			if _, err := ctx.Writer.Write([]byte("data: ")); err != nil {
				return
			}
			if _, err := ctx.Writer.Write(message); err != nil {
				return
			}
			if _, err := ctx.Writer.Write([]byte("\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
