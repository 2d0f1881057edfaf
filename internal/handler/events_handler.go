package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
)

// StreamEvents 以 SSE 推送饮水与档案事件，客户端断开即退出。
func (a *API) StreamEvents(c *gin.Context) {
	events, cancel := a.bus.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			payload := gin.H{
				"type":      event.Type,
				"intake_ml": event.Intake,
				"at":        event.At.Format(time.RFC3339),
			}
			if event.Entry != nil {
				payload["entry"] = entryPayload(event.Entry)
			}
			c.SSEvent("message", payload)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
