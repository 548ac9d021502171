package api

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ispeaker/backend/domain"
	"ispeaker/backend/repository/events"
)

const (
	sseClientBuffer   = 256
	sseHeartbeatEvery = 15 * time.Second
)

type sseMessage struct {
	name string
	data any
}

type moveProgressPayload struct {
	OperationID string `json:"operationId"`
	domain.ProgressEvent
}

type venvStatusPayload struct {
	OperationID string `json:"operationId"`
	domain.VenvStatusEvent
}

func toSSE(ev events.Event) (sseMessage, bool) {
	switch e := ev.(type) {
	case events.MoveProgressEvent:
		return sseMessage{name: string(e.Type()), data: moveProgressPayload{OperationID: e.OperationID, ProgressEvent: e.Progress}}, true
	case events.VenvStatusEvent:
		return sseMessage{name: string(e.Type()), data: venvStatusPayload{OperationID: e.OperationID, VenvStatusEvent: e.Status}}, true
	case events.SettingsEvent:
		return sseMessage{name: string(e.Type()), data: gin.H{}}, true
	default:
		return sseMessage{}, false
	}
}

// streamEvents 以 SSE 推送迁移进度与设置变更；每个客户端独立订阅
func (r *Router) streamEvents(c *gin.Context) {
	queue := make(chan sseMessage, sseClientBuffer)
	id, unsubscribe := r.service.SubscribeEvents(func(ev events.Event) {
		msg, ok := toSSE(ev)
		if !ok {
			return
		}
		select {
		case queue <- msg:
		default:
			r.logger.Warn().Str("event", msg.name).Msg("sse client queue full, dropping event")
		}
	})
	defer unsubscribe()

	logger := r.logger.With().Str("client", string(id)).Logger()
	logger.Debug().Msg("sse client connected")
	defer logger.Debug().Msg("sse client disconnected")

	// 先写出响应头，客户端无需等待第一个事件
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	_, _ = io.WriteString(c.Writer, ": connected\n\n")
	c.Writer.Flush()

	heartbeat := time.NewTicker(sseHeartbeatEvery)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-heartbeat.C:
			_, err := io.WriteString(w, ": ping\n\n")
			return err == nil
		case msg := <-queue:
			c.SSEvent(msg.name, msg.data)
			return true
		}
	})
}
