package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"job_chat_server/internal/dto/request"
	"job_chat_server/internal/dto/respond"
	"job_chat_server/internal/gateway/hub"
	"job_chat_server/internal/infrastructure/metrics"
	"job_chat_server/pkg/constants"
	"job_chat_server/pkg/enum/ws/ws_event_enum"
	"job_chat_server/pkg/errorx"
)

// handleFrame 处理一个上行帧；任何错误都只回复 error 帧，不断开连接
func (c *Client) handleFrame(ctx context.Context, data []byte) {
	var frame request.WsFrameRequest
	if err := json.Unmarshal(data, &frame); err != nil {
		metrics.InboundFrames.WithLabelValues("invalid").Inc()
		c.replyError("invalid JSON format")
		return
	}
	if frame.Type == "" {
		frame.Type = ws_event_enum.ChatMessage
	}

	switch frame.Type {
	case ws_event_enum.Heartbeat:
		metrics.InboundFrames.WithLabelValues(frame.Type).Inc()
		c.reply(respond.HeartbeatResponseEvent{
			Type:      ws_event_enum.HeartbeatResponse,
			Timestamp: constants.FormatTime(time.Now()),
		})
	case ws_event_enum.ChatMessage:
		metrics.InboundFrames.WithLabelValues(frame.Type).Inc()
		c.handleChatMessage(ctx, frame.Message)
	case ws_event_enum.MarkRead:
		metrics.InboundFrames.WithLabelValues(frame.Type).Inc()
		c.handleMarkRead(ctx)
	default:
		metrics.InboundFrames.WithLabelValues("unknown").Inc()
		c.replyError("unknown message type: " + frame.Type)
	}
}

func (c *Client) handleChatMessage(ctx context.Context, body string) {
	if c.conversation == nil {
		c.replyError("chat_message requires a conversation channel")
		return
	}
	if strings.TrimSpace(body) == "" {
		c.replyError("message cannot be empty")
		return
	}
	message, err := c.gateway.messages.Append(ctx, c.conversation.ID, c.user.ID, body)
	if err != nil {
		zap.L().Warn("append message failed", zap.String("conn_id", c.id), zap.Error(err))
		c.replyError(errorText(err))
		return
	}
	hub.Notify(ctx, c.gateway.hub, c.group,
		respond.NewChatMessageEvent(message, c.conversation.ConversationKey, c.user.DisplayName()))
}

func (c *Client) handleMarkRead(ctx context.Context) {
	if c.conversation == nil {
		c.replyError("mark_read requires a conversation channel")
		return
	}
	marked, err := c.gateway.messages.MarkRead(ctx, c.conversation.ID, c.user.ID)
	if err != nil {
		zap.L().Warn("mark read failed", zap.String("conn_id", c.id), zap.Error(err))
		c.replyError(errorText(err))
		return
	}
	hub.Notify(ctx, c.gateway.hub, c.group, respond.MessagesReadEvent{
		Type:       ws_event_enum.MessagesRead,
		ReaderId:   c.user.ID,
		MarkedRead: marked,
	})
}

func (c *Client) replyError(msg string) {
	c.reply(respond.ErrorEvent{Type: ws_event_enum.Error, Message: msg})
}

const internalErrorText = "internal error, message not saved"

// errorText 按错误码给出固定的英文提示，内部错误不暴露细节
func errorText(err error) string {
	switch errorx.GetCode(err) {
	case errorx.CodeInvalidParam:
		return "invalid message"
	case errorx.CodeForbidden:
		return "not a participant of this conversation"
	case errorx.CodeNotFound:
		return "conversation not found"
	case errorx.CodeNoRecipient:
		return "conversation has no recipient"
	default:
		return internalErrorText
	}
}
