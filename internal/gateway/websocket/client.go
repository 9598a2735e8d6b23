package websocket

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"job_chat_server/internal/gateway/hub"
	"job_chat_server/internal/model"
)

// Client 一个已鉴权的实时连接
// send 只由 Deliver 写入，不会被关闭；done 关闭表示连接结束
type Client struct {
	id           string
	gateway      *Gateway
	conn         *websocket.Conn
	user         *model.UserInfo
	conversation *model.Conversation // 通知通道为 nil
	group        string
	channel      string

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(g *Gateway, conn *websocket.Conn, user *model.UserInfo, conversation *model.Conversation, group, channel string) *Client {
	return &Client{
		id:           uuid.NewString(),
		gateway:      g,
		conn:         conn,
		user:         user,
		conversation: conversation,
		group:        group,
		channel:      channel,
		send:         make(chan []byte, g.opts.SendBufferSize),
		done:         make(chan struct{}),
	}
}

func (c *Client) ConnID() string {
	return c.id
}

// Deliver 非阻塞入队，缓冲满时丢弃并返回 ErrSendBufferFull
func (c *Client) Deliver(payload []byte) error {
	select {
	case <-c.done:
		return hub.ErrMemberClosed
	default:
	}
	select {
	case c.send <- payload:
		return nil
	case <-c.done:
		return hub.ErrMemberClosed
	default:
		return hub.ErrSendBufferFull
	}
}

// reply 只回复给当前连接
func (c *Client) reply(event any) {
	payload, err := hub.Encode(event)
	if err != nil {
		zap.L().Error("encode reply failed", zap.String("conn_id", c.id), zap.Error(err))
		return
	}
	if err := c.Deliver(payload); err != nil {
		zap.L().Warn("reply dropped", zap.String("conn_id", c.id), zap.Error(err))
	}
}

// close 幂等；code 为 0 时只关闭底层连接
func (c *Client) close(code int, reason string) {
	c.closeOnce.Do(func() {
		close(c.done)
		if code != 0 {
			deadline := time.Now().Add(c.gateway.opts.WriteWait)
			_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
		}
		_ = c.conn.Close()
	})
}

// readLoop 逐帧读取并处理，返回时连接已关闭
// 处理帧时 panic 只断开当前连接，关闭码 4002
func (c *Client) readLoop(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("websocket frame handler panic",
				zap.String("conn_id", c.id),
				zap.Any("error", rec),
				zap.String("stack", string(debug.Stack())))
			c.close(CloseJoinFailed, "internal error")
			return
		}
		c.close(websocket.CloseNormalClosure, "")
	}()

	pongWait := c.gateway.opts.PongWait
	c.conn.SetReadLimit(c.gateway.opts.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				zap.L().Warn("websocket read error", zap.String("conn_id", c.id), zap.Error(err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}
		c.handleFrame(ctx, data)
	}
}

// writeLoop 连接唯一的写者；定时发送 ping 保活
func (c *Client) writeLoop() {
	opts := c.gateway.opts
	ticker := time.NewTicker(opts.PongWait * 9 / 10)
	defer func() {
		ticker.Stop()
		c.close(0, "")
	}()

	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				zap.L().Warn("websocket write error", zap.String("conn_id", c.id), zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(opts.WriteWait)); err != nil {
				zap.L().Debug("websocket ping failed", zap.String("conn_id", c.id), zap.Error(err))
				return
			}
		}
	}
}

var _ hub.Member = (*Client)(nil)
