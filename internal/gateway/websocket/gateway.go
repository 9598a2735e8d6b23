// Package websocket 实时网关：鉴权、加入分组、按顺序处理上行帧
// 每个连接一个读协程一个写协程；读协程逐帧处理，写协程是唯一写者
package websocket

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"job_chat_server/internal/config"
	"job_chat_server/internal/dto/respond"
	"job_chat_server/internal/gateway/hub"
	"job_chat_server/internal/infrastructure/metrics"
	"job_chat_server/internal/model"
	"job_chat_server/pkg/constants"
	"job_chat_server/pkg/enum/ws/ws_event_enum"
	"job_chat_server/pkg/errorx"
	"job_chat_server/pkg/util/convkey"
	"job_chat_server/pkg/util/jwt"
)

// 握手阶段的关闭码
const (
	CloseUnauthenticated        = 4001
	CloseJoinFailed             = 4002
	CloseNotParticipant         = 4003
	CloseConversationNotFound   = 4004
	channelNotification         = "notification"
	channelConversation         = "conversation"
	connectionEstablishedNotice = "Connected to chat"
)

// UserLookup 当前用户
type UserLookup interface {
	Current(ctx context.Context, userID uint) (*model.UserInfo, error)
}

// ConversationLookup 按标识查找会话并校验参与者
type ConversationLookup interface {
	Lookup(ctx context.Context, userID uint, identifier string) (*model.Conversation, error)
}

// MessageStore 连接上用到的消息操作
type MessageStore interface {
	Append(ctx context.Context, conversationID, senderID uint, body string) (*model.Message, error)
	MarkRead(ctx context.Context, conversationID, readerID uint) (int64, error)
}

// Options 连接参数
type Options struct {
	SendBufferSize int
	ReadLimit      int64
	PongWait       time.Duration
	WriteWait      time.Duration
}

// OptionsFromConfig 由配置生成连接参数
func OptionsFromConfig(cfg config.ChatConfig) Options {
	return Options{
		SendBufferSize: cfg.SendBufferSize,
		ReadLimit:      cfg.ReadLimit,
		PongWait:       time.Duration(cfg.PongWait) * time.Second,
		WriteWait:      time.Duration(cfg.WriteWait) * time.Second,
	}
}

func (o Options) withDefaults() Options {
	if o.SendBufferSize <= 0 {
		o.SendBufferSize = constants.CHANNEL_SIZE
	}
	if o.ReadLimit <= 0 {
		o.ReadLimit = constants.WS_READ_LIMIT
	}
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 10 * time.Second
	}
	return o
}

// Gateway 实时网关
type Gateway struct {
	users         UserLookup
	conversations ConversationLookup
	messages      MessageStore
	hub           hub.GroupHub
	opts          Options
	upgrader      websocket.Upgrader
}

// NewGateway 创建网关
func NewGateway(users UserLookup, conversations ConversationLookup, messages MessageStore, h hub.GroupHub, opts Options) *Gateway {
	return &Gateway{
		users:         users,
		conversations: conversations,
		messages:      messages,
		hub:           h,
		opts:          opts.withDefaults(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  2048,
			WriteBufferSize: 2048,
			// 前后端分离部署，跨域由 CORS 中间件和令牌共同把关
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Serve 处理一次实时连接
// 路径参数 conversation_id 为空时连接个人通知通道，否则连接会话通道
// 令牌放在查询参数 token 中；握手失败时先完成升级再用关闭码告知原因
func (g *Gateway) Serve(c *gin.Context) {
	ws, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	ref := c.Param("conversation_id")
	token := c.Query("token")

	ctx, cancel := context.WithCancel(context.Background())
	client, code, reason := g.handshake(ctx, ws, token, ref)
	if client == nil {
		cancel()
		g.reject(ws, code, reason)
		return
	}

	g.hub.Join(client.group, client)
	metrics.ActiveConnections.WithLabelValues(client.channel).Inc()
	zap.L().Info("websocket connected",
		zap.String("conn_id", client.id),
		zap.Uint("user_id", client.user.ID),
		zap.String("group", client.group))

	if client.conversation != nil {
		if _, err := g.messages.MarkRead(ctx, client.conversation.ID, client.user.ID); err != nil {
			zap.L().Warn("mark read on connect failed", zap.String("conn_id", client.id), zap.Error(err))
		}
	}

	established := respond.ConnectionEstablishedEvent{
		Type:      ws_event_enum.ConnectionEstablished,
		Message:   connectionEstablishedNotice,
		UserId:    client.user.ID,
		Timestamp: constants.FormatTime(time.Now()),
	}
	if client.conversation != nil {
		established.ConversationId = client.conversation.ConversationKey
	}
	client.reply(established)

	go client.writeLoop()
	go func() {
		defer cancel()
		defer func() {
			g.hub.Leave(client.group, client)
			metrics.ActiveConnections.WithLabelValues(client.channel).Dec()
			zap.L().Info("websocket disconnected", zap.String("conn_id", client.id), zap.Uint("user_id", client.user.ID))
		}()
		client.readLoop(ctx)
	}()
}

// handshake 鉴权并确定分组，失败时返回关闭码和原因
func (g *Gateway) handshake(ctx context.Context, ws *websocket.Conn, token, ref string) (*Client, int, string) {
	claims, err := jwt.ParseAccessToken(token)
	if err != nil {
		return nil, CloseUnauthenticated, "authentication required"
	}
	user, err := g.users.Current(ctx, claims.UserID)
	if err != nil {
		if errorx.Is(err, errorx.CodeUnauthorized) {
			return nil, CloseUnauthenticated, "authentication required"
		}
		zap.L().Error("load user on connect failed", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return nil, CloseJoinFailed, "internal error"
	}

	if ref == "" {
		return newClient(g, ws, user, nil, convkey.NotificationGroup(user.ID), channelNotification), 0, ""
	}

	conversation, err := g.conversations.Lookup(ctx, user.ID, ref)
	switch {
	case err == nil:
		return newClient(g, ws, user, conversation, convkey.ConversationGroup(conversation.ConversationKey), channelConversation), 0, ""
	case errorx.IsNotFound(err):
		return nil, CloseConversationNotFound, "conversation not found"
	case errorx.Is(err, errorx.CodeForbidden):
		return nil, CloseNotParticipant, "not a participant"
	default:
		zap.L().Error("lookup conversation on connect failed", zap.String("ref", ref), zap.Error(err))
		return nil, CloseJoinFailed, "internal error"
	}
}

func (g *Gateway) reject(ws *websocket.Conn, code int, reason string) {
	metrics.ConnectionRejects.WithLabelValues(closeCodeLabel(code)).Inc()
	deadline := time.Now().Add(g.opts.WriteWait)
	if err := ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline); err != nil {
		zap.L().Debug("write close frame failed", zap.Error(err))
	}
	_ = ws.Close()
}

func closeCodeLabel(code int) string {
	switch code {
	case CloseUnauthenticated:
		return "4001"
	case CloseJoinFailed:
		return "4002"
	case CloseNotParticipant:
		return "4003"
	case CloseConversationNotFound:
		return "4004"
	default:
		return "other"
	}
}
