package request

// WsFrameRequest 实时通道上行帧
// 使用位置:
//   - internal/gateway/websocket/frame.go: handleFrame
type WsFrameRequest struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
