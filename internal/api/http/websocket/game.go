package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"undercover-be/internal/service"
	"undercover-be/internal/service/game"
	"undercover-be/internal/state"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// JoinGame 处理一条客户端连接：连接即会话，会话 ID 即玩家 ID
func JoinGame(appState *state.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			zap.L().Error("升级到WebSocket失败", zap.Error(err))
			return
		}

		defer conn.Close()

		conn.SetReadLimit(MAX_MESSAGE_SIZE)
		conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
		conn.SetPongHandler(heartbeatHandler(conn))

		clientIP := r.RemoteAddr
		sess := service.NewSession()

		limiter := rate.NewLimiter(
			rate.Limit(appState.Cfg.ActionRate),
			appState.Cfg.ActionBurst,
		)

		sess.RespCh <- game.WrapResponse(
			game.RESP_WELCOME,
			game.WelcomeResponse{PlayerID: sess.ID},
		)

		zap.L().Info(
			"客户端已连接",
			zap.String("client_ip", clientIP),
			zap.String("player_id", sess.ID),
		)

		// 写协程的退出信号
		writeDoneCh := make(chan struct{})
		writerExitedCh := make(chan struct{})

		go writeLoop(conn, sess.RespCh, writeDoneCh, writerExitedCh, clientIP)

		// 读取协程（主协程）
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(
					err,
					websocket.CloseGoingAway,
					websocket.CloseNormalClosure,
				) {
					zap.L().Warn(
						"读取消息失败",
						zap.String("client_ip", clientIP),
						zap.Error(err),
					)
				}

				break
			}

			if !limiter.Allow() {
				zap.L().Debug(
					"操作过于频繁，丢弃请求",
					zap.String("player_id", sess.ID),
				)
				continue
			}

			var wrapper game.RequestWrapper

			if err := json.Unmarshal(msg, &wrapper); err != nil {
				zap.L().Debug(
					"解析消息失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)
				reject(appState, sess, game.ErrInvalidPayload)
				continue
			}

			if err := appState.RoomSvc.Dispatch(r.Context(), sess, wrapper); err != nil {
				zap.L().Debug(
					"请求未被投递",
					zap.String("player_id", sess.ID),
					zap.String("request_type", wrapper.ReqType),
					zap.Error(err),
				)
				reject(appState, sess, err)
			}
		}

		// 读循环退出，表示客户端断开连接
		leaveCtx, cancel := context.WithTimeout(context.Background(), LEAVE_TIMEOUT)
		if err := appState.RoomSvc.Disconnect(leaveCtx, sess); err != nil && !errors.Is(err, game.ErrRoomClosed) {
			zap.L().Warn(
				"断开连接时离开房间失败",
				zap.String("player_id", sess.ID),
				zap.Error(err),
			)
		}
		cancel()

		close(writeDoneCh)
		<-writerExitedCh

		zap.L().Info(
			"WebSocket连接处理完成",
			zap.String("client_ip", clientIP),
			zap.String("player_id", sess.ID),
		)
	}
}

func writeLoop(
	conn *websocket.Conn,
	respCh <-chan game.ResponseWrapper,
	doneCh <-chan struct{},
	exitedCh chan<- struct{},
	clientIP string,
) {
	defer close(exitedCh)

	ticker := time.NewTicker(HEARTBEAT_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case <-doneCh:
			return

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))

			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				zap.L().Debug(
					"发送心跳失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)
				return
			}

		case resp := <-respCh:
			conn.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))

			if err := conn.WriteJSON(resp); err != nil {
				zap.L().Debug(
					"发送消息失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)
				return
			}
		}
	}
}

// 会话层面的拒绝（未加入房间、参数错误、房间繁忙）与房间内的拒绝一样默认静默
func reject(appState *state.AppState, sess *service.Session, err error) {
	if !appState.RoomSvc.RejectResponses() {
		return
	}

	select {
	case sess.RespCh <- game.WrapErrResponse(err.Error()):
	default:
	}
}
