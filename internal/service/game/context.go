package game

import (
	"go.uber.org/zap"
)

// GameContext 是 GameMachine 协程独占的房间上下文
type GameContext struct {
	RoomID string
	Room   *Room

	// 玩家 ID 到其响应通道的映射，只有房间成员才会收到广播
	Members map[string]chan<- ResponseWrapper

	// 为 true 时每个玩家只能看到自己的身份和词语
	RedactSecrets bool
}

func NewGameContext(room *Room, redact bool) *GameContext {
	return &GameContext{
		RoomID:        room.ID(),
		Room:          room,
		Members:       make(map[string]chan<- ResponseWrapper),
		RedactSecrets: redact,
	}
}

// BroadcastState 向所有成员推送完整的房间状态，不等待发送完成
func (gc *GameContext) BroadcastState() {
	snap := gc.Room.Snapshot()

	for playerID, ch := range gc.Members {
		data := snap
		if gc.RedactSecrets {
			data = snap.ViewFor(playerID)
		}

		select {
		case ch <- WrapResponse(RESP_UPDATE_GAME, data):
		default:
			zap.L().Warn(
				"发送广播响应失败：玩家响应通道已满",
				zap.String("room_id", gc.RoomID),
				zap.String("player_id", playerID),
			)
		}
	}
}

func (gc *GameContext) UnicastResp(ch chan<- ResponseWrapper, resp ResponseWrapper) {
	if ch == nil {
		return
	}

	select {
	case ch <- resp:
	default:
		zap.L().Warn(
			"发送单播响应失败：玩家响应通道已满",
			zap.String("room_id", gc.RoomID),
		)
	}
}
