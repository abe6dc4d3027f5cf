package game

import (
	"errors"

	"undercover-be/internal/catalog"
)

// 所有被拒绝的操作都返回以下错误之一，调用方可以用 errors.Is 区分
var (
	ErrWrongPhase       = errors.New("当前阶段不支持该操作")
	ErrNotYourTurn      = errors.New("当前不是你的发言轮次")
	ErrPlayerNotFound   = errors.New("玩家不存在")
	ErrNotEnoughPlayers = errors.New("玩家数量不足")
	ErrUnknownSetting   = errors.New("未知的设置项")
	ErrUnknownRequest   = errors.New("未知的请求类型")
	ErrInvalidPayload   = errors.New("请求参数无效")
	ErrRoomClosed       = errors.New("房间已关闭")
	ErrRoomBusy         = errors.New("房间繁忙，请稍后再试")
	ErrEmptyCatalog     = catalog.ErrEmptyCatalog
)
