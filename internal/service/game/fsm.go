package game

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const REQ_CHANNEL_SIZE = 64

// Request 是投递到房间协程的一次操作
type Request struct {
	PlayerID string
	RespCh   chan<- ResponseWrapper
	Wrapper  RequestWrapper

	// 可选，房间协程处理完毕后写入结果，必须带缓冲
	Result chan<- error
}

type MachineOptions struct {
	// 为 true 时被拒绝的操作会向调用者单播错误响应，否则静默丢弃
	RejectResponses bool
	RedactSecrets   bool

	// 房间成员数量变化后在房间协程内回调
	OnMembersChanged func(roomID string, count int)
}

// GameMachine 是单个房间的事件循环，房间状态只在该协程内读写
type GameMachine struct {
	ctx  *GameContext
	opts MachineOptions

	// 这是所有的用户的请求汇总的通道
	reqCh   chan Request
	queryCh chan chan Snapshot
	reapCh  chan func(empty bool)
	// 结束通道，用于通知游戏状态机退出事件循环
	doneCh   chan struct{}
	stopOnce sync.Once

	createdAt time.Time
}

func NewGameMachine(room *Room, opts MachineOptions) *GameMachine {
	return &GameMachine{
		ctx:       NewGameContext(room, opts.RedactSecrets),
		opts:      opts,
		reqCh:     make(chan Request, REQ_CHANNEL_SIZE),
		queryCh:   make(chan chan Snapshot),
		reapCh:    make(chan func(bool), 1),
		doneCh:    make(chan struct{}),
		createdAt: time.Now(),
	}
}

func (gm *GameMachine) RoomID() string {
	return gm.ctx.RoomID
}

func (gm *GameMachine) Start() {
	zap.L().Debug("房间协程启动", zap.String("room_id", gm.ctx.RoomID))

	for {
		select {
		case req := <-gm.reqCh:
			gm.handle(req)

		case reply := <-gm.queryCh:
			reply <- gm.ctx.Room.Snapshot()

		case cb := <-gm.reapCh:
			// 先处理已排队的请求，避免把刚加入的玩家当成空房间
			for len(gm.reqCh) > 0 {
				gm.handle(<-gm.reqCh)
			}
			cb(gm.ctx.Room.PlayerCount() == 0)

		case <-gm.doneCh:
			zap.L().Info(
				"收到退出信号，结束游戏状态机",
				zap.String("room_id", gm.ctx.RoomID),
			)
			return
		}
	}
}

// Stop 可以重复调用
func (gm *GameMachine) Stop() {
	gm.stopOnce.Do(func() {
		close(gm.doneCh)
	})
}

// Send 阻塞投递请求，直到被接收、房间关闭或 ctx 结束
func (gm *GameMachine) Send(ctx context.Context, req Request) error {
	select {
	case <-gm.doneCh:
		return ErrRoomClosed
	default:
	}

	select {
	case gm.reqCh <- req:
		return nil
	case <-gm.doneCh:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TrySend 在请求通道已满时直接返回 ErrRoomBusy
func (gm *GameMachine) TrySend(req Request) error {
	select {
	case <-gm.doneCh:
		return ErrRoomClosed
	default:
	}

	select {
	case gm.reqCh <- req:
		return nil
	default:
		return ErrRoomBusy
	}
}

// Snapshot 在房间协程内读取一次状态快照
func (gm *GameMachine) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)

	select {
	case gm.queryCh <- reply:
	case <-gm.doneCh:
		return Snapshot{}, ErrRoomClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}

	select {
	case snap := <-reply:
		return snap, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Reap 请求房间协程在处理完已排队的请求后报告房间是否为空
func (gm *GameMachine) Reap(cb func(empty bool)) {
	select {
	case gm.reapCh <- cb:
	case <-gm.doneCh:
	}
}

func (gm *GameMachine) handle(req Request) {
	before := gm.ctx.Room.PlayerCount()

	err := gm.apply(req)

	if req.Result != nil {
		req.Result <- err
	}

	if err != nil {
		zap.L().Debug(
			"处理请求失败",
			zap.String("room_id", gm.ctx.RoomID),
			zap.String("player_id", req.PlayerID),
			zap.String("request_type", req.Wrapper.ReqType),
			zap.String("phase", gm.ctx.Room.Phase().String()),
			zap.Error(err),
		)

		if gm.opts.RejectResponses {
			gm.ctx.UnicastResp(req.RespCh, WrapErrResponse(err.Error()))
		}

		return
	}

	gm.ctx.BroadcastState()

	if after := gm.ctx.Room.PlayerCount(); after != before && gm.opts.OnMembersChanged != nil {
		gm.opts.OnMembersChanged(gm.ctx.RoomID, after)
	}
}

func (gm *GameMachine) apply(req Request) error {
	room := gm.ctx.Room
	wrapper := req.Wrapper

	switch wrapper.ReqType {
	case REQ_JOIN_ROOM:
		r := TryUnwrapJoinRoomRequest(wrapper)
		if r == nil {
			return ErrInvalidPayload
		}

		if err := room.Join(req.PlayerID, r.PlayerName); err != nil {
			return err
		}

		if req.RespCh != nil {
			gm.ctx.Members[req.PlayerID] = req.RespCh
		}

		zap.L().Info(
			"玩家加入房间",
			zap.String("room_id", gm.ctx.RoomID),
			zap.String("player_id", req.PlayerID),
			zap.String("player_name", r.PlayerName),
		)

		return nil

	case REQ_CHANGE_SETTINGS:
		r := TryUnwrapChangeSettingsRequest(wrapper)
		if r == nil {
			return ErrInvalidPayload
		}

		return room.ChangeSettings(r.Setting, r.Delta)

	case REQ_START_GAME:
		if TryUnwrapStartGameRequest(wrapper) == nil {
			return ErrInvalidPayload
		}

		return room.Start()

	case REQ_SEND_DESCRIPTION:
		r := TryUnwrapSendDescriptionRequest(wrapper)
		if r == nil || len(r.Text) > MAX_TEXT_LENGTH {
			return ErrInvalidPayload
		}

		return room.SubmitDescription(req.PlayerID, r.Text)

	case REQ_VOTE_PLAYER:
		r := TryUnwrapVotePlayerRequest(wrapper)
		if r == nil {
			return ErrInvalidPayload
		}

		return room.CastVote(req.PlayerID, r.TargetID)

	case REQ_MR_WHITE_GUESS:
		r := TryUnwrapMrWhiteGuessRequest(wrapper)
		if r == nil || len(r.Guess) > MAX_TEXT_LENGTH {
			return ErrInvalidPayload
		}

		return room.GuessWord(req.PlayerID, r.Guess)

	case REQ_LEAVE_ROOM:
		if TryUnwrapLeaveRoomRequest(wrapper) == nil {
			return ErrInvalidPayload
		}

		if err := room.Leave(req.PlayerID); err != nil {
			return err
		}

		delete(gm.ctx.Members, req.PlayerID)

		zap.L().Info(
			"玩家离开房间",
			zap.String("room_id", gm.ctx.RoomID),
			zap.String("player_id", req.PlayerID),
			zap.Int("remaining", room.PlayerCount()),
		)

		return nil
	}

	return ErrUnknownRequest
}

func (gm *GameMachine) CreatedAt() time.Time {
	return gm.createdAt
}
