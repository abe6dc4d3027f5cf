package service

import (
	"context"
	"errors"

	"undercover-be/internal/service/game"

	"go.uber.org/zap"
)

var ErrNotInRoom = errors.New("未加入该房间")

const RESP_CHANNEL_SIZE = 64

// Session 对应一条连接，同一时间最多绑定一个房间
// Session 只能由其连接的读协程使用
type Session struct {
	// 同时也是该连接在房间内的玩家 ID
	ID     string
	RespCh chan game.ResponseWrapper

	roomID  string
	machine *game.GameMachine
}

func NewSession() *Session {
	return &Session{
		ID:     game.GenID(),
		RespCh: make(chan game.ResponseWrapper, RESP_CHANNEL_SIZE),
	}
}

func (s *Session) RoomID() string {
	return s.roomID
}

func (s *Session) bind(roomID string, machine *game.GameMachine) {
	s.roomID = roomID
	s.machine = machine
}

func (s *Session) unbind() {
	s.roomID = ""
	s.machine = nil
}

// Dispatch 校验调用者的房间归属后把请求投递给对应房间
func (rs *RoomService) Dispatch(ctx context.Context, sess *Session, wrapper game.RequestWrapper) error {
	roomID, err := game.PeekRoomID(wrapper)
	if err != nil {
		return err
	}

	if wrapper.ReqType == game.REQ_JOIN_ROOM {
		return rs.join(ctx, sess, roomID, wrapper)
	}

	if sess.machine == nil || sess.roomID != roomID {
		return ErrNotInRoom
	}

	req := game.Request{
		PlayerID: sess.ID,
		RespCh:   sess.RespCh,
		Wrapper:  wrapper,
	}

	if wrapper.ReqType == game.REQ_LEAVE_ROOM {
		defer sess.unbind()
		return sess.machine.Send(ctx, req)
	}

	return sess.machine.TrySend(req)
}

func (rs *RoomService) join(ctx context.Context, sess *Session, roomID string, wrapper game.RequestWrapper) error {
	// 先校验参数，避免为无效请求创建空房间
	if game.TryUnwrapJoinRoomRequest(wrapper) == nil {
		return game.ErrInvalidPayload
	}

	if sess.machine != nil && sess.roomID != roomID {
		if err := rs.leave(ctx, sess); err != nil {
			zap.L().Warn(
				"离开旧房间失败",
				zap.String("player_id", sess.ID),
				zap.String("room_id", sess.roomID),
				zap.Error(err),
			)
		}
	}

	machine := rs.GetOrCreate(roomID)

	err := machine.Send(ctx, game.Request{
		PlayerID: sess.ID,
		RespCh:   sess.RespCh,
		Wrapper:  wrapper,
	})
	if err != nil {
		// 新建的房间可能因此一直为空，交给延迟删除确认
		rs.ScheduleDeletion(roomID, rs.opts.GracePeriod)
		return err
	}

	sess.bind(roomID, machine)

	return nil
}

// Disconnect 在连接断开时把玩家移出其所在房间
func (rs *RoomService) Disconnect(ctx context.Context, sess *Session) error {
	if sess.machine == nil {
		return nil
	}

	return rs.leave(ctx, sess)
}

func (rs *RoomService) leave(ctx context.Context, sess *Session) error {
	machine := sess.machine
	roomID := sess.roomID

	sess.unbind()

	return machine.Send(ctx, game.Request{
		PlayerID: sess.ID,
		RespCh:   sess.RespCh,
		Wrapper:  game.WrapRequest(game.REQ_LEAVE_ROOM, game.LeaveRoomRequest{RoomID: roomID}),
	})
}
