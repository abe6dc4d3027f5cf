package service

import (
	"context"
	"testing"
	"time"

	"undercover-be/internal/service/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession_UniqueIDs(t *testing.T) {
	a := NewSession()
	b := NewSession()

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Empty(t, a.RoomID())
}

func TestDispatch_JoinBindsSession(t *testing.T) {
	rs := newTestService(t, time.Minute)
	sess := NewSession()

	require.NoError(t, rs.Dispatch(context.Background(), sess, joinRequest("R1", "Alice")))
	assert.Equal(t, "R1", sess.RoomID())

	select {
	case resp := <-sess.RespCh:
		assert.Equal(t, game.RESP_UPDATE_GAME, resp.RespType)
		snap := resp.Data.(game.Snapshot)
		require.Len(t, snap.Players, 1)
		assert.Equal(t, sess.ID, snap.Players[0].ID)
	case <-time.After(time.Second):
		t.Fatal("no update_game after join")
	}
}

func TestDispatch_ActionRequiresBoundRoom(t *testing.T) {
	rs := newTestService(t, time.Minute)
	sess := NewSession()

	start := game.WrapRequest(game.REQ_START_GAME, game.StartGameRequest{RoomID: "R1"})
	require.ErrorIs(t, rs.Dispatch(context.Background(), sess, start), ErrNotInRoom)

	require.NoError(t, rs.Dispatch(context.Background(), sess, joinRequest("R1", "Alice")))

	other := game.WrapRequest(game.REQ_START_GAME, game.StartGameRequest{RoomID: "R2"})
	require.ErrorIs(t, rs.Dispatch(context.Background(), sess, other), ErrNotInRoom)

	_, ok := rs.Lookup("R2")
	assert.False(t, ok)

	require.NoError(t, rs.Dispatch(context.Background(), sess, start))
}

func TestDispatch_MissingRoomID(t *testing.T) {
	rs := newTestService(t, time.Minute)
	sess := NewSession()

	err := rs.Dispatch(context.Background(), sess, game.RequestWrapper{
		ReqType: game.REQ_JOIN_ROOM,
		Data:    []byte(`{"player_name":"Alice"}`),
	})
	require.ErrorIs(t, err, game.ErrInvalidPayload)

	err = rs.Dispatch(context.Background(), sess, game.RequestWrapper{
		ReqType: game.REQ_JOIN_ROOM,
		Data:    []byte(`not json`),
	})
	require.ErrorIs(t, err, game.ErrInvalidPayload)

	assert.Empty(t, rs.Rooms())
}

func TestDispatch_InvalidJoinDoesNotCreateRoom(t *testing.T) {
	rs := newTestService(t, time.Minute)
	sess := NewSession()

	err := rs.Dispatch(context.Background(), sess, game.RequestWrapper{
		ReqType: game.REQ_JOIN_ROOM,
		Data:    []byte(`{"room_id":"R1","player_name":42}`),
	})
	require.ErrorIs(t, err, game.ErrInvalidPayload)

	assert.Empty(t, rs.Rooms())
	assert.Empty(t, sess.RoomID())
}

func TestDispatch_JoinAnotherRoomLeavesOld(t *testing.T) {
	rs := newTestService(t, time.Minute)
	sess := NewSession()

	require.NoError(t, rs.Dispatch(context.Background(), sess, joinRequest("R1", "Alice")))
	require.NoError(t, rs.Dispatch(context.Background(), sess, joinRequest("R2", "Alice")))

	assert.Equal(t, "R2", sess.RoomID())

	require.Eventually(t, func() bool {
		return playerCount(t, rs, "R1") == 0 && playerCount(t, rs, "R2") == 1
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		return rs.PendingDeletion("R1")
	}, time.Second, time.Millisecond)
}

func TestDispatch_JoinSameRoomTwiceIsIdempotent(t *testing.T) {
	rs := newTestService(t, time.Minute)
	sess := NewSession()

	require.NoError(t, rs.Dispatch(context.Background(), sess, joinRequest("R1", "Alice")))
	require.NoError(t, rs.Dispatch(context.Background(), sess, joinRequest("R1", "Alice")))

	require.Eventually(t, func() bool {
		summary, err := rs.Describe(context.Background(), "R1")
		return err == nil && summary.PlayerCount == 1
	}, time.Second, 5*time.Millisecond)

	assert.False(t, rs.PendingDeletion("R1"))
}

func TestDispatch_LeaveRoomUnbinds(t *testing.T) {
	rs := newTestService(t, time.Minute)
	sess := NewSession()

	require.NoError(t, rs.Dispatch(context.Background(), sess, joinRequest("R1", "Alice")))

	leave := game.WrapRequest(game.REQ_LEAVE_ROOM, game.LeaveRoomRequest{RoomID: "R1"})
	require.NoError(t, rs.Dispatch(context.Background(), sess, leave))

	assert.Empty(t, sess.RoomID())
	require.ErrorIs(t, rs.Dispatch(context.Background(), sess, leave), ErrNotInRoom)

	require.Eventually(t, func() bool {
		return playerCount(t, rs, "R1") == 0
	}, time.Second, 5*time.Millisecond)
}

func TestDisconnect(t *testing.T) {
	rs := newTestService(t, time.Minute)

	idle := NewSession()
	require.NoError(t, rs.Disconnect(context.Background(), idle))

	sess := NewSession()
	require.NoError(t, rs.Dispatch(context.Background(), sess, joinRequest("R1", "Alice")))
	require.NoError(t, rs.Disconnect(context.Background(), sess))

	assert.Empty(t, sess.RoomID())

	require.Eventually(t, func() bool {
		return playerCount(t, rs, "R1") == 0
	}, time.Second, 5*time.Millisecond)
}

func TestDisconnect_RoomAlreadyRemoved(t *testing.T) {
	rs := newTestService(t, time.Minute)
	sess := NewSession()

	require.NoError(t, rs.Dispatch(context.Background(), sess, joinRequest("R1", "Alice")))
	rs.Remove("R1")

	err := rs.Disconnect(context.Background(), sess)
	require.ErrorIs(t, err, game.ErrRoomClosed)
	assert.Empty(t, sess.RoomID())
}
