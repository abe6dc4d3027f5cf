package service

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"undercover-be/internal/catalog"
	"undercover-be/internal/service/dto"
	"undercover-be/internal/service/game"

	"go.uber.org/zap"
)

const DEFAULT_GRACE_PERIOD = 5 * time.Minute

var ErrRoomNotFound = errors.New("房间不存在")

type RoomServiceOptions struct {
	// 房间变空后等待多久再删除
	GracePeriod time.Duration
	Words       *catalog.Catalog
	// 为每个新房间创建随机源，为空时使用 game.NewRand
	NewRand func() game.Rand

	RejectResponses bool
	RedactSecrets   bool
}

// RoomService 是房间注册表，独占所有房间
type RoomService struct {
	opts  RoomServiceOptions
	state *roomServiceState
}

type roomServiceState struct {
	mu sync.Mutex

	rooms map[string]*roomEntry
}

type roomEntry struct {
	machine *game.GameMachine

	// 待执行的延迟删除，nil 表示没有
	deleteTimer *time.Timer
	// 每次安排或取消删除都会递增，过期的定时器据此放弃删除
	generation uint64
}

func NewRoomService(opts RoomServiceOptions) *RoomService {
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = DEFAULT_GRACE_PERIOD
	}

	if opts.Words == nil {
		opts.Words = catalog.Default()
	}

	if opts.NewRand == nil {
		opts.NewRand = game.NewRand
	}

	return &RoomService{
		opts: opts,
		state: &roomServiceState{
			rooms: make(map[string]*roomEntry),
		},
	}
}

// GetOrCreate 返回房间的状态机，不存在时以默认设置创建，并取消待执行的删除
func (rs *RoomService) GetOrCreate(roomID string) *game.GameMachine {
	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	if entry, ok := rs.state.rooms[roomID]; ok {
		rs.cancelDeletionLocked(roomID, entry)
		return entry.machine
	}

	room := game.NewRoom(roomID, rs.opts.Words, rs.opts.NewRand())

	machine := game.NewGameMachine(room, game.MachineOptions{
		RejectResponses:  rs.opts.RejectResponses,
		RedactSecrets:    rs.opts.RedactSecrets,
		OnMembersChanged: rs.onMembersChanged,
	})

	rs.state.rooms[roomID] = &roomEntry{machine: machine}

	go machine.Start()

	zap.L().Info("房间已创建", zap.String("room_id", roomID))

	return machine
}

// RejectResponses 报告被拒绝的操作是否需要回复错误响应，会话层与房间协程共用同一个开关
func (rs *RoomService) RejectResponses() bool {
	return rs.opts.RejectResponses
}

func (rs *RoomService) Lookup(roomID string) (*game.GameMachine, bool) {
	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	entry, ok := rs.state.rooms[roomID]
	if !ok {
		return nil, false
	}

	return entry.machine, true
}

// Remove 立即删除房间并停止其协程
func (rs *RoomService) Remove(roomID string) {
	rs.state.mu.Lock()

	entry, ok := rs.state.rooms[roomID]
	if !ok {
		rs.state.mu.Unlock()
		return
	}

	if entry.deleteTimer != nil {
		entry.deleteTimer.Stop()
	}

	delete(rs.state.rooms, roomID)

	rs.state.mu.Unlock()

	entry.machine.Stop()

	zap.L().Info("房间已删除", zap.String("room_id", roomID))
}

func (rs *RoomService) ScheduleDeletion(roomID string, delay time.Duration) {
	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	entry, ok := rs.state.rooms[roomID]
	if !ok {
		return
	}

	if entry.deleteTimer != nil {
		entry.deleteTimer.Stop()
	}

	entry.generation++
	generation := entry.generation

	entry.deleteTimer = time.AfterFunc(delay, func() {
		rs.expire(roomID, generation)
	})

	zap.L().Info(
		"房间已空，安排延迟删除",
		zap.String("room_id", roomID),
		zap.Duration("delay", delay),
	)
}

func (rs *RoomService) CancelDeletion(roomID string) {
	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	if entry, ok := rs.state.rooms[roomID]; ok {
		rs.cancelDeletionLocked(roomID, entry)
	}
}

func (rs *RoomService) cancelDeletionLocked(roomID string, entry *roomEntry) {
	// 即使定时器已经触发也要递增，让正在进行的删除失效
	entry.generation++

	if entry.deleteTimer == nil {
		return
	}

	entry.deleteTimer.Stop()
	entry.deleteTimer = nil

	zap.L().Info("取消房间的延迟删除", zap.String("room_id", roomID))
}

// PendingDeletion 报告房间是否有待执行的删除
func (rs *RoomService) PendingDeletion(roomID string) bool {
	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	entry, ok := rs.state.rooms[roomID]
	return ok && entry.deleteTimer != nil
}

func (rs *RoomService) onMembersChanged(roomID string, count int) {
	if count == 0 {
		rs.ScheduleDeletion(roomID, rs.opts.GracePeriod)
	}
}

// 定时器触发后先让房间协程确认房间仍然为空，再真正删除
func (rs *RoomService) expire(roomID string, generation uint64) {
	rs.state.mu.Lock()

	entry, ok := rs.state.rooms[roomID]
	if !ok || entry.generation != generation {
		rs.state.mu.Unlock()
		return
	}

	machine := entry.machine

	rs.state.mu.Unlock()

	machine.Reap(func(empty bool) {
		if empty {
			rs.finalizeDeletion(roomID, generation)
		}
	})
}

func (rs *RoomService) finalizeDeletion(roomID string, generation uint64) {
	rs.state.mu.Lock()

	entry, ok := rs.state.rooms[roomID]
	if !ok || entry.generation != generation {
		rs.state.mu.Unlock()
		return
	}

	delete(rs.state.rooms, roomID)

	rs.state.mu.Unlock()

	entry.machine.Stop()

	zap.L().Info("房间空置超时，已删除", zap.String("room_id", roomID))
}

// Rooms 返回当前所有房间 ID，按字典序排列
func (rs *RoomService) Rooms() []string {
	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	ids := make([]string, 0, len(rs.state.rooms))
	for id := range rs.state.rooms {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

func (rs *RoomService) Describe(ctx context.Context, roomID string) (dto.RoomSummary, error) {
	machine, ok := rs.Lookup(roomID)
	if !ok {
		return dto.RoomSummary{}, ErrRoomNotFound
	}

	snap, err := machine.Snapshot(ctx)
	if err != nil {
		return dto.RoomSummary{}, err
	}

	names := make([]string, 0, len(snap.Players))
	for _, p := range snap.Players {
		names = append(names, p.Name)
	}

	return dto.RoomSummary{
		ID:          snap.ID,
		Phase:       snap.Phase.String(),
		PlayerCount: len(snap.Players),
		PlayerNames: names,
		CreatedAt:   machine.CreatedAt(),
	}, nil
}

func (rs *RoomService) Close() {
	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	for roomID, entry := range rs.state.rooms {
		if entry.deleteTimer != nil {
			entry.deleteTimer.Stop()
		}

		entry.machine.Stop()

		delete(rs.state.rooms, roomID)
	}
}
