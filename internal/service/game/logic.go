package game

import (
	"fmt"
	"strings"

	"undercover-be/internal/catalog"

	"go.uber.org/zap"
)

// Room 保存单个房间的全部对局状态
// Room 本身不加锁，所有修改必须由房间所属的 GameMachine 协程串行执行
type Room struct {
	id        string
	players   []*Player
	phase     Phase
	wordPair  *catalog.WordPair
	turnIndex int
	winner    *Result
	settings  Settings

	// 本房间用过的词组下标，全部用完后清空重来
	usedWordIndices map[int]struct{}

	words *catalog.Catalog
	rng   Rand
}

func NewRoom(id string, words *catalog.Catalog, rng Rand) *Room {
	if rng == nil {
		rng = NewRand()
	}

	return &Room{
		id:              id,
		players:         make([]*Player, 0, 8),
		phase:           PHASE_LOBBY,
		settings:        DefaultSettings(),
		usedWordIndices: make(map[int]struct{}),
		words:           words,
		rng:             rng,
	}
}

func (r *Room) ID() string {
	return r.id
}

func (r *Room) Phase() Phase {
	return r.phase
}

func (r *Room) PlayerCount() int {
	return len(r.players)
}

func (r *Room) HasPlayer(playerID string) bool {
	return r.indexOf(playerID) >= 0
}

// Join 将玩家加入房间；已在房间内的玩家重复加入不会改变任何数据
func (r *Room) Join(playerID, name string) error {
	if r.HasPlayer(playerID) {
		return nil
	}

	r.players = append(r.players, &Player{
		ID:      playerID,
		Name:    name,
		Role:    ROLE_UNASSIGNED,
		IsAlive: true,
	})

	return nil
}

// ChangeSettings 只在大厅阶段有效，数值最小为 0，上限留给 Start 校验
func (r *Room) ChangeSettings(setting string, delta int) error {
	if r.phase != PHASE_LOBBY {
		return ErrWrongPhase
	}

	var target *int

	switch setting {
	case SETTING_MR_WHITE_COUNT:
		target = &r.settings.MrWhiteCount
	case SETTING_UNDERCOVER_COUNT:
		target = &r.settings.UndercoverCount
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSetting, setting)
	}

	*target = max(0, *target+delta)

	return nil
}

// Start 开始新的一局，大厅和结束阶段都可以调用（结束阶段即再来一局）
func (r *Room) Start() error {
	if r.phase != PHASE_LOBBY && r.phase != PHASE_GAME_OVER {
		return ErrWrongPhase
	}

	total := len(r.players)
	if total < MIN_PLAYERS {
		return ErrNotEnoughPlayers
	}

	if r.words == nil || r.words.Len() == 0 {
		return ErrEmptyCatalog
	}

	mrWhiteCount, undercoverCount := resolveRoleCounts(r.settings, total)

	roles := make([]Role, 0, total)
	for range mrWhiteCount {
		roles = append(roles, ROLE_MR_WHITE)
	}
	for range undercoverCount {
		roles = append(roles, ROLE_UNDERCOVER)
	}
	for len(roles) < total {
		roles = append(roles, ROLE_CIVILIAN)
	}

	r.rng.Shuffle(len(roles), func(i, j int) {
		roles[i], roles[j] = roles[j], roles[i]
	})

	pair := r.pickWordPair()
	r.wordPair = &pair

	for i, p := range r.players {
		p.Role = roles[i]
		p.Word = wordFor(p.Role, pair)
		p.IsAlive = true
		p.VotesReceived = 0
		p.Description = ""
	}

	r.rng.Shuffle(len(r.players), func(i, j int) {
		r.players[i], r.players[j] = r.players[j], r.players[i]
	})

	// 白板不能第一个发言，把开头连续的白板依次挪到末尾
	// 白板数量总是小于玩家数量，循环一定会结束
	for r.players[0].Role == ROLE_MR_WHITE {
		first := r.players[0]
		r.players = append(r.players[1:], first)
	}

	r.phase = PHASE_DESCRIPTION
	r.turnIndex = 0
	r.winner = nil

	zap.L().Debug(
		"新的一局开始",
		zap.String("room_id", r.id),
		zap.Int("players", total),
		zap.Int("mr_white", mrWhiteCount),
		zap.Int("undercover", undercoverCount),
	)

	return nil
}

// 特殊身份数量不小于玩家总数时回退到安全默认值，保证至少有一个平民和一个卧底方
func resolveRoleCounts(settings Settings, total int) (mrWhite, undercover int) {
	mrWhite = settings.MrWhiteCount
	undercover = settings.UndercoverCount

	if mrWhite+undercover >= total {
		mrWhite = 1
		undercover = max(0, (total-2)/2)
	}

	return mrWhite, undercover
}

func (r *Room) pickWordPair() catalog.WordPair {
	available := r.availableWordIndices()
	if len(available) == 0 {
		clear(r.usedWordIndices)
		available = r.availableWordIndices()
	}

	idx := available[r.rng.IntN(len(available))]
	r.usedWordIndices[idx] = struct{}{}

	return r.words.At(idx)
}

func (r *Room) availableWordIndices() []int {
	available := make([]int, 0, r.words.Len())

	for i := 0; i < r.words.Len(); i++ {
		if _, used := r.usedWordIndices[i]; !used {
			available = append(available, i)
		}
	}

	return available
}

func wordFor(role Role, pair catalog.WordPair) *string {
	switch role {
	case ROLE_CIVILIAN:
		return &pair.Civilian
	case ROLE_UNDERCOVER:
		return &pair.Undercover
	default:
		return nil
	}
}

// SubmitDescription 只接受当前轮到的玩家的发言
func (r *Room) SubmitDescription(playerID, text string) error {
	if r.phase != PHASE_DESCRIPTION {
		return ErrWrongPhase
	}

	if !r.HasPlayer(playerID) {
		return ErrPlayerNotFound
	}

	if r.turnIndex >= len(r.players) || r.players[r.turnIndex].ID != playerID {
		return ErrNotYourTurn
	}

	r.players[r.turnIndex].Description = text

	next := r.nextAliveFrom(r.turnIndex + 1)
	if next < 0 {
		r.phase = PHASE_VOTING
		return nil
	}

	r.turnIndex = next

	return nil
}

// CastVote 不限制投票次数，也允许投给自己
// 总票数达到存活人数时结算淘汰
func (r *Room) CastVote(voterID, targetID string) error {
	if r.phase != PHASE_VOTING {
		return ErrWrongPhase
	}

	if !r.HasPlayer(voterID) {
		return ErrPlayerNotFound
	}

	idx := r.indexOf(targetID)
	if idx < 0 {
		return ErrPlayerNotFound
	}

	r.players[idx].VotesReceived++

	if r.totalVotes() >= r.aliveCount() {
		r.resolveElimination()
	}

	return nil
}

func (r *Room) resolveElimination() {
	// 票数相同时，列表中靠前的玩家被淘汰
	var eliminated *Player
	for _, p := range r.players {
		if eliminated == nil || p.VotesReceived > eliminated.VotesReceived {
			eliminated = p
		}
	}

	eliminated.IsAlive = false

	zap.L().Debug(
		"玩家被淘汰",
		zap.String("room_id", r.id),
		zap.String("player_id", eliminated.ID),
		zap.String("role", string(eliminated.Role)),
		zap.Int("votes", eliminated.VotesReceived),
	)

	if eliminated.Role == ROLE_MR_WHITE {
		r.phase = PHASE_MR_WHITE_GUESS
		return
	}

	if r.checkWin() {
		return
	}

	r.startNextRound()
}

func (r *Room) startNextRound() {
	for _, p := range r.players {
		p.VotesReceived = 0
		p.Description = ""
	}

	r.phase = PHASE_DESCRIPTION
	r.turnIndex = max(0, r.nextAliveFrom(0))
}

// GuessWord 处理白板被淘汰后的猜词，忽略大小写和首尾空白
func (r *Room) GuessWord(playerID, guess string) error {
	if r.phase != PHASE_MR_WHITE_GUESS {
		return ErrWrongPhase
	}

	if !r.HasPlayer(playerID) {
		return ErrPlayerNotFound
	}

	if r.wordPair != nil && normalizeWord(guess) == normalizeWord(r.wordPair.Civilian) {
		r.endGame(RESULT_MR_WHITE_WINS)
		return nil
	}

	// 猜错且胜负未分时房间停留在猜词阶段
	r.checkWin()

	return nil
}

func normalizeWord(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Leave 立即移除玩家，不回收其票数
// 发言阶段中如果离开的是当前发言者，轮次顺延到下一个存活玩家
func (r *Room) Leave(playerID string) error {
	idx := r.indexOf(playerID)
	if idx < 0 {
		return ErrPlayerNotFound
	}

	r.players = append(r.players[:idx], r.players[idx+1:]...)

	if len(r.players) == 0 {
		r.turnIndex = 0
		return nil
	}

	if r.phase != PHASE_DESCRIPTION {
		return nil
	}

	switch {
	case idx < r.turnIndex:
		// 前移一位，turnIndex 仍指向同一个发言者
		r.turnIndex--
	case idx == r.turnIndex:
		next := r.nextAliveFrom(r.turnIndex)
		if next < 0 {
			r.phase = PHASE_VOTING
			return nil
		}
		r.turnIndex = next
	}

	return nil
}

// 存活的卧底方（卧底 + 白板）为 0 时平民胜；不少于存活平民时卧底方胜
func (r *Room) checkWin() bool {
	civilians, impostors := 0, 0

	for _, p := range r.players {
		if !p.IsAlive {
			continue
		}

		switch {
		case p.Role == ROLE_CIVILIAN:
			civilians++
		case p.Role.IsImpostor():
			impostors++
		}
	}

	switch {
	case impostors == 0:
		r.endGame(RESULT_CIVILIANS_WIN)
		return true
	case impostors >= civilians:
		r.endGame(RESULT_IMPOSTORS_WIN)
		return true
	}

	return false
}

func (r *Room) endGame(result Result) {
	r.phase = PHASE_GAME_OVER
	r.winner = &result

	for _, p := range r.players {
		switch {
		case result == RESULT_CIVILIANS_WIN && p.Role == ROLE_CIVILIAN:
			p.Score += SCORE_CIVILIANS_WIN
		case result == RESULT_MR_WHITE_WINS && p.Role == ROLE_MR_WHITE:
			p.Score += SCORE_MR_WHITE_WINS
		case result == RESULT_IMPOSTORS_WIN && p.Role.IsImpostor():
			p.Score += SCORE_IMPOSTORS_WIN
		}
	}

	zap.L().Info(
		"对局结束",
		zap.String("room_id", r.id),
		zap.String("result", string(result)),
	)
}

func (r *Room) indexOf(playerID string) int {
	for i, p := range r.players {
		if p.ID == playerID {
			return i
		}
	}

	return -1
}

func (r *Room) nextAliveFrom(start int) int {
	for i := start; i < len(r.players); i++ {
		if r.players[i].IsAlive {
			return i
		}
	}

	return -1
}

func (r *Room) aliveCount() int {
	count := 0
	for _, p := range r.players {
		if p.IsAlive {
			count++
		}
	}

	return count
}

func (r *Room) totalVotes() int {
	total := 0
	for _, p := range r.players {
		total += p.VotesReceived
	}

	return total
}

// Snapshot 返回当前状态的深拷贝，不与房间共享任何指针
func (r *Room) Snapshot() Snapshot {
	players := make([]Player, len(r.players))
	for i, p := range r.players {
		players[i] = *p

		if p.Word != nil {
			word := *p.Word
			players[i].Word = &word
		}
	}

	snap := Snapshot{
		ID:        r.id,
		Players:   players,
		Phase:     r.phase,
		TurnIndex: r.turnIndex,
		Settings:  r.settings,
	}

	if r.wordPair != nil {
		pair := *r.wordPair
		snap.WordPair = &pair
	}

	if r.winner != nil {
		winner := *r.winner
		snap.Winner = &winner
	}

	return snap
}
