package game

import "undercover-be/internal/catalog"

// 房间阶段
// LOBBY -> DESCRIPTION -> VOTING -> (MR_WHITE_GUESS) -> GAME_OVER
// VOTING 可以回到 DESCRIPTION，GAME_OVER 可以通过再开一局回到 DESCRIPTION
type Phase string

const (
	PHASE_LOBBY          Phase = "LOBBY"
	PHASE_DESCRIPTION    Phase = "DESCRIPTION"
	PHASE_VOTING         Phase = "VOTING"
	PHASE_MR_WHITE_GUESS Phase = "MR_WHITE_GUESS"
	PHASE_GAME_OVER      Phase = "GAME_OVER"
)

func (p Phase) String() string {
	return string(p)
}

// 玩家身份
type Role string

const (
	ROLE_UNASSIGNED Role = "unassigned"
	ROLE_CIVILIAN   Role = "civilian"
	ROLE_UNDERCOVER Role = "undercover"
	ROLE_MR_WHITE   Role = "mr_white"
)

func (r Role) IsImpostor() bool {
	return r == ROLE_UNDERCOVER || r == ROLE_MR_WHITE
}

// 对局结果
type Result string

const (
	RESULT_CIVILIANS_WIN Result = "CIVILIANS_WIN"
	RESULT_IMPOSTORS_WIN Result = "IMPOSTORS_WIN"
	RESULT_MR_WHITE_WINS Result = "MR_WHITE_WINS"
)

// 可调整的设置项名称
const (
	SETTING_MR_WHITE_COUNT   = "mr_white_count"
	SETTING_UNDERCOVER_COUNT = "undercover_count"
)

const MIN_PLAYERS = 3

// 描述和猜词的最大字节数，超出的请求按参数无效丢弃
const MAX_TEXT_LENGTH = 1024

// 得分规则
const (
	SCORE_CIVILIANS_WIN = 2
	SCORE_MR_WHITE_WINS = 6
	SCORE_IMPOSTORS_WIN = 10
)

type Settings struct {
	MrWhiteCount    int `json:"mr_white_count"`
	UndercoverCount int `json:"undercover_count"`
}

func DefaultSettings() Settings {
	return Settings{
		MrWhiteCount:    1,
		UndercoverCount: 1,
	}
}

type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
	// 白板和未分配身份的玩家没有词
	Word          *string `json:"word"`
	IsAlive       bool    `json:"is_alive"`
	VotesReceived int     `json:"votes_received"`
	Score         int     `json:"score"`
	Description   string  `json:"description"`
}

// Snapshot 是房间状态的深拷贝，用于广播
type Snapshot struct {
	ID        string            `json:"id"`
	Players   []Player          `json:"players"`
	Phase     Phase             `json:"phase"`
	WordPair  *catalog.WordPair `json:"word_pair"`
	TurnIndex int               `json:"turn_index"`
	Winner    *Result           `json:"winner"`
	Settings  Settings          `json:"settings"`
}

// ViewFor 返回给指定玩家看的视图：除自己以外的身份和词语都被隐藏，
// 游戏结束后全部公开
func (s Snapshot) ViewFor(playerID string) Snapshot {
	if s.Phase == PHASE_GAME_OVER {
		return s
	}

	view := s
	view.WordPair = nil
	view.Players = make([]Player, len(s.Players))

	for i, p := range s.Players {
		if p.ID != playerID {
			p = sanitizePlayer(p)
		}
		view.Players[i] = p
	}

	return view
}

func sanitizePlayer(p Player) Player {
	p.Role = ROLE_UNASSIGNED
	p.Word = nil
	return p
}
