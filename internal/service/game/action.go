package game

// 每个请求都带有房间 ID，调用者身份由连接决定

type RoomRef struct {
	RoomID string `json:"room_id"`
}

type JoinRoomRequest struct {
	RoomID     string `json:"room_id"`
	PlayerName string `json:"player_name"`
}

type ChangeSettingsRequest struct {
	RoomID  string `json:"room_id"`
	Setting string `json:"setting"`
	Delta   int    `json:"delta"`
}

type StartGameRequest struct {
	RoomID string `json:"room_id"`
}

type SendDescriptionRequest struct {
	RoomID string `json:"room_id"`
	Text   string `json:"text"`
}

type VotePlayerRequest struct {
	RoomID   string `json:"room_id"`
	TargetID string `json:"target_id"`
}

type MrWhiteGuessRequest struct {
	RoomID string `json:"room_id"`
	Guess  string `json:"guess"`
}

type LeaveRoomRequest struct {
	RoomID string `json:"room_id"`
}

// 连接建立后服务端先告知客户端自己的玩家 ID
type WelcomeResponse struct {
	PlayerID string `json:"player_id"`
}
