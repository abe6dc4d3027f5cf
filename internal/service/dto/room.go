package dto

import "time"

// 房间概要，供 HTTP 接口查询，不包含任何身份和词语
type RoomSummary struct {
	ID          string    `json:"id"`
	Phase       string    `json:"phase"`
	PlayerCount int       `json:"player_count"`
	PlayerNames []string  `json:"player_names"`
	CreatedAt   time.Time `json:"created_at"`
}

type ListRoomsResponse struct {
	Rooms []string `json:"rooms"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
