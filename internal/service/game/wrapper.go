package game

import (
	"encoding/json"

	"go.uber.org/zap"
)

// 请求类型
const (
	REQ_JOIN_ROOM        = "join_room"
	REQ_CHANGE_SETTINGS  = "change_settings"
	REQ_START_GAME       = "start_game"
	REQ_SEND_DESCRIPTION = "send_description"
	REQ_VOTE_PLAYER      = "vote_player"
	REQ_MR_WHITE_GUESS   = "mr_white_guess"
	REQ_LEAVE_ROOM       = "leave_room"
)

type RequestWrapper struct {
	ReqType string          `json:"request_type"`
	Data    json.RawMessage `json:"data"`
}

func WrapRequest(reqType string, data any) RequestWrapper {
	return RequestWrapper{
		ReqType: reqType,
		Data:    mustMarshal(data),
	}
}

func tryUnwrap[T any](wrapper RequestWrapper, reqType string) *T {
	if wrapper.ReqType != reqType {
		return nil
	}

	var req T

	if err := json.Unmarshal(wrapper.Data, &req); err != nil {
		zap.L().Debug(
			"Failed to unwrap request",
			zap.String("request_type", reqType),
			zap.Error(err),
		)
		return nil
	}

	return &req
}

func TryUnwrapJoinRoomRequest(wrapper RequestWrapper) *JoinRoomRequest {
	return tryUnwrap[JoinRoomRequest](wrapper, REQ_JOIN_ROOM)
}

func TryUnwrapChangeSettingsRequest(wrapper RequestWrapper) *ChangeSettingsRequest {
	return tryUnwrap[ChangeSettingsRequest](wrapper, REQ_CHANGE_SETTINGS)
}

func TryUnwrapStartGameRequest(wrapper RequestWrapper) *StartGameRequest {
	return tryUnwrap[StartGameRequest](wrapper, REQ_START_GAME)
}

func TryUnwrapSendDescriptionRequest(wrapper RequestWrapper) *SendDescriptionRequest {
	return tryUnwrap[SendDescriptionRequest](wrapper, REQ_SEND_DESCRIPTION)
}

func TryUnwrapVotePlayerRequest(wrapper RequestWrapper) *VotePlayerRequest {
	return tryUnwrap[VotePlayerRequest](wrapper, REQ_VOTE_PLAYER)
}

func TryUnwrapMrWhiteGuessRequest(wrapper RequestWrapper) *MrWhiteGuessRequest {
	return tryUnwrap[MrWhiteGuessRequest](wrapper, REQ_MR_WHITE_GUESS)
}

func TryUnwrapLeaveRoomRequest(wrapper RequestWrapper) *LeaveRoomRequest {
	return tryUnwrap[LeaveRoomRequest](wrapper, REQ_LEAVE_ROOM)
}

// PeekRoomID 只解析出请求中的房间 ID
func PeekRoomID(wrapper RequestWrapper) (string, error) {
	var ref RoomRef

	if err := json.Unmarshal(wrapper.Data, &ref); err != nil {
		return "", ErrInvalidPayload
	}

	if ref.RoomID == "" {
		return "", ErrInvalidPayload
	}

	return ref.RoomID, nil
}

// 响应类型
const (
	RESP_ERROR       = "error"
	RESP_WELCOME     = "welcome"
	RESP_UPDATE_GAME = "update_game"
)

type ResponseWrapper struct {
	RespType string `json:"response_type"`
	Data     any    `json:"data,omitempty"`
	ErrMsg   string `json:"error_message,omitempty"`
}

func WrapResponse(respType string, data any) ResponseWrapper {
	return ResponseWrapper{
		RespType: respType,
		Data:     data,
	}
}

func WrapErrResponse(errMsg string) ResponseWrapper {
	return ResponseWrapper{
		RespType: RESP_ERROR,
		ErrMsg:   errMsg,
	}
}
