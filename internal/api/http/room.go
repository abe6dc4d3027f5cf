package http

import (
	"errors"
	"net/url"

	"undercover-be/internal/config"
	"undercover-be/internal/service"
	"undercover-be/internal/service/dto"
	"undercover-be/internal/state"

	"github.com/kataras/iris/v12"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const QR_SIZE = 320

func Health(ctx iris.Context) {
	ctx.WriteString("ok\n")
}

func Version(ctx iris.Context) {
	ctx.WriteString("undercover-be v" + config.VERSION + "\n")
}

func ListRooms(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		ctx.JSON(dto.ListRoomsResponse{
			Rooms: appState.RoomSvc.Rooms(),
		})
	}
}

func GetRoom(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		roomID := ctx.Params().Get("roomId")

		summary, err := appState.RoomSvc.Describe(ctx.Request().Context(), roomID)
		if err != nil {
			writeRoomError(ctx, err)
			return
		}

		ctx.JSON(summary)
	}
}

// RoomQRCode 生成加入房间链接的二维码
func RoomQRCode(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		roomID := ctx.Params().Get("roomId")

		if _, ok := appState.RoomSvc.Lookup(roomID); !ok {
			writeRoomError(ctx, service.ErrRoomNotFound)
			return
		}

		png, err := qrcode.Encode(inviteURL(ctx, roomID), qrcode.Medium, QR_SIZE)
		if err != nil {
			zap.L().Error("生成二维码失败", zap.String("room_id", roomID), zap.Error(err))
			ctx.StatusCode(iris.StatusInternalServerError)
			ctx.JSON(dto.ErrorResponse{Error: "生成二维码失败"})
			return
		}

		ctx.ContentType("image/png")
		ctx.Write(png)
	}
}

func inviteURL(ctx iris.Context, roomID string) string {
	scheme := "http"
	if ctx.Request().TLS != nil {
		scheme = "https"
	}
	if proto := ctx.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     ctx.Host(),
		Path:     "/",
		RawQuery: url.Values{"room": []string{roomID}}.Encode(),
	}

	return u.String()
}

func writeRoomError(ctx iris.Context, err error) {
	status := iris.StatusInternalServerError
	if errors.Is(err, service.ErrRoomNotFound) {
		status = iris.StatusNotFound
	}

	ctx.StatusCode(status)
	ctx.JSON(dto.ErrorResponse{Error: err.Error()})
}
