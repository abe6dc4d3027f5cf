package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"undercover-be/internal/api/http/websocket"
	"undercover-be/internal/state"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

const SHUTDOWN_TIMEOUT = 5 * time.Second

func NewApp(appState *state.AppState) *iris.Application {
	app := iris.New()
	app.Logger().SetLevel("warn")

	if dir := appState.Cfg.StaticDir; dir != "" {
		app.HandleDir(
			"/",
			iris.Dir(dir),
			iris.DirOptions{
				IndexName: "index.html",
				SPA:       true,
				Compress:  true,
			},
		)
	}

	app.Get("/healthz", Health)
	app.Get("/version", Version)

	api := app.Party("/api/v1")

	api.Get("/rooms", ListRooms(appState))
	api.Get("/rooms/{roomId}", GetRoom(appState))
	api.Get("/rooms/{roomId}/qr", RoomQRCode(appState))

	api.Get("/ws", iris.FromStd(websocket.JoinGame(appState)))

	return app
}

// RunServer 阻塞直到 ctx 结束或服务器出错
func RunServer(ctx context.Context, appState *state.AppState) error {
	app := NewApp(appState)

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
		defer cancel()

		zap.L().Info("正在关闭服务器")

		if err := app.Shutdown(shutdownCtx); err != nil {
			zap.L().Error("关闭服务器失败", zap.Error(err))
		}
	}()

	addr := appState.Cfg.Addr()

	zap.L().Info("服务器启动", zap.String("addr", addr))

	err := app.Listen(addr, iris.WithoutInterruptHandler, iris.WithoutStartupLog)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
