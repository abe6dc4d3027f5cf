package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"undercover-be/internal/api/http"
	"undercover-be/internal/catalog"
	"undercover-be/internal/config"
	"undercover-be/internal/logger"
	"undercover-be/internal/service"
	"undercover-be/internal/state"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:           "undercover-be",
		Short:         "Undercover / Mr. White 房间制派对游戏服务端",
		Args:          cobra.NoArgs,
		Version:       config.VERSION,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 加载配置
			cfg, err := config.InitConfig(configFile, cmd.Flags())
			if err != nil {
				return err
			}

			// 初始化日志器
			lgr, err := logger.InitLogger(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			defer lgr.Sync()

			words := catalog.Default()
			if cfg.WordsFile != "" {
				if words, err = catalog.LoadCSV(cfg.WordsFile); err != nil {
					return err
				}
			}

			zap.L().Info("词库已加载", zap.Int("pairs", words.Len()))

			roomSvc := service.NewRoomService(service.RoomServiceOptions{
				GracePeriod:     cfg.RoomGracePeriod,
				Words:           words,
				RejectResponses: cfg.RejectResponses,
				RedactSecrets:   cfg.RedactSecrets,
			})
			defer roomSvc.Close()

			// 组装应用状态
			appState := state.NewAppState(cfg, roomSvc)

			// 启动服务器
			return http.RunServer(cmd.Context(), appState)
		},
	}

	fs := cmd.Flags()

	fs.StringVarP(&configFile, "config", "c", "", "JSON 配置文件路径（默认读取 ./app_config.json）")
	fs.String("host", "0.0.0.0", "监听地址 (env: UNDERCOVER_HOST)")
	fs.IntP("port", "p", 3001, "监听端口 (env: UNDERCOVER_PORT)")
	fs.String("log-level", "info", "日志级别 debug|info|warn|error (env: UNDERCOVER_LOG_LEVEL)")
	fs.String("log-format", "console", "日志格式 console|json (env: UNDERCOVER_LOG_FORMAT)")
	fs.Duration("room-grace-period", 5*time.Minute, "房间变空后保留的时间 (env: UNDERCOVER_ROOM_GRACE_PERIOD)")
	fs.String("words-file", "", "CSV 词库文件，每行 civilian,undercover (env: UNDERCOVER_WORDS_FILE)")
	fs.String("static-dir", "", "前端静态文件目录 (env: UNDERCOVER_STATIC_DIR)")
	fs.Bool("reject-responses", false, "对被拒绝的操作返回错误响应而不是静默丢弃 (env: UNDERCOVER_REJECT_RESPONSES)")
	fs.Bool("redact-secrets", false, "广播时隐藏其他玩家的身份和词语 (env: UNDERCOVER_REDACT_SECRETS)")
	fs.Float64("action-rate", 5, "每条连接每秒允许的操作数 (env: UNDERCOVER_ACTION_RATE)")
	fs.Int("action-burst", 10, "每条连接允许的突发操作数 (env: UNDERCOVER_ACTION_BURST)")

	cmd.SetVersionTemplate("undercover-be v{{.Version}}\n")

	return cmd
}
