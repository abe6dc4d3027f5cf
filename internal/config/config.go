package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const VERSION = "0.1.0"

type AppConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// 房间变空后保留多久
	RoomGracePeriod time.Duration `mapstructure:"room_grace_period"`
	// 可选的 CSV 词库，为空时使用内置词库
	WordsFile string `mapstructure:"words_file"`
	// 可选的前端静态文件目录
	StaticDir string `mapstructure:"static_dir"`

	RejectResponses bool `mapstructure:"reject_responses"`
	RedactSecrets   bool `mapstructure:"redact_secrets"`

	// 每条连接每秒允许的操作数及突发量
	ActionRate  float64 `mapstructure:"action_rate"`
	ActionBurst int     `mapstructure:"action_burst"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 3001)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("room_grace_period", 5*time.Minute)
	v.SetDefault("words_file", "")
	v.SetDefault("static_dir", "")
	v.SetDefault("reject_responses", false)
	v.SetDefault("redact_secrets", false)
	v.SetDefault("action_rate", 5.0)
	v.SetDefault("action_burst", 10)
}

// InitConfig 按 命令行 > 环境变量(UNDERCOVER_*) > 配置文件 > 默认值 的优先级加载配置
// configFile 为空时尝试读取当前目录下的 app_config.json，不存在则忽略
func InitConfig(configFile string, flags *pflag.FlagSet) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("加载 .env 失败: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("UNDERCOVER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		var bindErr error

		flags.VisitAll(func(f *pflag.Flag) {
			if f.Name == "config" {
				return
			}

			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = err
			}
		})

		if bindErr != nil {
			return nil, fmt.Errorf("绑定命令行参数失败: %w", bindErr)
		}
	}

	v.SetConfigType("json")

	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("加载配置失败: %w", err)
		}
	} else {
		v.SetConfigName("app_config")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("加载配置失败: %w", err)
			}
		}
	}

	var config AppConfig

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *AppConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("无效的端口 (必须在 1-65535 之间): %d", c.Port)
	}

	if c.RoomGracePeriod <= 0 {
		return fmt.Errorf("room_grace_period 必须大于 0: %s", c.RoomGracePeriod)
	}

	if c.ActionRate <= 0 || c.ActionBurst < 1 {
		return fmt.Errorf("无效的限流设置: rate=%v burst=%d", c.ActionRate, c.ActionBurst)
	}

	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("未知的日志格式: %q", c.LogFormat)
	}

	return nil
}

func (c *AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
