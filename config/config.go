package config

import (
	"github.com/spf13/viper"
	"sync"
)

var once sync.Once

func InitConfig() {
	once.Do(func() {
		viper.AutomaticEnv()

		viper.BindEnv("telegram_bot_token", "TELEGRAM_BOT_TOKEN")
		viper.BindEnv("telegram_chat_id", "TELEGRAM_CHAT_ID")
		viper.BindEnv("db_path", "DB_PATH")
		viper.BindEnv("stream_url", "STREAM_URL")
		viper.BindEnv("listen_port", "LISTEN_PORT")
		viper.BindEnv("metrics_port", "METRICS_PORT")
		viper.BindEnv("reconnect_delay_seconds", "RECONNECT_DELAY_SECONDS")
		viper.BindEnv("startup_test_message", "STARTUP_TEST_MESSAGE")
		viper.BindEnv("debug", "DEBUG")

		viper.SetDefault("telegram_chat_id", "@TCWAlerts")
		viper.SetDefault("db_path", "./data/alerts.db")
		viper.SetDefault("stream_url", "wss://fstream.binance.com/stream?streams=!miniTicker@arr")
		viper.SetDefault("listen_port", 3000)
		viper.SetDefault("metrics_port", 9090)
		viper.SetDefault("reconnect_delay_seconds", 5)
		viper.SetDefault("startup_test_message", false)
		viper.SetDefault("debug", false)
	})
}

func GetString(key string) string {
	InitConfig()
	return viper.GetString(key)
}

func GetInt(key string) int {
	InitConfig()
	return viper.GetInt(key)
}

func GetBool(key string) bool {
	InitConfig()
	return viper.GetBool(key)
}
