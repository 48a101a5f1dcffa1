package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"tcw-alerts/config"
	"tcw-alerts/internal/alert"
	"tcw-alerts/internal/api"
	"tcw-alerts/internal/engine"
	"tcw-alerts/internal/feed"
	"tcw-alerts/internal/metrics"
	"tcw-alerts/internal/notify"
	"tcw-alerts/internal/store"
)

func init() {
	_ = godotenv.Load()
	config.InitConfig()
	setupLogging()
}

func setupLogging() {
	log.SetLevel(log.InfoLevel)
	if config.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug("Starting alert engine...")
}

func main() {
	st, err := openStore()
	if err != nil {
		log.Fatalf("Failed to initialize alert store: %v", err)
	}
	defer st.Close()

	notifier := buildNotifier()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		s := <-sig
		log.Infof("Received %s, shutting down...", s)
		cancel()
		// Let an in-flight batch finish its dispatch and retirement.
		time.Sleep(time.Second)
		st.Close()
		os.Exit(0)
	}()

	reconnectDelay := time.Duration(config.GetInt("reconnect_delay_seconds")) * time.Second
	priceFeed := feed.New(config.GetString("stream_url"), reconnectDelay)

	batches := make(chan []feed.Tick, 8)
	go func() {
		if err := priceFeed.Run(ctx, batches); err != nil && ctx.Err() == nil {
			log.Errorf("❌ Price feed stopped: %v", err)
		}
		close(batches)
	}()

	eng := engine.New(st, notifier)
	go eng.Run(ctx, batches)

	srv := api.NewServer(st)
	go func() {
		if err := srv.Run(config.GetInt("listen_port")); err != nil {
			log.Fatalf("Failed to start alert API: %v", err)
		}
	}()

	if err := metrics.Serve(config.GetInt("metrics_port")); err != nil {
		log.Fatalf("Failed to start metrics and health server: %v", err)
	}
}

func openStore() (store.Store, error) {
	dbPath := config.GetString("db_path")
	if dbPath == "" {
		log.Warn("⚠️ No db_path configured, alerts will not survive restarts")
		return store.NewMemory(), nil
	}
	return store.NewSQLite(dbPath)
}

func buildNotifier() engine.Notifier {
	token := config.GetString("telegram_bot_token")
	if token == "" {
		log.Warn("⚠️ No telegram_bot_token configured, triggers will only be logged")
		return notify.Logger{}
	}

	tg, err := notify.NewTelegram(notify.BotConfig{
		Token:  token,
		ChatID: config.GetString("telegram_chat_id"),
		Debug:  config.GetBool("debug"),
	})
	if err != nil {
		log.Fatalf("Failed to create telegram bot: %v", err)
	}

	if config.GetBool("startup_test_message") {
		if err := tg.Send(notify.FormatTrigger(sampleAlert(), 67200)); err != nil {
			log.Errorf("❌ Startup test message failed: %v", err)
		}
	}

	return tg
}

func sampleAlert() alert.Alert {
	return alert.Alert{
		Symbol:     "BTCUSDT",
		Side:       alert.SideLong,
		EntryPrice: 67000,
		Tag:        "Check deviation strategy call before taking trade",
	}
}
