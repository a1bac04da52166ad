// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oqtepa/fastfood-storefront/internal/obs"
)

// Config holds configuration knobs for the HTTP server, storage,
// admin access, and the Telegram integration.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// DataDir is the directory backing the key-value store. Empty
	// means persistence is unavailable and all writes are no-ops.
	DataDir string

	TelegramBaseURL  string
	TelegramBotToken string
	TelegramChatID   string

	AdminUsername string
	AdminPassword string

	LoginMaxAttempts int
	LoginBlockWindow time.Duration
	SessionDuration  time.Duration

	// PropagationRepeat, when positive, re-broadcasts every catalog
	// change after this delay as a backstop for late subscribers.
	PropagationRepeat time.Duration
	SubscriberBuffer  int
}

// fileConfig mirrors Config for the optional YAML overlay.
type fileConfig struct {
	HTTPAddr string `yaml:"http_addr"`
	DataDir  string `yaml:"data_dir"`
	Telegram struct {
		BaseURL  string `yaml:"base_url"`
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Admin struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"admin"`
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvms(key string, defMs int) time.Duration {
	ms := atoienv(key, defMs)
	return time.Duration(ms) * time.Millisecond
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// Load collects configuration from an optional YAML file (CONFIG_FILE)
// and the environment, with env values winning over file values.
func Load() Config {
	cfg := Config{
		HTTPAddr:          ":8080",
		ShutdownTimeout:   durenvs("SHUTDOWN_TIMEOUT", 15),
		DataDir:           "data",
		TelegramBaseURL:   "https://api.telegram.org",
		LoginMaxAttempts:  atoienv("LOGIN_MAX_ATTEMPTS", 3),
		LoginBlockWindow:  durenvms("LOGIN_BLOCK_WINDOW_MS", 30*60*1000),
		SessionDuration:   durenvms("SESSION_DURATION_MS", 2*60*60*1000),
		PropagationRepeat: durenvms("PROPAGATION_REPEAT_MS", 0),
		SubscriberBuffer:  atoienv("SUBSCRIBER_BUFFER", 8),
		AdminUsername:     "cheffhotdog",
		AdminPassword:     "bestanyone",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		applyFile(&cfg, path)
	}

	cfg.HTTPAddr = getenv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.DataDir = getenv("DATA_DIR", cfg.DataDir)
	cfg.TelegramBaseURL = getenv("TELEGRAM_BASE_URL", cfg.TelegramBaseURL)
	cfg.TelegramBotToken = getenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	cfg.TelegramChatID = getenv("TELEGRAM_CHAT_ID", cfg.TelegramChatID)
	cfg.AdminUsername = getenv("ADMIN_USERNAME", cfg.AdminUsername)
	cfg.AdminPassword = getenv("ADMIN_PASSWORD", cfg.AdminPassword)
	return cfg
}

// applyFile overlays non-empty values from a YAML file onto cfg.
// A missing or malformed file is logged and ignored.
func applyFile(cfg *Config, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		obs.Logger.Warn("config_file_unreadable", "path", path, "error", err)
		return
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		obs.Logger.Warn("config_file_malformed", "path", path, "error", err)
		return
	}
	if fc.HTTPAddr != "" {
		cfg.HTTPAddr = fc.HTTPAddr
	}
	if fc.DataDir != "" {
		cfg.DataDir = fc.DataDir
	}
	if fc.Telegram.BaseURL != "" {
		cfg.TelegramBaseURL = fc.Telegram.BaseURL
	}
	if fc.Telegram.BotToken != "" {
		cfg.TelegramBotToken = fc.Telegram.BotToken
	}
	if fc.Telegram.ChatID != "" {
		cfg.TelegramChatID = fc.Telegram.ChatID
	}
	if fc.Admin.Username != "" {
		cfg.AdminUsername = fc.Admin.Username
	}
	if fc.Admin.Password != "" {
		cfg.AdminPassword = fc.Admin.Password
	}
}
