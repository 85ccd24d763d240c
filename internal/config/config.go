package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken    string `envconfig:"BOT_TOKEN" required:"true"`
	AdminID     int64  `envconfig:"ADMIN_ID" required:"true"`
	DBPath      string `envconfig:"DB_PATH" default:"./data/multitool.db"`
	ScheduleDir string `envconfig:"SCHEDULE_DIR" default:"./data/schedules"`
	TZ          string `envconfig:"TZ" default:"Europe/Moscow"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`

	// Scheduler tuning. Defaults match the bot's historical behavior.
	NightFromHour int     `envconfig:"NIGHT_FROM_HOUR" default:"18"` // broadcast window start
	NightToHour   int     `envconfig:"NIGHT_TO_HOUR" default:"6"`    // broadcast window end (exclusive)
	BroadcastHour int     `envconfig:"BROADCAST_HOUR" default:"20"`  // fallback per-group send hour
	BirthdayHour  int     `envconfig:"BIRTHDAY_HOUR" default:"8"`    // daily birthday check
	SendRate      float64 `envconfig:"SEND_RATE" default:"20"`       // outgoing messages per second
}

// Load reads .env (if present) and then environment variables into Config.
func Load() (Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
