package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port     string `env:"PORT" env-default:"8080"`
	Timezone string `env:"TZ" env-default:"Asia/Kolkata"`
	Env      string `env:"APP_ENV" env-default:"local"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	LogFile  string `env:"LOG_FILE" env-default:"logs/access_logs.log"`

	// DBPath holds the access trail, and the records when StoreBackend is sqlite.
	DBPath       string `env:"DB_PATH" env-default:"data/carrierpay.db"`
	StoreBackend string `env:"STORE_BACKEND" env-default:"xlsx"`
	StorePath    string `env:"STORE_PATH" env-default:"data/payment_requests.xlsx"`
	UsersPath    string `env:"USERS_PATH" env-default:"data/Users.xlsx"`
	PlannerEmail string `env:"PLANNER_EMAIL"`

	StrictAmounts bool   `env:"STRICT_AMOUNTS" env-default:"false"`
	OTELEndpoint  string `env:"OTEL_ENDPOINT"`
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}

	var cfg AppConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("[cfg] read env: %v", err)
	}
	if cfg.StoreBackend != "xlsx" && cfg.StoreBackend != "sqlite" {
		log.Fatalf("[cfg] STORE_BACKEND must be xlsx or sqlite, got %q", cfg.StoreBackend)
	}
	log.Printf("[cfg] %+v", cfg)
	return cfg
}

// Location is the business timezone; an unknown zone falls back to IST.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("[cfg] unknown TZ %q, using Asia/Kolkata: %v", c.Timezone, err)
		return time.FixedZone("IST", 5*3600+30*60)
	}
	return loc
}
