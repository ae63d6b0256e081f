package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"tomodachi-calendar/internal/domain/events"
	"tomodachi-calendar/internal/platform/logger"

	"github.com/joho/godotenv"
)

// Config junta las variables de entorno del servicio.
type Config struct {
	Addr string // PORT => ":<PORT>", default ":8080"

	// Store: REDIS_ADDR tiene prioridad sobre DB_DSN; sin ninguno => in-memory.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DBDSN         string
	EventsKey     string

	Location *time.Location // CALENDAR_TZ, default UTC

	// Sesión: SESSION_SECRET (JWT local) o AUTH_BASE_URL (verificador remoto).
	// Sin ninguno => modo dev con X-Debug-User-ID.
	SessionSecret string
	AuthBaseURL   string
	AuthAPIKey    string
	AuthTimeout   time.Duration

	ShutdownTimeout time.Duration

	// LOG_LEVEL, LOG_FORMAT, APP_NAME
	LogLevel  string
	LogFormat string
	AppName   string
}

// LoggerOptions arma las opciones del logger a partir de la config ya cargada.
func (c Config) LoggerOptions() logger.Options {
	return logger.Options{
		Level:  logger.ParseLevel(c.LogLevel),
		Format: logger.ParseFormat(c.LogFormat),
		App:    c.AppName,
	}
}

// Load lee .env (si existe) y luego el entorno.
// Las variables ya definidas en el entorno no se pisan.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv arma la config con getenv (inyectable en tests).
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(k string) string { return strings.TrimSpace(getenv(k)) }

	cfg := Config{
		Addr:            ":8080",
		RedisAddr:       get("REDIS_ADDR"),
		RedisPassword:   getenv("REDIS_PASSWORD"),
		DBDSN:           get("DB_DSN"),
		EventsKey:       events.DefaultKey,
		Location:        time.UTC,
		SessionSecret:   getenv("SESSION_SECRET"),
		AuthBaseURL:     get("AUTH_BASE_URL"),
		AuthAPIKey:      get("AUTH_API_KEY"),
		AuthTimeout:     5 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        get("LOG_LEVEL"),
		LogFormat:       get("LOG_FORMAT"),
		AppName:         get("APP_NAME"),
	}

	if v := get("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := get("EVENTS_KEY"); v != "" {
		cfg.EventsKey = v
	}
	if v := get("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("REDIS_DB must be a non-negative integer: %q", v)
		}
		cfg.RedisDB = n
	}
	if v := get("CALENDAR_TZ"); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return Config{}, fmt.Errorf("CALENDAR_TZ: %w", err)
		}
		cfg.Location = loc
	}
	if v := get("AUTH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("AUTH_TIMEOUT: %w", err)
		}
		cfg.AuthTimeout = d
	}

	return cfg, nil
}
