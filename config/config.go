package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yourusername/order-sheet-sync/internal/domain/constants"
)

// Config ilovaning konfiguratsiyasi
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration

	// Workbook surface
	SheetPath     string
	SheetName     string
	WatchInterval time.Duration

	LogLevel int

	// Hisob ma'lumotlari: saqlangan sessiya bo'lmaganda login uchun
	Username         string
	Password         string
	RememberUsername bool

	// Optional Postgres-backed client state; empty DSN selects the
	// in-memory store.
	PostgresDSN string
}

// Load konfiguratsiyani yuklash
func Load() (*Config, error) {
	// .env faylini yuklash (mavjud bo'lsa)
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:     strings.TrimRight(getenvDefault("JKD_API_BASE_URL", constants.DefaultBaseURL), "/"),
		RequestTimeout: time.Duration(getenvInt("JKD_REQUEST_TIMEOUT_SECONDS", constants.DefaultRequestTimeout)) * time.Second,
		SheetPath:      strings.TrimSpace(os.Getenv("ORDER_SHEET_PATH")),
		SheetName:      getenvDefault("ORDER_SHEET_NAME", "Sheet1"),
		WatchInterval:  time.Duration(getenvInt("ORDER_SHEET_WATCH_SECONDS", 2)) * time.Second,
		LogLevel:       getenvInt("LOG_LEVEL", 2),

		Username:         strings.TrimSpace(os.Getenv("JKD_USERNAME")),
		Password:         os.Getenv("JKD_PASSWORD"),
		RememberUsername: getenvBool("JKD_REMEMBER_USERNAME", true),

		PostgresDSN: buildPostgresDSNFromEnv(),
	}

	if cfg.SheetPath == "" {
		return nil, fmt.Errorf("ORDER_SHEET_PATH environment variable bo'sh")
	}
	if _, err := url.ParseRequestURI(cfg.APIBaseURL); err != nil {
		return nil, fmt.Errorf("JKD_API_BASE_URL noto'g'ri formatda: %v", err)
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = constants.DefaultRequestTimeout * time.Second
	}
	if cfg.WatchInterval <= 0 {
		cfg.WatchInterval = 2 * time.Second
	}

	return cfg, nil
}

func buildPostgresDSNFromEnv() string {
	host := strings.TrimSpace(os.Getenv("POSTGRES_HOST"))
	user := strings.TrimSpace(os.Getenv("POSTGRES_USER"))
	password := os.Getenv("POSTGRES_PASSWORD")
	db := strings.TrimSpace(os.Getenv("POSTGRES_DB"))
	port := strings.TrimSpace(os.Getenv("POSTGRES_PORT"))
	sslmode := strings.TrimSpace(os.Getenv("POSTGRES_SSLMODE"))

	if host == "" || user == "" || db == "" {
		return ""
	}
	if port == "" {
		port = "5432"
	}
	if sslmode == "" {
		sslmode = "disable"
	}

	db = strings.TrimPrefix(db, "/")
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + db,
	}
	if password == "" {
		u.User = url.User(user)
	} else {
		u.User = url.UserPassword(user, password)
	}
	q := u.Query()
	q.Set("sslmode", sslmode)
	u.RawQuery = q.Encode()
	return u.String()
}

func getenvDefault(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getenvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getenvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
