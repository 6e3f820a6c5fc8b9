package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// Режимы проверки окна действия доступа (valid_until >= valid_from)
const (
	WindowCheckStrict     = "strict"
	WindowCheckPermissive = "permissive"
)

const defaultSweepSchedule = "@every 15m"

type Config struct {
	TelegramToken    string  `mapstructure:"TELEGRAM_TOKEN"`
	DBDSN            string  `mapstructure:"DB_DSN"`
	Environment      string  `mapstructure:"ENV"`
	LogLevel         string  `mapstructure:"LOG_LEVEL"`
	MigrationsDir    string  `mapstructure:"MIGRATIONS_DIR"`
	SweepSchedule    string  `mapstructure:"SWEEP_SCHEDULE"`
	GrantWindowCheck string  `mapstructure:"GRANT_WINDOW_CHECK"`
	AdminTelegramIDs []int64 `mapstructure:"ADMIN_TELEGRAM_IDS"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv(os.LookupEnv)
}

// FromEnv собирает конфиг из произвольного источника переменных
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := &Config{
		DBDSN:            get("DB_DSN"),
		TelegramToken:    get("TELEGRAM_TOKEN"),
		Environment:      get("ENV"),
		LogLevel:         get("LOG_LEVEL"),
		MigrationsDir:    get("MIGRATIONS_DIR"),
		GrantWindowCheck: strings.ToLower(get("GRANT_WINDOW_CHECK")),
	}

	// Пустое значение SWEEP_SCHEDULE отключает фоновую проверку, отсутствие - дефолт
	if v, ok := lookup("SWEEP_SCHEDULE"); ok {
		cfg.SweepSchedule = strings.TrimSpace(v)
	} else {
		cfg.SweepSchedule = defaultSweepSchedule
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.GrantWindowCheck == "" {
		cfg.GrantWindowCheck = WindowCheckStrict
	}

	if cfg.GrantWindowCheck != WindowCheckStrict && cfg.GrantWindowCheck != WindowCheckPermissive {
		return nil, fmt.Errorf("GRANT_WINDOW_CHECK must be %q or %q, got %q",
			WindowCheckStrict, WindowCheckPermissive, cfg.GrantWindowCheck)
	}

	if cfg.LogLevel != "" {
		if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
			return nil, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}

	ids, err := parseIDList(get("ADMIN_TELEGRAM_IDS"))
	if err != nil {
		return nil, fmt.Errorf("parse ADMIN_TELEGRAM_IDS: %w", err)
	}
	cfg.AdminTelegramIDs = ids

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}

// RequireTelegram проверяет, что задан токен бота (нужен только процессу бота)
func (c *Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	return nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// StrictGrantWindow сообщает, нужно ли отклонять доступы с valid_until < valid_from
func (c *Config) StrictGrantWindow() bool {
	return c.GrantWindowCheck == WindowCheckStrict
}

// IsAdminTelegramID проверяет, входит ли пользователь в список администраторов из конфига
func (c *Config) IsAdminTelegramID(telegramID int64) bool {
	for _, id := range c.AdminTelegramIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

func parseIDList(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
