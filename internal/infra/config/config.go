package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Host       string `yaml:"host"`
		Port       string `yaml:"port" validate:"required,numeric"`
		CORSOrigin string `yaml:"cors_origin"`
		PublicURL  string `yaml:"public_url" validate:"omitempty,url"`
	} `yaml:"server"`
	TelegramBot struct {
		Token        string        `yaml:"token"`
		Mode         string        `yaml:"mode" validate:"oneof=polling webhook"`
		WebhookURL   string        `yaml:"webhook_url" validate:"required_if=Mode webhook"`
		ListenAddr   string        `yaml:"listen_addr"`
		PollInterval time.Duration `yaml:"poll_interval" validate:"gt=0"`
		AdminChatIDs []int64       `yaml:"admin_chat_ids"`
		Debug        bool          `yaml:"debug"`
	} `yaml:"telegram_bot"`
	Database struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"dbname"`
	} `yaml:"database"`
	Storage struct {
		Driver string `yaml:"driver" validate:"oneof=memory json sqlite sqlite3 postgres"`
		DSN    string `yaml:"dsn"`
	} `yaml:"storage"`
	Remote struct {
		BaseURL    string        `yaml:"base_url" validate:"omitempty,url"`
		Timeout    time.Duration `yaml:"timeout" validate:"gt=0"`
		OutboxSize int           `yaml:"outbox_size" validate:"gt=0"`
	} `yaml:"remote"`
	Training struct {
		LogoutDelay time.Duration `yaml:"logout_delay" validate:"gte=0"`
	} `yaml:"training"`
	Scheduler struct {
		DigestInterval time.Duration `yaml:"digest_interval" validate:"gte=0"`
	} `yaml:"scheduler"`
}

// LoadConfig читает yaml, подставляет переменные окружения (и .env, если он есть),
// заполняет значения по умолчанию и проверяет результат
func LoadConfig(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
			fmt.Println("f.Close() failed ", err)
		}
	}(f)

	config := &Config{}
	if err := yaml.NewDecoder(f).Decode(config); err != nil {
		return nil, err
	}

	// .env не обязателен
	_ = godotenv.Load()

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	config.applyDefaults()

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// PostgresDSN строка подключения из секции database
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%s", c.Database.Host, c.Database.Port),
		Path:     c.Database.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// StorageSource источник данных для database.NewStore
func (c *Config) StorageSource() string {
	if c.Storage.DSN != "" || c.Storage.Driver != "postgres" {
		return c.Storage.DSN
	}
	return c.PostgresDSN()
}

// IsAdminChat проверяет, что чат входит в список администраторов
func (c *Config) IsAdminChat(chatID int64) bool {
	for _, id := range c.TelegramBot.AdminChatIDs {
		if id == chatID {
			return true
		}
	}
	return false
}

func (c *Config) applyEnv() error {
	setString(&c.TelegramBot.Token, "TELEGRAM_BOT_TOKEN")
	setString(&c.TelegramBot.Mode, "BOT_MODE")
	setString(&c.TelegramBot.WebhookURL, "WEBHOOK_URL")
	setString(&c.TelegramBot.ListenAddr, "LISTEN_ADDR")
	setString(&c.Server.Host, "SERVER_HOST")
	setString(&c.Server.Port, "SERVER_PORT")
	setString(&c.Server.CORSOrigin, "CORS_ORIGIN")
	setString(&c.Server.PublicURL, "PUBLIC_URL")
	setString(&c.Storage.Driver, "STORAGE_DRIVER")
	setString(&c.Storage.DSN, "STORAGE_DSN")
	setString(&c.Remote.BaseURL, "REMOTE_BASE_URL")
	setString(&c.Database.Host, "DATABASE_HOST")
	setString(&c.Database.Port, "DATABASE_PORT")
	setString(&c.Database.User, "DATABASE_USER")
	setString(&c.Database.Password, "DATABASE_PASSWORD")
	setString(&c.Database.Name, "DATABASE_NAME")

	if v := os.Getenv("DEBUG"); v != "" {
		c.TelegramBot.Debug = v == "true" || v == "1"
	}

	// список Telegram ID администраторов через запятую
	if v := os.Getenv("ADMIN_IDS"); v != "" {
		var ids []int64
		for _, s := range strings.Split(v, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			id, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid ADMIN_IDS entry %q: %w", s, err)
			}
			ids = append(ids, id)
		}
		c.TelegramBot.AdminChatIDs = ids
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.CORSOrigin == "" {
		log.Println("cors_origin is not set, allowing any origin")
		c.Server.CORSOrigin = "*"
	}
	if c.TelegramBot.Mode == "" {
		c.TelegramBot.Mode = "polling"
	}
	if c.TelegramBot.ListenAddr == "" {
		c.TelegramBot.ListenAddr = ":8443"
	}
	if c.TelegramBot.PollInterval == 0 {
		c.TelegramBot.PollInterval = 10 * time.Second
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Remote.Timeout == 0 {
		c.Remote.Timeout = 10 * time.Second
	}
	if c.Remote.OutboxSize == 0 {
		c.Remote.OutboxSize = 256
	}
	if c.Training.LogoutDelay == 0 {
		c.Training.LogoutDelay = 3 * time.Second
	}
	if c.Scheduler.DigestInterval == 0 {
		c.Scheduler.DigestInterval = time.Hour
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
