package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// - empty address/brokers disable the optional integration (Redis, Kafka, SMTP, SMS)
// -----------------------------------------------------------------------------

type Config struct {
	Server      ServerConfig
	DB          DBConfig
	Store       StoreConfig
	CORS        CORSConfig
	Log         LogConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	SMTP        SMTPConfig
	SMS         SMSConfig
	Telemetry   TelemetryConfig
	Reservation ReservationConfig
	Reminder    ReminderConfig
	RateLimit   RateLimitConfig
}

type ServerConfig struct {
	Port            string        `envconfig:"PORT" required:"true"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

type DBConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" required:"true"`
	Password    string `envconfig:"DB_PASSWORD" required:"true"`
	DBName      string `envconfig:"DB_NAME" required:"true"`
	SSLMode     string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone    string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns    int32  `envconfig:"DB_MAX_CONNS" default:"20"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

// StoreDriver "memory" keeps all data in process and ignores DB_*.
type StoreConfig struct {
	Driver string `envconfig:"STORE_DRIVER" default:"postgres"`
}

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,X-Tenant-ID"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Location"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type RedisConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR" default:""`
	Password string        `envconfig:"REDIS_PASSWORD" default:""`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	SlotTTL  time.Duration `envconfig:"SLOT_CACHE_TTL" default:"30s"`
}

type KafkaConfig struct {
	Brokers       []string `envconfig:"KAFKA_BROKERS" default:""`
	WhatsAppTopic string   `envconfig:"KAFKA_WHATSAPP_TOPIC" default:"reminders.whatsapp.v1"`
}

type SMTPConfig struct {
	Host string `envconfig:"SMTP_HOST" default:""`
	Port string `envconfig:"SMTP_PORT" default:"1025"`
	From string `envconfig:"SMTP_FROM" default:"no-reply@booking.local"`
}

type SMSConfig struct {
	WebhookURL   string `envconfig:"SMS_WEBHOOK_URL" default:""`
	WebhookToken string `envconfig:"SMS_WEBHOOK_TOKEN" default:""`
}

type TelemetryConfig struct {
	Enabled      bool    `envconfig:"OTEL_ENABLED" default:"false"`
	ServiceName  string  `envconfig:"OTEL_SERVICE_NAME" default:"booking-core"`
	OTLPEndpoint string  `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
	SampleRatio  float64 `envconfig:"OTEL_SAMPLING_RATIO" default:"1"`
}

type ReservationConfig struct {
	LockTimeout      time.Duration `envconfig:"RESERVATION_LOCK_TIMEOUT" default:"2s"`
	DefaultSlotStep  int           `envconfig:"DEFAULT_SLOT_STEP_MINUTES" default:"30"`
	DefaultStatus    string        `envconfig:"DEFAULT_APPOINTMENT_STATUS" default:"CONFIRMED"`
	DefaultChannels  []string      `envconfig:"DEFAULT_REMINDER_CHANNELS" default:"email,sms"`
	RawDefaultOffset string        `envconfig:"REMINDER_OFFSETS" default:"1440,60"`
}

type ReminderConfig struct {
	Enabled     bool          `envconfig:"REMINDER_ENABLED" default:"true"`
	Interval    time.Duration `envconfig:"REMINDER_INTERVAL" default:"1m"`
	BatchSize   int           `envconfig:"REMINDER_BATCH_SIZE" default:"50"`
	SendTimeout time.Duration `envconfig:"REMINDER_SEND_TIMEOUT" default:"10s"`
}

type RateLimitConfig struct {
	ReserveLimit int           `envconfig:"RATE_LIMIT_RESERVE" default:"30"`
	Window       time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

// ReminderOffsets parses REMINDER_OFFSETS (minutes before the appointment, comma separated).
func (c ReservationConfig) ReminderOffsets() ([]time.Duration, error) {
	return ParseOffsets(c.RawDefaultOffset)
}

func ParseOffsets(raw string) ([]time.Duration, error) {
	var out []time.Duration
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		minutes, err := strconv.Atoi(part)
		if err != nil || minutes <= 0 {
			return nil, fmt.Errorf("invalid reminder offset %q", part)
		}
		out = append(out, time.Duration(minutes)*time.Minute)
	}
	return out, nil
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if _, err := cfg.Reservation.ReminderOffsets(); err != nil {
		return Config{}, err
	}
	if cfg.Store.Driver != StoreDriverPostgres && cfg.Store.Driver != StoreDriverMemory {
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8889", // Test port
			ShutdownTimeout: time.Second,
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 20,
		},
		Store: StoreConfig{
			Driver: StoreDriverPostgres,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		Reservation: ReservationConfig{
			LockTimeout:      2 * time.Second,
			DefaultSlotStep:  30,
			DefaultStatus:    "CONFIRMED",
			DefaultChannels:  []string{"email", "sms"},
			RawDefaultOffset: "1440,60",
		},
		Reminder: ReminderConfig{
			Enabled:     false,
			Interval:    time.Minute,
			BatchSize:   50,
			SendTimeout: time.Second,
		},
		RateLimit: RateLimitConfig{
			ReserveLimit: 1000,
			Window:       time.Minute,
		},
	}
}
