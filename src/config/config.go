package config

import (
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env             string `env:"API_ENV" env-default:"local"`
	Port            string `env:"PORT" env-default:"3001"`
	ServiceName     string `env:"SERVICE_NAME" env-default:"travl-backend"`
	LogDir          string `env:"LOG_DIR" env-default:"logs"`
	AppHost         string `env:"APP_HOST"`
	JWTSecret       string `env:"JWT_SECRET"`
	MaintenanceMode bool   `env:"MAINTENANCE_MODE" env-default:"false"`
	BookingStore    string `env:"BOOKING_STORE" env-default:"memory"`
	ReminderTime    string `env:"REMINDER_TIME" env-default:"08:00"`

	Stripe   Stripe
	Database Database
	Redis    Redis
	Events   Events
	SMTP     SMTP
}

type Stripe struct {
	SecretKey     string `env:"STRIPE_SECRET_KEY"`
	WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
}

type Database struct {
	Host     string `env:"DATABASE_HOST" env-default:"localhost"`
	Port     string `env:"DATABASE_PORT" env-default:"5432"`
	User     string `env:"DATABASE_USER" env-default:"postgres"`
	Password string `env:"DATABASE_PASSWORD"`
	Name     string `env:"DATABASE_NAME" env-default:"travldb"`
	SSLMode  string `env:"DATABASE_SSLMODE" env-default:"disable"`
	TimeZone string `env:"DATABASE_TIMEZONE" env-default:"UTC"`

	MaxIdleConns    int           `env:"DATABASE_MAX_IDLE_CONNS" env-default:"10"`
	MaxOpenConns    int           `env:"DATABASE_MAX_OPEN_CONNS" env-default:"100"`
	ConnMaxLifetime time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" env-default:"1h"`
}

type Redis struct {
	URL string `env:"REDIS_HOST"`
}

// Events selects where booking lifecycle events go: none, kafka or sqs.
type Events struct {
	Broker string `env:"EVENTS_BROKER" env-default:"none"`
	Kafka  string `env:"KAFKA_BROKER" env-default:"localhost:9092"`
	Topic  string `env:"BOOKING_EVENTS_TOPIC" env-default:"BookingEvents"`
	Queue  string `env:"BOOKING_EVENTS_QUEUE" env-default:"BookingEvents"`
	Group  string `env:"BOOKING_EVENTS_GROUP" env-default:"travl-mailer"`
}

type SMTP struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" env-default:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM" env-default:"bookings@travl.com"`
}

var cfg *Config

func Load() (*Config, error) {
	c := &Config{}
	if err := cleanenv.ReadEnv(c); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	return c, nil
}

func Get() *Config {
	if cfg != nil {
		return cfg
	}
	c, err := Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %s\n", err.Error())
	}
	cfg = c
	return c
}

// Set replaces the active configuration.
func Set(c *Config) {
	cfg = c
}

func (c *Config) IsLocal() bool {
	return c.Env == "local"
}

func GetDSN() string {
	d := Get().Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone)
	return dsn
}

const DATE_FORMAT = "2006-01-02"
