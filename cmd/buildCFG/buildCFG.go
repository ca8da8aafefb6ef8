package buildCFG

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"

	"eventInvite/internal/mailer"
	"eventInvite/internal/rabbit"
	"eventInvite/internal/whatsapp"
)

type ServerConfig struct {
	Port          string
	Mode          string
	PublicBaseURL string
	FrontendDir   string
	Migrations    string
}

type AuthConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
}

type StorageConfig struct {
	Dir       string
	Bucket    string
	PublicURL string
}

type WhatsAppConfig struct {
	Enabled bool
	whatsapp.Config
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) ServerConfig {
	sc := ServerConfig{
		Port:          orDefault(cfg.GetString("server.port"), "8080"),
		Mode:          orDefault(cfg.GetString("server.mode"), "release"),
		PublicBaseURL: cfg.GetString("server.public_base_url"),
		FrontendDir:   orDefault(cfg.GetString("server.frontend_dir"), "./frontend"),
		Migrations:    orDefault(cfg.GetString("server.migrations_dir"), "migrations/postgres"),
	}
	if sc.PublicBaseURL == "" {
		sc.PublicBaseURL = "http://localhost:" + sc.Port
		log.Warn().Str("public_base_url", sc.PublicBaseURL).Msg("server.public_base_url is not set, RSVP links use localhost")
	}
	return sc
}

func BuildDBConfig(cfg *config.Config, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	master := cfg.GetString("postgres.master_dsn")
	if master == "" {
		return "", nil, nil, errors.New("postgres.master_dsn is required")
	}
	slaves := cfg.GetStringSlice("postgres.slave_dsns")

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.GetInt("postgres.max_open_conns"),
		MaxIdleConns:    cfg.GetInt("postgres.max_idle_conns"),
		ConnMaxLifetime: cfg.GetDuration("postgres.conn_max_lifetime"),
	}
	if opts.MaxOpenConns == 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 5
	}
	log.Info().Int("slaves", len(slaves)).Int("max_open_conns", opts.MaxOpenConns).Msg("DB config loaded")
	return master, slaves, opts, nil
}

// BuildRabbitConfig also returns the reminder delay; zero turns reminders off.
func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) (rabbit.Config, time.Duration, error) {
	rc := rabbit.Config{
		Url:      cfg.GetString("rabbitmq.url"),
		Exchange: orDefault(cfg.GetString("rabbitmq.exchange"), "invite_delayed"),
		Queue:    orDefault(cfg.GetString("rabbitmq.queue"), "invite_jobs"),
		Prefetch: cfg.GetInt("rabbitmq.prefetch"),
	}
	if rc.Url == "" {
		return rc, 0, errors.New("rabbitmq.url is required")
	}
	delay := time.Duration(cfg.GetInt("rabbitmq.reminder_delay_hours")) * time.Hour
	log.Info().Str("exchange", rc.Exchange).Str("queue", rc.Queue).Dur("reminder_delay", delay).Msg("RabbitMQ config loaded")
	return rc, delay, nil
}

func BuildAuthConfig(cfg *config.Config, log *zerolog.Logger) (AuthConfig, error) {
	ac := AuthConfig{
		JWTSecret:  cfg.GetString("auth.jwt_secret"),
		SessionTTL: cfg.GetDuration("auth.session_ttl"),
	}
	if len(ac.JWTSecret) < 16 {
		return ac, fmt.Errorf("auth.jwt_secret must be at least 16 characters")
	}
	if ac.SessionTTL <= 0 {
		ac.SessionTTL = 7 * 24 * time.Hour
		log.Info().Dur("session_ttl", ac.SessionTTL).Msg("auth.session_ttl not set, using default")
	}
	return ac, nil
}

func BuildStorageConfig(cfg *config.Config, server ServerConfig) StorageConfig {
	sc := StorageConfig{
		Dir:       orDefault(cfg.GetString("storage.dir"), "./data/storage"),
		Bucket:    orDefault(cfg.GetString("storage.bucket"), "invites"),
		PublicURL: cfg.GetString("storage.public_url"),
	}
	if sc.PublicURL == "" {
		sc.PublicURL = server.PublicBaseURL + "/storage"
	}
	return sc
}

func BuildCatalogPath(cfg *config.Config) string {
	return orDefault(cfg.GetString("catalog.path"), "catalog/designs.yaml")
}

func BuildMailerConfig(cfg *config.Config, log *zerolog.Logger) mailer.Config {
	mc := mailer.Config{
		Host:     cfg.GetString("smtp.host"),
		Port:     cfg.GetInt("smtp.port"),
		User:     cfg.GetString("smtp.user"),
		Password: cfg.GetString("smtp.password"),
		From:     cfg.GetString("smtp.from"),
	}
	if mc.Host == "" {
		log.Warn().Msg("smtp.host is not set, emails are disabled")
	}
	if mc.Port == 0 {
		mc.Port = 587
	}
	return mc
}

func BuildWhatsAppConfig(cfg *config.Config) WhatsAppConfig {
	return WhatsAppConfig{
		Enabled: cfg.GetBool("whatsapp.enabled"),
		Config:  whatsapp.Config{DataDir: orDefault(cfg.GetString("whatsapp.data_dir"), "./data/whatsapp")},
	}
}
