package buildCFG

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"eventplanner/internal/mailer"
)

const (
	MailTransportSMTP   = "smtp"
	MailTransportRabbit = "rabbit"
	MailTransportLog    = "log"
)

type ServerConfig struct {
	Port       string
	Mode       string
	AdminToken string
	Frontend   string
}

type AppConfig struct {
	Location       *time.Location
	CategoriesFile string
	MigrationsDir  string
}

type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	SettingsKey string
}

type MailConfig struct {
	Transport string
	SMTP      mailer.SMTPConfig
}

type RabbitConfig struct {
	Url      string
	Exchange string
	Queue    string
}

// getter is the part of the wbf *config.Config used here.
type getter interface {
	GetString(key string) string
	GetInt(key string) int
	GetDuration(key string) time.Duration
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func BuildServerConfig(cfg getter, log *zerolog.Logger) ServerConfig {
	sc := ServerConfig{
		Port:       orDefault(cfg.GetString("server.port"), "8080"),
		Mode:       orDefault(cfg.GetString("server.mode"), "release"),
		AdminToken: cfg.GetString("server.admin_token"),
		Frontend:   cfg.GetString("server.frontend_dir"),
	}
	if sc.AdminToken == "" {
		log.Warn().Msg("server.admin_token is empty, admin endpoints are not protected")
	}
	return sc
}

func BuildAppConfig(cfg getter) (AppConfig, error) {
	tz := orDefault(cfg.GetString("app.timezone"), "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return AppConfig{}, fmt.Errorf("app.timezone %q: %w", tz, err)
	}
	return AppConfig{
		Location:       loc,
		CategoriesFile: cfg.GetString("app.categories_file"),
		MigrationsDir:  orDefault(cfg.GetString("app.migrations_dir"), "migrations/postgres"),
	}, nil
}

func BuildDBConfig(cfg getter, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	master := cfg.GetString("postgres.master_dsn")
	if master == "" {
		return "", nil, nil, fmt.Errorf("postgres.master_dsn is required")
	}

	var slaves []string
	for _, dsn := range strings.Split(cfg.GetString("postgres.slave_dsns"), ",") {
		if dsn = strings.TrimSpace(dsn); dsn != "" {
			slaves = append(slaves, dsn)
		}
	}

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

	log.Info().Int("slaves", len(slaves)).Int("max_open_conns", opts.MaxOpenConns).Msg("database config loaded")
	return master, slaves, opts, nil
}

func BuildRedisConfig(cfg getter) RedisConfig {
	return RedisConfig{
		Addr:        orDefault(cfg.GetString("redis.addr"), "localhost:6379"),
		Password:    cfg.GetString("redis.password"),
		DB:          cfg.GetInt("redis.db"),
		SettingsKey: cfg.GetString("redis.settings_key"),
	}
}

func BuildMailConfig(cfg getter) (MailConfig, error) {
	mc := MailConfig{
		Transport: orDefault(cfg.GetString("mail.transport"), MailTransportLog),
		SMTP: mailer.SMTPConfig{
			Host:     cfg.GetString("mail.smtp_host"),
			Port:     cfg.GetInt("mail.smtp_port"),
			Username: cfg.GetString("mail.username"),
			Password: cfg.GetString("mail.password"),
			From:     cfg.GetString("mail.from"),
		},
	}
	if mc.SMTP.Port == 0 {
		mc.SMTP.Port = 587
	}

	switch mc.Transport {
	case MailTransportLog:
	case MailTransportSMTP, MailTransportRabbit:
		if mc.SMTP.Host == "" || mc.SMTP.From == "" {
			return MailConfig{}, fmt.Errorf("mail.smtp_host and mail.from are required for transport %q", mc.Transport)
		}
	default:
		return MailConfig{}, fmt.Errorf("unknown mail.transport %q", mc.Transport)
	}
	return mc, nil
}

func BuildRabbitConfig(cfg getter, log *zerolog.Logger) (RabbitConfig, error) {
	rc := RabbitConfig{
		Url:      cfg.GetString("rabbit.url"),
		Exchange: orDefault(cfg.GetString("rabbit.exchange"), "event_planner.mail"),
		Queue:    orDefault(cfg.GetString("rabbit.queue"), "event_planner.mail"),
	}
	if rc.Url == "" {
		return RabbitConfig{}, fmt.Errorf("rabbit.url is required")
	}
	log.Info().Str("exchange", rc.Exchange).Str("queue", rc.Queue).Msg("rabbit config loaded")
	return rc, nil
}
