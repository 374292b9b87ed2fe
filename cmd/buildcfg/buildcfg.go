// Package buildcfg turns the raw yaml configuration into the typed
// values main wires together.
package buildcfg

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
)

type ServerConfig struct {
	Port string
	// Origin is the site base URL absolute permalinks are built from.
	Origin string
}

type RabbitConfig struct {
	URL      string
	Exchange string
	Queue    string
}

type MailConfig struct {
	Host     string
	From     string
	Password string
	To       string
}

type SweeperConfig struct {
	Schedule  string
	Retention time.Duration
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) ServerConfig {
	sc := ServerConfig{
		Port:   cfg.GetString("server.port"),
		Origin: cfg.GetString("server.origin"),
	}
	if sc.Port == "" {
		sc.Port = "8080"
	}
	if sc.Origin == "" {
		log.Warn().Msg("server.origin not configured, absolute permalinks will be relative")
	}
	return sc
}

func BuildDBConfig(cfg *config.Config, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	masterDSN := cfg.GetString("db.master_dsn")
	if masterDSN == "" {
		return "", nil, nil, fmt.Errorf("db.master_dsn is required")
	}
	slaveDSNs := cfg.GetStringSlice("db.slave_dsns")

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.GetInt("db.max_open_conns"),
		MaxIdleConns:    cfg.GetInt("db.max_idle_conns"),
		ConnMaxLifetime: cfg.GetDuration("db.conn_max_lifetime"),
	}
	log.Info().Int("slaves", len(slaveDSNs)).Msg("database configuration loaded")
	return masterDSN, slaveDSNs, opts, nil
}

func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) (RabbitConfig, error) {
	rc := RabbitConfig{
		URL:      cfg.GetString("rabbit.url"),
		Exchange: cfg.GetString("rabbit.exchange"),
		Queue:    cfg.GetString("rabbit.queue"),
	}
	if rc.URL == "" {
		return rc, fmt.Errorf("rabbit.url is required")
	}
	if rc.Exchange == "" {
		rc.Exchange = "webmentions"
	}
	if rc.Queue == "" {
		rc.Queue = "webmentions.intake"
	}
	log.Info().Str("exchange", rc.Exchange).Str("queue", rc.Queue).Msg("rabbit configuration loaded")
	return rc, nil
}

func BuildMailConfig(cfg *config.Config) MailConfig {
	return MailConfig{
		Host:     cfg.GetString("mail.host"),
		From:     cfg.GetString("mail.from"),
		Password: cfg.GetString("mail.password"),
		To:       cfg.GetString("mail.notify"),
	}
}

func BuildSweeperConfig(cfg *config.Config) SweeperConfig {
	sc := SweeperConfig{
		Schedule:  cfg.GetString("sweeper.schedule"),
		Retention: cfg.GetDuration("sweeper.retention"),
	}
	if sc.Schedule == "" {
		sc.Schedule = "@daily"
	}
	if sc.Retention == 0 {
		sc.Retention = 30 * 24 * time.Hour
	}
	return sc
}
