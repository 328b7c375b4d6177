package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "PENNYWISE_"

type Application struct {
	Host     string   `koanf:"host"`
	Listen   string   `koanf:"listen"`
	Database Database `koanf:"db"`
	Ledger   Ledger   `koanf:"ledger"`
	Currency Currency `koanf:"currency"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
	// MaxConns caps the pool. Every request holds at most one connection.
	MaxConns       int32         `koanf:"maxconns"`
	ConnectTimeout time.Duration `koanf:"connecttimeout"`
	QueryTimeout   time.Duration `koanf:"querytimeout"`
}

type Ledger struct {
	// Dir holds one outgoings CSV file per user.
	Dir string `koanf:"dir"`
}

type Currency struct {
	Symbol string `koanf:"symbol"`
}

func Defaults() Application {
	return Application{
		Host:   "http://localhost:8282",
		Listen: ":8282",
		Database: Database{
			Host:           "localhost",
			Port:           5432,
			User:           "pennywise",
			Pass:           "",
			Name:           "pennywise",
			Schema:         "pennywise",
			MaxConns:       4,
			ConnectTimeout: 5 * time.Second,
			QueryTimeout:   10 * time.Second,
		},
		Ledger: Ledger{
			Dir: "./storage/ledger",
		},
		Currency: Currency{
			Symbol: "£",
		},
	}
}

// Load reads defaults, then the optional YAML file at path, then PENNYWISE_* environment variables.
func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	if err := app.Validate(); err != nil {
		return Application{}, err
	}
	return app, nil
}

// Validate reports every invalid setting at once.
func (a Application) Validate() error {
	var problems []string

	if a.Listen == "" {
		problems = append(problems, "listen address cannot be empty")
	}
	if a.Database.Host == "" {
		problems = append(problems, "db.host cannot be empty")
	}
	if a.Database.Port < 1 || a.Database.Port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid db.port %d: must be between 1 and 65535", a.Database.Port))
	}
	if a.Database.Name == "" {
		problems = append(problems, "db.name cannot be empty")
	}
	if a.Database.Schema == "" {
		problems = append(problems, "db.schema cannot be empty")
	}
	if a.Database.MaxConns < 1 {
		problems = append(problems, fmt.Sprintf("invalid db.maxconns %d: must be at least 1", a.Database.MaxConns))
	}
	if a.Database.ConnectTimeout <= 0 {
		problems = append(problems, "db.connecttimeout must be positive")
	}
	if a.Database.QueryTimeout <= 0 {
		problems = append(problems, "db.querytimeout must be positive")
	}
	if a.Ledger.Dir == "" {
		problems = append(problems, "ledger.dir cannot be empty")
	}
	if a.Currency.Symbol == "" {
		problems = append(problems, "currency.symbol cannot be empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}
