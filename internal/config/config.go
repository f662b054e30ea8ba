package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Addr     string   `koanf:"addr"`
	Frontend Frontend `koanf:"frontend"`
	Gemini   Gemini   `koanf:"gemini"`
	Insights Insights `koanf:"insights"`
	Database Database `koanf:"db"`
}

type Frontend struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
}

type Gemini struct {
	ApiKey         string `koanf:"apikey"`
	Model          string `koanf:"model"`
	TimeoutSeconds int    `koanf:"timeoutseconds"`
}

type Insights struct {
	DebounceMillis int `koanf:"debouncemillis"`
}

type Database struct {
	Path string `koanf:"path"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Addr: ":8282",
		Frontend: Frontend{
			Enabled: true,
			Dir:     "frontend",
		},
		Gemini: Gemini{
			Model:          "gemini-3-flash-preview",
			TimeoutSeconds: 30,
		},
		Insights: Insights{
			DebounceMillis: 1000,
		},
		Database: Database{
			Path: "data/zenbudget.db",
		},
	}, "koanf"), nil)
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
		Prefix: "ZENBUDGET_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "ZENBUDGET_")), "_", ".")
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

	return app, nil
}
