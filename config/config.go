package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v3"
)

type Target struct {
	BaseURL string `yaml:"baseurl"`
}

type ClassifierConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	BatchSize int    `yaml:"batchsize"`
	Workers   int    `yaml:"workers"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type Config struct {
	Target         Target           `yaml:"target"`
	Agent          string           `yaml:"agent"`
	Addr           string           `yaml:"addr"`
	PageBudget     int              `yaml:"pagebudget"`
	MaxRedirects   int              `yaml:"maxredirects"`
	TimeoutSeconds int              `yaml:"timeoutseconds"`
	SitemapDepth   int              `yaml:"sitemapdepth"`
	DelayMillis    int              `yaml:"delaymillis"`
	Classifier     ClassifierConfig `yaml:"classifier"`
	Database       DatabaseConfig   `yaml:"database"`
}

// Load parses a YAML config and fills in the defaults. A page budget of 0
// means unlimited.
func Load(yamlBytes []byte) (conf *Config, err error) {
	conf = &Config{
		Agent:          "website-auditor/1.0",
		Addr:           ":3000",
		MaxRedirects:   5,
		TimeoutSeconds: 10,
		SitemapDepth:   5,
	}
	errUnmarshal := yaml.Unmarshal(yamlBytes, conf)
	if errUnmarshal != nil {
		return nil, errUnmarshal
	}
	if conf.Target.BaseURL == "" {
		return nil, errors.New("config needs a target baseurl")
	}
	if conf.Classifier.BatchSize <= 0 {
		conf.Classifier.BatchSize = 20
	}
	if conf.Classifier.Workers <= 0 {
		conf.Classifier.Workers = 3
	}
	return conf, nil
}

// Get reads a config file. A .env file next to the process, if present,
// may override the database DSN through DATABASE_URL.
func Get(filename string) (conf *Config, err error) {
	yamlBytes, errRead := os.ReadFile(filename)
	if errRead != nil {
		return nil, errRead
	}
	conf, errLoad := Load(yamlBytes)
	if errLoad != nil {
		return nil, errLoad
	}
	_ = godotenv.Load()
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		conf.Database.DSN = dsn
	}
	return conf, nil
}
