package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		Migrate       bool
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
	}

	QueueConfig struct {
		Name        string
		Concurrency int
		MaxRetry    int
	}

	SimicheckConfig struct {
		BaseURL string
		APIKey  string
		Timeout time.Duration
	}

	ServerConfig struct {
		Host            string
		HealthHost      string
		ShutdownTimeout time.Duration
	}

	Config struct {
		Env      string
		Build    string
		AppName  string
		Debug    bool
		TestMode bool

		FrontendBaseURL  string
		SendgridApiKey   string
		defaultFromEmail string

		// ContinueOnMailError keeps sending the remaining reminders after a failed delivery.
		ContinueOnMailError bool

		RollbarToken string

		Database  DatabaseConfig
		Redis     RedisConfig
		Queue     QueueConfig
		Simicheck SimicheckConfig
		Server    ServerConfig
	}
)

func (db DatabaseConfig) Address() string {
	return net.JoinHostPort(db.Host, db.Port)
}

// DefaultFromEmail parses the configured sender; falls back to a bare address.
func (conf *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(conf.defaultFromEmail)
	if err != nil {
		return mail.Address{Name: conf.AppName, Address: conf.defaultFromEmail}
	}
	if addr.Name == "" {
		addr.Name = conf.AppName
	}
	return *addr
}

// NewConfig loads the configuration for the current ENV (DEV by default).
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Expertiza")
	v.SetDefault("build", "develop")

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "expertiza")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.migrate", false)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("queue.name", "mailers")
	v.SetDefault("queue.concurrency", 5)
	v.SetDefault("queue.maxRetry", 25)

	v.SetDefault("mail.defaultFromEmail", "noreply@localhost")
	v.SetDefault("mail.frontendBaseURL", "http://expertiza.ncsu.edu")
	v.SetDefault("mail.sendgridApiKey", "")
	v.SetDefault("reminder.continueOnError", false)

	v.SetDefault("rollbar.token", "")

	v.SetDefault("simicheck.baseURL", "https://www.simicheck.com/api")
	v.SetDefault("simicheck.apiKey", "")
	v.SetDefault("simicheck.timeout", 30*time.Second)

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.healthHost", ":8081")
	v.SetDefault("server.shutdownTimeout", 15*time.Second)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	if wd, err := os.Getwd(); err == nil {
		dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
			}
		} else if !os.IsNotExist(err) {
			log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
		}
	}
	v.AutomaticEnv()

	return &Config{
		Env:      env,
		Build:    v.GetString("build"),
		AppName:  v.GetString("appName"),
		Debug:    v.GetBool("debug"),
		TestMode: v.GetBool("testMode"),

		FrontendBaseURL:  strings.TrimRight(v.GetString("mail.frontendBaseURL"), "/"),
		SendgridApiKey:   v.GetString("mail.sendgridApiKey"),
		defaultFromEmail: v.GetString("mail.defaultFromEmail"),

		ContinueOnMailError: v.GetBool("reminder.continueOnError"),

		RollbarToken: v.GetString("rollbar.token"),

		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
			Migrate:       v.GetBool("database.migrate"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Queue: QueueConfig{
			Name:        v.GetString("queue.name"),
			Concurrency: v.GetInt("queue.concurrency"),
			MaxRetry:    v.GetInt("queue.maxRetry"),
		},
		Simicheck: SimicheckConfig{
			BaseURL: strings.TrimRight(v.GetString("simicheck.baseURL"), "/"),
			APIKey:  v.GetString("simicheck.apiKey"),
			Timeout: v.GetDuration("simicheck.timeout"),
		},
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			HealthHost:      v.GetString("server.healthHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
		},
	}
}

// NewTestConfig returns the configuration used by tests, regardless of ENV.
func NewTestConfig() *Config {
	conf := NewConfig()
	conf.Env = "TEST"
	conf.TestMode = true
	conf.Debug = true
	conf.AppName = "Expertiza"
	conf.FrontendBaseURL = "http://expertiza.ncsu.edu"
	conf.defaultFromEmail = "noreply@expertiza.test"
	conf.ContinueOnMailError = false
	return conf
}
