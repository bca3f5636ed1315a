package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage engines
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

type (
	Config struct {
		Env          string
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		RollbarToken string
		Server       ServerConfig
		Storage      StorageConfig
		Database     DatabaseConfig
	}

	ServerConfig struct {
		Host            string
		Address         string
		DebugHost       string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	StorageConfig struct {
		Engine string // memory, file or postgres
		Dir    string // file engine only
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Name          string
		DisableTLS    bool
	}
)

func (dc DatabaseConfig) Address() string {
	return net.JoinHostPort(dc.Host, dc.Port)
}

// NewConfig reads the configuration of the current ENV (DEV by default) from its env vars,
// after loading `<configDir>/.env.<env>` if it exists.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Elimu")
	v.SetDefault("build", "develop")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("storage.engine", StorageFile)
	v.SetDefault("storage.dir", "data")
	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "elimu")
	v.SetDefault("database.password", "elimu")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.name", "elimu")
	v.SetDefault("database.disableTLS", true)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
		v.SetDefault("storage.engine", StorageMemory)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	configDir := os.Getenv("CONFIG_DIR")
	if configDir == "" {
		configDir = "config"
	}
	dotEnvPath := filepath.Join(configDir, ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Address:         v.GetString("server.address"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Storage: StorageConfig{
			Engine: strings.ToLower(v.GetString("storage.engine")),
			Dir:    v.GetString("storage.dir"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			Name:          v.GetString("database.name"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
	}
}
