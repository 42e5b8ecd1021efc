package config

import (
	"flag"
	"io"
)

// newFlagSet описывает флаги сервера.
//
//	-a string          адрес HTTP сервера (ADDR)
//	-d string          DSN базы данных (DB_DSN)
//	-driver string     драйвер БД: sqlite или postgres (DB_DRIVER)
//	-app-url string    публичный URL для ссылок в письмах (APP_URL)
//	-log-level string  debug, info, warn, error (LOG_LEVEL)
//	-env-file string   путь к .env файлу
func newFlagSet(cfg *Config) *flag.FlagSet {
	fs := flag.NewFlagSet("eventz-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.String("a", cfg.Addr, "HTTP listen address")
	fs.String("d", "", "database DSN")
	fs.String("driver", cfg.DB.Driver, "database driver (sqlite|postgres)")
	fs.String("app-url", cfg.AppURL, "public URL used in email links")
	fs.String("log-level", cfg.LogLevel, "log level (debug|info|warn|error)")
	fs.String("env-file", cfg.EnvFile, "path to .env file")

	return fs
}

// explicitFlags возвращает только флаги, переданные в командной строке.
// Они применяются поверх окружения, значения по умолчанию окружение не перекрывают.
func explicitFlags(fs *flag.FlagSet) map[string]string {
	set := make(map[string]string)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = f.Value.String()
	})
	return set
}

func applyFlags(cfg *Config, set map[string]string) {
	for name, v := range set {
		switch name {
		case "a":
			cfg.Addr = v
		case "d":
			cfg.DB.DSN = v
		case "driver":
			cfg.DB.Driver = v
		case "app-url":
			cfg.AppURL = v
		case "log-level":
			cfg.LogLevel = v
		case "env-file":
			cfg.EnvFile = v
		}
	}
}
