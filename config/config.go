package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mbolis/monday-forms/log"
)

const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

type Config struct {
	Addr string
	// PublicURL is the base of the form links written back to the trigger
	// board. Defaults to Url().
	PublicURL string

	Store      string
	ConfigPath string
	DBUrl      string
	ReadOnly   bool
	// Bootstrap is an inline configuration document, used when the store
	// holds none.
	Bootstrap string

	MondayURL     string
	MondayToken   string
	MondayTimeout time.Duration

	Debug   bool
	LogJSON bool
}

// ParseFlags reads an optional .env file, then the command line. Environment
// variables provide the flag defaults.
func ParseFlags() (cfg Config, err error) {
	return parse(flag.CommandLine, os.Args[1:])
}

func parse(fs *flag.FlagSet, args []string) (cfg Config, err error) {
	if err := loadDotenv(".env"); err != nil {
		log.Warnf("config.dotenv: %s", err)
	}

	var host string
	fs.StringVar(&host, "host", getEnv("HOST", "0.0.0.0"), "listen host name")
	var port uint
	fs.UintVar(&port, "port", uint(getEnvInt("PORT", 5000)), "listen port number")
	fs.StringVar(&cfg.PublicURL, "public-url", getEnv("PUBLIC_URL", ""), "base URL of the generated form links")
	fs.StringVar(&cfg.Store, "config-store", getEnv("CONFIG_STORE", StoreFile), "configuration backend: file, sqlite or memory")
	fs.StringVar(&cfg.ConfigPath, "config-path", getEnv("CONFIG_PATH", "setup/config.json"), "path to the JSON configuration file")
	fs.StringVar(&cfg.DBUrl, "db-url", getEnv("DB_URL", "forms.sqlite"), "path to SQLite3 DB file")
	fs.BoolVar(&cfg.ReadOnly, "read-only", getEnv("VERCEL", "") != "" || getEnvBool("READ_ONLY"), "never write the configuration to disk")
	fs.StringVar(&cfg.MondayURL, "monday-url", getEnv("MONDAY_API_URL", "https://api.monday.com/v2"), "monday.com API endpoint")
	fs.StringVar(&cfg.MondayToken, "monday-token", getEnv("MONDAY_API_TOKEN", ""), "monday.com API token")
	var timeout uint
	fs.UintVar(&timeout, "monday-timeout", uint(getEnvInt("MONDAY_TIMEOUT", 30)), "monday.com call timeout in seconds")
	fs.BoolVar(&cfg.Debug, "debug", getEnvBool("DEBUG"), "log at DEBUG level")
	fs.BoolVar(&cfg.LogJSON, "log-json", getEnv("LOG_FORMAT", "") == "json", "emit logs as JSON")
	if err = fs.Parse(args); err != nil {
		return
	}

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.MondayTimeout = time.Duration(timeout) * time.Second
	cfg.Bootstrap = os.Getenv("FORMS_CONFIG")
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	if cfg.PublicURL == "" {
		cfg.PublicURL = cfg.Url()
	}

	switch cfg.Store {
	case StoreFile, StoreSQLite, StoreMemory:
	default:
		err = errors.New("invalid parameter -config-store: " + cfg.Store)
	}

	return
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}

// FormURL is the public link of a form instance.
func (cfg Config) FormURL(id string) string {
	return cfg.PublicURL + "/form/" + id
}

// loadDotenv sets the variables of an env file that are not set already. A
// missing file is not an error.
func loadDotenv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}
