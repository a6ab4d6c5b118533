package config

import (
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"tululu/internal/domain"
	"tululu/internal/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envPrefix = "TULULU__"

var configTemplate = `# config.yaml

# Catalog base URL
#
# Default: "https://tululu.org"
#
baseURL: "https://tululu.org"

# Detail page and text endpoint, %d is replaced with the book id
#
# Default: "/b%d/" and "/txt.php?id=%d"
#
pageTemplate: "/b%d/"
textTemplate: "/txt.php?id=%d"

# Destination folder
# books and images directories are created inside it
#
# Default: "" (current directory)
#
destFolder: ""

# Directory names for text files and covers
#
# Default: "books" and "images"
#
booksDir: "books"
imagesDir: "images"

# Naming Template
# This can be used to change how downloaded text files are named, .txt is appended
# The default results in something like this: 32.Alice in Wonderland
#
# Default: {id}.{title}
#
namingTemplate: "{id}.{title}"

# Range used when no ids are passed on the command line
#
# Default: 1 and 10
#
startID: 1
endID: 10

# Wait time before retrying a book after the connection was lost
#
# Default: 5s
#
retryBackoff: 5s

# Max retries per book after the connection was lost, 0 retries until it comes back
#
# Default: 0
#
maxRetries: 0

# Request timeout
#
# Default: 60s
#
requestTimeout: 60s

# Minimum delay between two requests to the catalog
#
# Default: 0s
#
requestDelay: 0s

# User agent, a random one is used per request if empty
#
# Optional
#
#userAgent: ""

# Skip text or cover downloads
#
# Default: false
#
skipText: false
skipImages: false

# Don't download files that already exist
#
# Default: false
#
skipExisting: false

# Write the metadata of all downloaded books to this file
#
# Optional
#
#jsonPath: ""

# tululu logs file
# If not defined, logs to stderr only
# Make sure to use forward slashes and include the filename with extension. e.g. "logs/tululu.log", "C:/tululu/logs/tululu.log"
#
# Optional
#
#logPath: ""

# Log level
#
# Default: "INFO"
#
# Options: "ERROR", "DEBUG", "INFO", "WARN", "TRACE"
#
logLevel: "INFO"

# Log Max Size
#
# Default: 50
#
# Max log size in megabytes
#
#logMaxSize: 50

# Log Max Backups
#
# Default: 3
#
# Max amount of old log files
#
#logMaxBackups: 3
`

func (c *AppConfig) writeConfig(configPath string, configFile string) error {
	cfgPath := filepath.Join(configPath, configFile)

	// check if configPath exists, if not create it
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		err := os.MkdirAll(configPath, os.ModePerm)
		if err != nil {
			return errors.Wrapf(err, "could not create config dir %s", configPath)
		}
	}

	// check if config exists, if not create it
	if _, err := os.Stat(cfgPath); errors.Is(err, os.ErrNotExist) {
		f, err := os.Create(cfgPath)
		if err != nil {
			return errors.Wrapf(err, "could not create config file %s", cfgPath)
		}
		defer f.Close()

		if _, err = f.WriteString(configTemplate); err != nil {
			return errors.Wrapf(err, "could not write config file %s", cfgPath)
		}

		return f.Sync()
	}

	return nil
}

type Config interface {
	UpdateConfig() error
	DynamicReload(log logger.Logger)
}

type AppConfig struct {
	Config *domain.Config
	v      *viper.Viper
	m      *sync.Mutex
}

func New(configPath string, version string) *AppConfig {
	c, err := Load(configPath, version)
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	return c
}

// Load reads defaults, the config file and the environment, in that order.
func Load(configPath string, version string) (*AppConfig, error) {
	c := &AppConfig{
		v: viper.New(),
		m: new(sync.Mutex),
	}
	c.defaults()
	c.Config = &domain.Config{}

	if err := c.load(configPath); err != nil {
		return nil, err
	}

	c.Config.Version = version
	c.Config.ConfigPath = configPath

	c.loadFromEnv()

	return c, nil
}

func (c *AppConfig) defaults() {
	c.v.SetDefault("baseURL", "https://tululu.org")
	c.v.SetDefault("pageTemplate", "/b%d/")
	c.v.SetDefault("textTemplate", "/txt.php?id=%d")
	c.v.SetDefault("destFolder", "")
	c.v.SetDefault("booksDir", "books")
	c.v.SetDefault("imagesDir", "images")
	c.v.SetDefault("namingTemplate", "{id}.{title}")
	c.v.SetDefault("startID", 1)
	c.v.SetDefault("endID", 10)
	c.v.SetDefault("retryBackoff", 5*time.Second)
	c.v.SetDefault("maxRetries", 0)
	c.v.SetDefault("requestTimeout", 60*time.Second)
	c.v.SetDefault("requestDelay", 0)
	c.v.SetDefault("userAgent", "")
	c.v.SetDefault("skipText", false)
	c.v.SetDefault("skipImages", false)
	c.v.SetDefault("skipExisting", false)
	c.v.SetDefault("jsonPath", "")
	c.v.SetDefault("logPath", "")
	c.v.SetDefault("logLevel", "INFO")
	c.v.SetDefault("logMaxSize", 50)
	c.v.SetDefault("logMaxBackups", 3)
}

func (c *AppConfig) loadFromEnv() {
	// a .env file in the working directory is optional
	_ = godotenv.Load()

	envs := os.Environ()
	for _, env := range envs {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}

		envPair := strings.SplitN(env, "=", 2)
		if envPair[1] == "" {
			continue
		}

		switch envPair[0] {
		case envPrefix + "BASE_URL":
			c.Config.BaseURL = envPair[1]
		case envPrefix + "DEST_FOLDER":
			c.Config.DestFolder = envPair[1]
		case envPrefix + "NAMING_TEMPLATE":
			c.Config.NamingTemplate = envPair[1]
		case envPrefix + "RETRY_BACKOFF":
			if d, err := time.ParseDuration(envPair[1]); err == nil && d >= 0 {
				c.Config.RetryBackoff = d
			}
		case envPrefix + "MAX_RETRIES":
			if i, err := strconv.ParseInt(envPair[1], 10, 32); err == nil && i >= 0 {
				c.Config.MaxRetries = int(i)
			}
		case envPrefix + "REQUEST_DELAY":
			if d, err := time.ParseDuration(envPair[1]); err == nil && d >= 0 {
				c.Config.RequestDelay = d
			}
		case envPrefix + "USER_AGENT":
			c.Config.UserAgent = envPair[1]
		case envPrefix + "JSON_PATH":
			c.Config.JSONPath = envPair[1]
		case envPrefix + "LOG_LEVEL":
			c.Config.LogLevel = envPair[1]
		case envPrefix + "LOG_PATH":
			c.Config.LogPath = envPair[1]
		case envPrefix + "LOG_MAX_SIZE":
			if i, err := strconv.ParseInt(envPair[1], 10, 32); err == nil && i > 0 {
				c.Config.LogMaxSize = int(i)
			}
		case envPrefix + "LOG_MAX_BACKUPS":
			if i, err := strconv.ParseInt(envPair[1], 10, 32); err == nil && i > 0 {
				c.Config.LogMaxBackups = int(i)
			}
		}
	}
}

func (c *AppConfig) load(configPath string) error {
	c.v.SetConfigType("yaml")

	if configPath != "" {
		// clean trailing slash from configPath
		configPath = path.Clean(configPath)

		// check if path and file exists
		// if not, create path and file
		if err := c.writeConfig(configPath, "config.yaml"); err != nil {
			log.Printf("write error: %q", err)
		}

		c.v.SetConfigFile(path.Join(configPath, "config.yaml"))
	} else {
		c.v.SetConfigName("config")

		// Search config in directories
		c.v.AddConfigPath(".")
		c.v.AddConfigPath("$HOME/.config/tululu")
		c.v.AddConfigPath("$HOME/.tululu")
	}

	// a missing config file is fine, defaults apply
	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Printf("config read error: %q", err)
		}
	}

	if err := c.v.Unmarshal(c.Config); err != nil {
		return errors.Wrapf(err, "could not unmarshal config file %s", c.v.ConfigFileUsed())
	}

	return nil
}

func (c *AppConfig) DynamicReload(log logger.Logger) {
	c.v.WatchConfig()

	c.v.OnConfigChange(func(_ fsnotify.Event) {
		c.m.Lock()
		defer c.m.Unlock()

		logLevel := c.v.GetString("logLevel")
		c.Config.LogLevel = logLevel
		log.SetLogLevel(c.Config.LogLevel)

		logPath := c.v.GetString("logPath")
		c.Config.LogPath = logPath

		log.Debug().Msg("config file reloaded!")
	})
}

func (c *AppConfig) UpdateConfig() error {
	filePath := path.Join(c.Config.ConfigPath, "config.yaml")

	f, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("could not read config filePath: %s: %w", filePath, err)
	}

	lines := strings.Split(string(f), "\n")
	lines = c.processLines(lines)

	output := strings.Join(lines, "\n")
	if err := os.WriteFile(filePath, []byte(output), 0o644); err != nil {
		return fmt.Errorf("could not write config file: %s: %w", filePath, err)
	}

	return nil
}

func (c *AppConfig) processLines(lines []string) []string {
	// keep track of not found values to append at bottom
	var (
		foundLineLogLevel = false
		foundLineLogPath  = false
	)

	for i, line := range lines {
		if !foundLineLogLevel && strings.Contains(line, "logLevel:") {
			lines[i] = fmt.Sprintf(`logLevel: "%s"`, c.Config.LogLevel)
			foundLineLogLevel = true
		}
		if !foundLineLogPath && strings.Contains(line, "logPath:") {
			if c.Config.LogPath == "" {
				lines[i] = `#logPath: ""`
			} else {
				lines[i] = fmt.Sprintf(`logPath: "%s"`, c.Config.LogPath)
			}
			foundLineLogPath = true
		}
	}

	if !foundLineLogLevel {
		lines = append(lines, "# Log level")
		lines = append(lines, "#")
		lines = append(lines, `# Default: "INFO"`)
		lines = append(lines, "#")
		lines = append(lines, `# Options: "ERROR", "DEBUG", "INFO", "WARN", "TRACE"`)
		lines = append(lines, "#")
		lines = append(lines, fmt.Sprintf(`logLevel: "%s"`, c.Config.LogLevel))
	}

	if !foundLineLogPath {
		lines = append(lines, "# Log Path")
		lines = append(lines, "#")
		lines = append(lines, "# Optional")
		lines = append(lines, "#")
		if c.Config.LogPath == "" {
			lines = append(lines, `#logPath: ""`)
		} else {
			lines = append(lines, fmt.Sprintf(`logPath: "%s"`, c.Config.LogPath))
		}
	}

	return lines
}
