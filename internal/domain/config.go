package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type Config struct {
	Version    string
	ConfigPath string

	BaseURL        string        `mapstructure:"baseURL"`
	PageTemplate   string        `mapstructure:"pageTemplate"`
	TextTemplate   string        `mapstructure:"textTemplate"`
	DestFolder     string        `mapstructure:"destFolder"`
	BooksDir       string        `mapstructure:"booksDir"`
	ImagesDir      string        `mapstructure:"imagesDir"`
	NamingTemplate string        `mapstructure:"namingTemplate"`
	StartID        int           `mapstructure:"startID"`
	EndID          int           `mapstructure:"endID"`
	RetryBackoff   time.Duration `mapstructure:"retryBackoff"`
	MaxRetries     int           `mapstructure:"maxRetries"` // 0 retries forever
	RequestTimeout time.Duration `mapstructure:"requestTimeout"`
	RequestDelay   time.Duration `mapstructure:"requestDelay"`
	UserAgent      string        `mapstructure:"userAgent"`
	SkipText       bool          `mapstructure:"skipText"`
	SkipImages     bool          `mapstructure:"skipImages"`
	SkipExisting   bool          `mapstructure:"skipExisting"`
	JSONPath       string        `mapstructure:"jsonPath"`

	LogPath       string `mapstructure:"logPath"`
	LogLevel      string `mapstructure:"logLevel"`
	LogMaxSize    int    `mapstructure:"logMaxSize"` // in megabytes
	LogMaxBackups int    `mapstructure:"logMaxBackups"`
}

// PageURL returns the detail page url for a book id.
func (c *Config) PageURL(id int) string {
	return strings.TrimSuffix(c.BaseURL, "/") + fmt.Sprintf(c.PageTemplate, id)
}

// TextURL returns the plain text endpoint for a book id.
func (c *Config) TextURL(id int) string {
	return strings.TrimSuffix(c.BaseURL, "/") + fmt.Sprintf(c.TextTemplate, id)
}

func (c *Config) BooksPath() string {
	return filepath.Join(c.DestFolder, c.BooksDir)
}

func (c *Config) ImagesPath() string {
	return filepath.Join(c.DestFolder, c.ImagesDir)
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("baseURL can't be empty")
	}

	if err := checkTemplate("pageTemplate", c.PageTemplate); err != nil {
		return err
	}

	if err := checkTemplate("textTemplate", c.TextTemplate); err != nil {
		return err
	}

	if c.BooksDir == "" || c.ImagesDir == "" {
		return errors.New("booksDir and imagesDir can't be empty")
	}

	if c.RequestTimeout <= 0 {
		return errors.Errorf("requestTimeout must be positive, got %s", c.RequestTimeout)
	}

	if c.RetryBackoff < 0 || c.RequestDelay < 0 {
		return errors.New("retryBackoff and requestDelay can't be negative")
	}

	if c.MaxRetries < 0 {
		return errors.Errorf("maxRetries can't be negative, got %d", c.MaxRetries)
	}

	return nil
}

func checkTemplate(name, tmpl string) error {
	if strings.Count(tmpl, "%d") != 1 || strings.Count(tmpl, "%") != 1 {
		return errors.Errorf("%s must contain exactly one %%d verb: %q", name, tmpl)
	}

	return nil
}
