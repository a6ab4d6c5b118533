package cmd

import (
	"time"

	"tululu/internal/domain"

	"github.com/spf13/cobra"
)

var (
	configPath string

	destFolder   string
	booksDir     string
	imagesDir    string
	jsonPath     string
	naming       string
	userAgent    string
	skipText     bool
	skipImages   bool
	skipExisting bool

	maxRetries   int
	backoff      time.Duration
	requestDelay time.Duration
)

func initRootFlags() {
	rootCmd.PersistentFlags().StringVarP(
		&configPath,
		"config",
		"c",
		"",
		"specifies the path to your config directory",
	)
}

func initDownloadFlags() {
	downloadCmd.Flags().StringVarP(
		&destFolder,
		"dest-folder",
		"d",
		"",
		"specifies the folder the books and images directories are created in",
	)
	downloadCmd.Flags().StringVar(
		&booksDir,
		"books-dir",
		"books",
		"specifies the directory name for book texts",
	)
	downloadCmd.Flags().StringVar(
		&imagesDir,
		"images-dir",
		"images",
		"specifies the directory name for cover images",
	)
	downloadCmd.Flags().StringVarP(
		&jsonPath,
		"json-path",
		"j",
		"",
		"writes the metadata of all retrieved books to this json file",
	)
	downloadCmd.Flags().StringVarP(
		&naming,
		"naming",
		"n",
		"{id}.{title}",
		"specifies the naming template for book texts",
	)
	downloadCmd.Flags().StringVar(
		&userAgent,
		"user-agent",
		"",
		"specifies the user agent, a random one is used for pages when empty",
	)

	downloadCmd.Flags().BoolVar(
		&skipText,
		"skip-txt",
		false,
		"don't download book texts",
	)
	downloadCmd.Flags().BoolVar(
		&skipImages,
		"skip-imgs",
		false,
		"don't download cover images",
	)
	downloadCmd.Flags().BoolVar(
		&skipExisting,
		"skip-existing",
		false,
		"don't download files that already exist",
	)

	downloadCmd.Flags().IntVar(
		&maxRetries,
		"max-retries",
		0,
		"specifies how often a book is retried after a connection error, 0 retries until interrupted",
	)
	downloadCmd.Flags().DurationVar(
		&backoff,
		"backoff",
		5*time.Second,
		"specifies how long to wait after a connection error",
	)
	downloadCmd.Flags().DurationVar(
		&requestDelay,
		"request-delay",
		0,
		"specifies the minimum time between two requests",
	)
}

// applyDownloadFlags overrides the config with every flag set on the command line
func applyDownloadFlags(cmd *cobra.Command, cfg *domain.Config) {
	flags := cmd.Flags()

	if flags.Changed("dest-folder") {
		cfg.DestFolder = destFolder
	}
	if flags.Changed("books-dir") {
		cfg.BooksDir = booksDir
	}
	if flags.Changed("images-dir") {
		cfg.ImagesDir = imagesDir
	}
	if flags.Changed("json-path") {
		cfg.JSONPath = jsonPath
	}
	if flags.Changed("naming") {
		cfg.NamingTemplate = naming
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent = userAgent
	}
	if flags.Changed("skip-txt") {
		cfg.SkipText = skipText
	}
	if flags.Changed("skip-imgs") {
		cfg.SkipImages = skipImages
	}
	if flags.Changed("skip-existing") {
		cfg.SkipExisting = skipExisting
	}
	if flags.Changed("max-retries") {
		cfg.MaxRetries = maxRetries
	}
	if flags.Changed("backoff") {
		cfg.RetryBackoff = backoff
	}
	if flags.Changed("request-delay") {
		cfg.RequestDelay = requestDelay
	}
}
