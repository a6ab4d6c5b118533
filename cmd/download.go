package cmd

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"tululu/internal/buildinfo"
	"tululu/internal/config"
	"tululu/internal/domain"
	"tululu/internal/files"
	"tululu/internal/logger"
	"tululu/internal/parse"
	"tululu/internal/retrieval"
	"tululu/internal/source"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download [start] [end]",
	Short: "Download the books in an id range",
	Long: `Download the books in an id range, both ends included.

The range can be given as "download 5 20", "download 5-20" or "download 5",
in which case the end comes from the config, or only that book is downloaded
when it lies past the configured end. Without arguments startID and endID from
the config are used.`,
	Example: `  tululu download 1 10
  tululu download 20-30 --skip-imgs --json-path books.json`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// read config
		cfg := config.New(configPath, buildinfo.Version)
		applyDownloadFlags(cmd, cfg.Config)

		if err := cfg.Config.Validate(); err != nil {
			return errors.Wrap(err, "invalid config")
		}

		// init new logger
		log := logger.New(cfg.Config)

		if configPath != "" {
			if err := cfg.UpdateConfig(); err != nil {
				log.Error().Err(err).Msg("error updating config")
			}

			// init dynamic config
			cfg.DynamicReload(log)
		}

		start, end, err := parse.IDRange(args, cfg.Config.StartID, cfg.Config.EndID)
		if err != nil {
			return err
		}

		if cfg.Config.JSONPath != "" {
			if err := files.IsValidLocation(filepath.Dir(cfg.Config.JSONPath)); err != nil {
				return errors.Wrap(err, "invalid json path")
			}
		}

		var dirs []string
		if !cfg.Config.SkipText {
			dirs = append(dirs, cfg.Config.BooksPath())
		}
		if !cfg.Config.SkipImages {
			dirs = append(dirs, cfg.Config.ImagesPath())
		}
		if err := files.EnsureDirs(dirs...); err != nil {
			return err
		}

		runLog := log.With().Str("run", uuid.NewString()).Logger()
		runLog.Info().Int("start", start).Int("end", end).Str("version", buildinfo.Version).Msg("starting download")

		src := source.NewTululu(cfg.Config, runLog)
		loop := retrieval.NewLoop(src, retrieval.PolicyFromConfig(cfg.Config), runLog.With().Str("component", "loop").Logger())

		var (
			summary retrieval.Summary
			runErr  error
		)

		for outcome, err := range loop.Run(ctx, start, end) {
			if err != nil {
				runErr = err
				break
			}

			logOutcome(runLog, outcome)
			summary.Add(outcome)
		}

		runLog.Info().
			Int("retrieved", summary.Succeeded).
			Int("notFound", summary.NotFound).
			Int("failed", summary.Failed).
			Int("retries", summary.Retries).
			Msg("finished download")

		if cfg.Config.JSONPath != "" {
			if err := files.WriteJSON(cfg.Config.JSONPath, summary.Records()); err != nil {
				runLog.Error().Err(err).Str("path", cfg.Config.JSONPath).Msg("error writing book metadata")
				if runErr == nil {
					runErr = err
				}
			}
		}

		if runErr != nil {
			if errors.Is(runErr, retrieval.ErrRetriesExhausted) {
				runLog.Error().Err(runErr).Msg("giving up, the catalog is unreachable")
			} else {
				runLog.Warn().Err(runErr).Msg("download interrupted")
			}
			return runErr
		}

		return summary.Err()
	},
}

func logOutcome(log zerolog.Logger, outcome domain.Outcome) {
	switch outcome.Kind {
	case domain.OutcomeSuccess:
		book := outcome.Record
		log.Info().
			Int("id", book.ID).
			Str("title", book.Title).
			Str("author", book.Author).
			Strs("genres", book.Genres).
			Str("text", book.TextPath).
			Str("image", book.ImagePath).
			Msg("retrieved book")
	case domain.OutcomeNotFound:
		log.Info().Int("id", outcome.ID).Msg("book not found")
	case domain.OutcomeTransientFailure:
		log.Warn().Err(outcome.Err).Int("id", outcome.ID).Int("attempt", outcome.Attempt).Msg("connection error, retrying")
	case domain.OutcomeFatalFailure:
		log.Error().Err(outcome.Err).Int("id", outcome.ID).Str("kind", domain.KindOf(outcome.Err).String()).Msg("could not retrieve book")
	}
}
