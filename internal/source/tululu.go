package source

import (
	"context"
	"net/url"
	"path/filepath"
	"strconv"

	"tululu/internal/domain"
	"tululu/internal/download"
	"tululu/internal/files"
	"tululu/internal/sanitize"
	"tululu/internal/sharedhttp"
	"tululu/internal/templater"
	"tululu/internal/utils"

	"github.com/rs/zerolog"
)

type tululu struct {
	cfg        *domain.Config
	fetcher    *PageFetcher
	downloader *download.Downloader
	log        zerolog.Logger
}

// NewTululu returns a Source for tululu.org or any catalog with the same layout.
// Fetcher and downloader share one throttle since they hit the same host.
func NewTululu(cfg *domain.Config, log zerolog.Logger) domain.Source {
	throttle := sharedhttp.NewThrottle(cfg.RequestDelay)

	return &tululu{
		cfg:        cfg,
		fetcher:    NewPageFetcher(cfg, throttle, log.With().Str("component", "fetcher").Logger()),
		downloader: download.New(cfg, throttle, log.With().Str("component", "downloader").Logger()),
		log:        log,
	}
}

func (t *tululu) String() string {
	return "tululu"
}

// Retrieve fetches and parses the detail page of id and downloads its text
// and cover. Errors are returned as they are, the caller decides what to do.
func (t *tululu) Retrieve(ctx context.Context, id int) (domain.BookRecord, error) {
	page, err := t.fetcher.Fetch(ctx, id)
	if err != nil {
		return domain.BookRecord{}, err
	}

	book, err := ParsePage(page, t.cfg.PageURL(id))
	if err != nil {
		return domain.BookRecord{}, err
	}
	book.ID = id

	if !t.cfg.SkipText {
		artifact, err := t.downloader.Resource(ctx, t.cfg.TextURL(id), t.textPath(book))
		if err != nil {
			return domain.BookRecord{}, err
		}
		book.TextPath = artifact.Path
	}

	if !t.cfg.SkipImages {
		artifact, err := t.downloader.Resource(ctx, book.ImageURL, t.imagePath(book))
		if err != nil {
			return domain.BookRecord{}, err
		}
		book.ImagePath = artifact.Path

		if format, img, err := files.ImageConfig(artifact.Path); err != nil {
			t.log.Debug().Err(err).Int("id", id).Msg("could not probe cover")
		} else {
			t.log.Trace().Int("id", id).Str("format", format).Int("width", img.Width).Int("height", img.Height).Msg("cover probed")
		}
	}

	return book, nil
}

// textPath names the text file after the naming template, "{id}.{title}.txt" by default
func (t *tululu) textPath(book domain.BookRecord) string {
	name := sanitize.Filename(templater.New(book).ExecTemplate(t.cfg.NamingTemplate))
	if name == "" {
		name = strconv.Itoa(book.ID)
	}

	return filepath.Join(t.cfg.BooksPath(), name+".txt")
}

// imagePath names the cover after the last segment of its url
func (t *tululu) imagePath(book domain.BookRecord) string {
	var name string
	if u, err := url.Parse(book.ImageURL); err == nil {
		name = sanitize.Filename(utils.LastPathSegment(u.Path))
	}

	if name == "" {
		name = "cover-" + strconv.Itoa(book.ID)
	}

	return filepath.Join(t.cfg.ImagesPath(), name)
}
