package source

import (
	"context"
	"time"

	"tululu/internal/domain"
	"tululu/internal/sharedhttp"

	"github.com/gocolly/colly"
	"github.com/gocolly/colly/extensions"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// PageFetcher downloads the detail page of a book.
type PageFetcher struct {
	cfg      *domain.Config
	throttle *rate.Limiter
	log      zerolog.Logger
}

func NewPageFetcher(cfg *domain.Config, throttle *rate.Limiter, log zerolog.Logger) *PageFetcher {
	return &PageFetcher{
		cfg:      cfg,
		throttle: throttle,
		log:      log,
	}
}

func (f *PageFetcher) newCollector() *colly.Collector {
	collector := colly.NewCollector(
		colly.AllowURLRevisit(),
		// status codes are classified by us, not by colly
		colly.ParseHTTPErrorResponse(),
	)

	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	} else {
		extensions.RandomUserAgent(collector)
	}

	collector.WithTransport(sharedhttp.Transport)
	collector.SetRequestTimeout(f.cfg.RequestTimeout)
	collector.RedirectHandler = sharedhttp.RejectRedirect

	return collector
}

// Fetch returns the raw html of the detail page for id. It fails with a
// FailureRedirect error when the catalog redirects, which means the book doesn't exist.
func (f *PageFetcher) Fetch(ctx context.Context, id int) ([]byte, error) {
	pageURL := f.cfg.PageURL(id)

	if err := f.throttle.Wait(ctx); err != nil {
		return nil, err
	}

	var (
		page       []byte
		statusCode int
	)

	c := f.newCollector()
	c.OnResponse(func(r *colly.Response) {
		statusCode = r.StatusCode
		page = r.Body
	})

	start := time.Now()
	if err := c.Visit(pageURL); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, sharedhttp.ClassifyRequestError(pageURL, err)
	}

	f.log.Trace().Str("url", pageURL).Int("status", statusCode).Dur("took", time.Since(start)).Msg("fetched page")

	if err := sharedhttp.CheckStatusCode(pageURL, statusCode); err != nil {
		return nil, err
	}

	return page, nil
}
