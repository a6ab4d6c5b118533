package download

import (
	"bufio"
	"context"
	"io"
	"io/fs"
	"net/http"
	"os"

	"tululu/internal/domain"
	"tululu/internal/files"
	"tululu/internal/sharedhttp"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const defaultUserAgent = "tululu"

var ErrEmptyBody = errors.New("empty response body")

// Downloader fetches a single resource into a file.
type Downloader struct {
	client       *http.Client
	throttle     *rate.Limiter
	userAgent    string
	skipExisting bool
	log          zerolog.Logger
}

func New(cfg *domain.Config, throttle *rate.Limiter, log zerolog.Logger) *Downloader {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Downloader{
		client:       sharedhttp.NewClient(cfg.RequestTimeout),
		throttle:     throttle,
		userAgent:    userAgent,
		skipExisting: cfg.SkipExisting,
		log:          log,
	}
}

// Resource downloads url to dest. A redirect is reported as FailureRedirect
// and dest is only ever replaced by a complete file.
func (d *Downloader) Resource(ctx context.Context, url, dest string) (domain.Artifact, error) {
	if d.skipExisting {
		if size, ok := files.Exists(dest); ok {
			d.log.Debug().Str("path", dest).Msg("file already exists, skipping download")
			return domain.Artifact{Path: dest, Size: size}, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Artifact{}, errors.Wrap(err, "failed to create request")
	}

	req.Header.Set("User-Agent", d.userAgent)

	if err := d.throttle.Wait(ctx); err != nil {
		return domain.Artifact{}, err
	}

	resp, err := sharedhttp.ExecRequest(d.client, req)
	if err != nil {
		return domain.Artifact{}, err
	}
	defer resp.Body.Close()

	readBuf := bufio.NewReader(resp.Body)
	if _, err := readBuf.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Artifact{}, domain.NewContentError(url, ErrEmptyBody)
		}
		return domain.Artifact{}, sharedhttp.ClassifyRequestError(url, err)
	}

	n, err := files.WriteAtomic(dest, readBuf)
	if err != nil {
		if isStorageError(err) {
			return domain.Artifact{}, domain.NewStorageError(dest, err)
		}
		// the body broke off mid-stream
		return domain.Artifact{}, sharedhttp.ClassifyRequestError(url, err)
	}

	d.log.Trace().Str("url", url).Str("path", dest).Int64("size", n).Msg("downloaded resource")

	return domain.Artifact{Path: dest, Size: n}, nil
}

// isStorageError reports whether err came from the filesystem rather than the response body.
func isStorageError(err error) bool {
	var pathErr *fs.PathError
	var linkErr *os.LinkError
	return errors.As(err, &pathErr) || errors.As(err, &linkErr)
}
