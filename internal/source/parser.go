package source

import (
	"bytes"
	"net/url"
	"strings"

	"tululu/internal/domain"
	"tululu/internal/sanitize"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

const (
	titleSelector    = "#content h1"
	imageSelector    = "#content .bookimage img"
	genreSelector    = "#content span.d_book a"
	commentSelector  = "#content .texts span.black"
	titleAuthorSplit = "::"
)

var (
	ErrMissingHeading = errors.New("book heading not found")
	ErrMissingImage   = errors.New("book image not found")
)

// ParsePage extracts the book metadata from a detail page. The image url is
// resolved against pageURL. Resource paths are left empty.
func ParsePage(html []byte, pageURL string) (domain.BookRecord, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return domain.BookRecord{}, domain.NewParseError(pageURL, errors.Wrap(err, "invalid page url"))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return domain.BookRecord{}, domain.NewParseError(pageURL, err)
	}

	heading := doc.Find(titleSelector).First()
	if heading.Length() == 0 {
		return domain.BookRecord{}, domain.NewParseError(pageURL, ErrMissingHeading)
	}

	title, author := splitHeading(heading.Text())

	src, _ := doc.Find(imageSelector).First().Attr("src")
	if strings.TrimSpace(src) == "" {
		return domain.BookRecord{}, domain.NewParseError(pageURL, ErrMissingImage)
	}

	imgURL, err := base.Parse(strings.TrimSpace(src))
	if err != nil {
		return domain.BookRecord{}, domain.NewParseError(pageURL, errors.Wrapf(err, "invalid image url %q", src))
	}

	return domain.BookRecord{
		Title:    sanitize.Filename(title),
		Author:   author,
		ImageURL: imgURL.String(),
		Genres:   texts(doc.Find(genreSelector)),
		Comments: texts(doc.Find(commentSelector)),
	}, nil
}

// splitHeading splits "Title :: Author", the author is optional
func splitHeading(text string) (string, string) {
	title, author, _ := strings.Cut(text, titleAuthorSplit)
	return strings.TrimSpace(title), strings.TrimSpace(author)
}

func texts(s *goquery.Selection) []string {
	out := make([]string, 0, s.Length())
	s.Each(func(_ int, el *goquery.Selection) {
		if text := strings.TrimSpace(el.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}
