package templater

import (
	"regexp"
	"strconv"
	"strings"

	"tululu/internal/domain"
	"tululu/internal/utils"
)

var templatePattern = regexp.MustCompile(`{((\w+?)(:.*?)?)}`)

// Templater names the text file of a book, e.g. "{id:4}. {title}" or "{author:<.> - }{title}".
type Templater struct {
	Book domain.BookRecord
}

func New(book domain.BookRecord) *Templater {
	return &Templater{
		Book: book,
	}
}

func (t *Templater) handleID(options string) string {
	if options == "" {
		return strconv.Itoa(t.Book.ID)
	}

	length, _ := strconv.ParseInt(strings.TrimPrefix(options, ":"), 10, 32)
	return utils.PadInt(t.Book.ID, int(length))
}

// handleText replaces <.> in options with value, or returns value as is without options.
// Nothing is rendered for empty values so separators in options disappear with them.
func handleText(value, options string) string {
	if value == "" {
		return ""
	}

	if options == "" {
		return value
	}

	return strings.ReplaceAll(strings.TrimPrefix(options, ":"), "<.>", value)
}

func (t *Templater) ExecTemplate(template string) string {
	newString := template
	for _, match := range templatePattern.FindAllStringSubmatch(template, -1) {
		replace := match[0]

		varName, options := match[2], match[3]
		switch varName {
		case "id":
			replace = t.handleID(options)
		case "title":
			replace = handleText(t.Book.Title, options)
		case "author":
			replace = handleText(t.Book.Author, options)
		}

		newString = strings.Replace(newString, match[0], replace, 1)
	}

	return newString
}
