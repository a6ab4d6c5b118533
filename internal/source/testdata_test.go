package source

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
)

const bookPage = `<html><body>
<div id="content">
  <h1>%s&nbsp;&nbsp; :: &nbsp;&nbsp;<a href="/a1/">Льюис Кэрролл</a></h1>
  <div class="bookimage"><a href="/b%d/"><img src="%s" alt="cover"></a></div>
  <span class="d_book"><b>Жанр книги:</b> <a href="/l55/">Сказка</a>, <a href="/l12/">Приключения</a></span>
  <div class="texts"><b>Гость</b><br><span class="black">Прекрасная книга!</span></div>
  <div class="texts"><b>Гость</b><br><span class="black">  Читал в детстве  </span></div>
</div>
</body></html>`

const notFoundPage = `<html><body><div id="content"><h2>Главная</h2></div></body></html>`

// fakeCatalog serves detail pages and resources the way tululu does:
// unknown ids redirect to the front page
type fakeCatalog struct {
	*httptest.Server

	titles    map[int]string
	malformed map[int]bool
	noText    map[int]bool
	down      atomic.Bool
	requests  atomic.Int32
}

func newFakeCatalog(t *testing.T, titles map[int]string) *fakeCatalog {
	t.Helper()

	c := &fakeCatalog{
		titles:    titles,
		malformed: map[int]bool{},
		noText:    map[int]bool{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		c.requests.Add(1)

		if c.down.Load() {
			// drop the connection to simulate a network failure
			hj, ok := w.(http.Hijacker)
			if !ok {
				http.Error(w, "no hijack", http.StatusInternalServerError)
				return
			}
			conn, _, _ := hj.Hijack()
			conn.Close()
			return
		}

		switch {
		case r.URL.Path == "/":
			_, _ = fmt.Fprint(w, notFoundPage)

		case r.URL.Path == "/txt.php":
			id, _ := strconv.Atoi(r.URL.Query().Get("id"))
			if _, ok := c.titles[id]; !ok || c.noText[id] {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
			_, _ = fmt.Fprintf(w, "text of book %d", id)

		case strings.HasPrefix(r.URL.Path, "/shots/"):
			w.Header().Set("Content-Type", "image/gif")
			// smallest valid gif
			_, _ = w.Write([]byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\x00\x00\x00\xff\xff\xff!\xf9\x04\x01\x00\x00\x00\x00,\x00\x00\x00\x00\x01\x00\x01\x00\x00\x02\x02D\x01\x00;"))

		case strings.HasPrefix(r.URL.Path, "/b"):
			id, err := strconv.Atoi(strings.Trim(strings.TrimPrefix(r.URL.Path, "/b"), "/"))
			title, ok := c.titles[id]
			if err != nil || !ok {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
			if c.malformed[id] {
				_, _ = fmt.Fprint(w, notFoundPage)
				return
			}
			_, _ = fmt.Fprintf(w, bookPage, title, id, fmt.Sprintf("/shots/%d.gif", id))

		default:
			http.NotFound(w, r)
		}
	})

	c.Server = httptest.NewServer(mux)
	t.Cleanup(c.Server.Close)

	return c
}
