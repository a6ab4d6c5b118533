package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tululu/internal/domain"
	"tululu/internal/retrieval"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listDir(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRetrieve(t *testing.T) {
	catalog := newFakeCatalog(t, map[int]string{7: "Алиса в стране чудес"})
	cfg := testConfig(catalog.URL, t.TempDir())
	require.NoError(t, os.MkdirAll(cfg.BooksPath(), 0o755))
	require.NoError(t, os.MkdirAll(cfg.ImagesPath(), 0o755))

	src := NewTululu(cfg, zerolog.Nop())
	assert.Equal(t, "tululu", src.String())

	book, err := src.Retrieve(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 7, book.ID)
	assert.Equal(t, "Алиса в стране чудес", book.Title)
	assert.Equal(t, "Льюис Кэрролл", book.Author)
	assert.Equal(t, catalog.URL+"/shots/7.gif", book.ImageURL)
	assert.Equal(t, filepath.Join(cfg.BooksPath(), "7.Алиса в стране чудес.txt"), book.TextPath)
	assert.Equal(t, filepath.Join(cfg.ImagesPath(), "7.gif"), book.ImagePath)

	text, err := os.ReadFile(book.TextPath)
	require.NoError(t, err)
	assert.Equal(t, "text of book 7", string(text))

	info, err := os.Stat(book.ImagePath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	assert.Equal(t, []string{"7.Алиса в стране чудес.txt"}, listDir(t, cfg.BooksPath()))
	assert.Equal(t, []string{"7.gif"}, listDir(t, cfg.ImagesPath()))
}

func TestRetrieve_Missing(t *testing.T) {
	catalog := newFakeCatalog(t, map[int]string{7: "Алиса"})
	cfg := testConfig(catalog.URL, t.TempDir())
	require.NoError(t, os.MkdirAll(cfg.BooksPath(), 0o755))
	require.NoError(t, os.MkdirAll(cfg.ImagesPath(), 0o755))

	_, err := NewTululu(cfg, zerolog.Nop()).Retrieve(context.Background(), 8)
	require.Error(t, err)
	assert.Equal(t, domain.FailureRedirect, domain.KindOf(err))

	assert.Empty(t, listDir(t, cfg.BooksPath()))
	assert.Empty(t, listDir(t, cfg.ImagesPath()))
}

func TestRetrieve_TextMissing(t *testing.T) {
	catalog := newFakeCatalog(t, map[int]string{7: "Алиса"})
	catalog.noText[7] = true
	cfg := testConfig(catalog.URL, t.TempDir())
	require.NoError(t, os.MkdirAll(cfg.BooksPath(), 0o755))
	require.NoError(t, os.MkdirAll(cfg.ImagesPath(), 0o755))

	_, err := NewTululu(cfg, zerolog.Nop()).Retrieve(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, domain.FailureRedirect, domain.KindOf(err))
	assert.Empty(t, listDir(t, cfg.BooksPath()))
}

func TestRetrieve_Malformed(t *testing.T) {
	catalog := newFakeCatalog(t, map[int]string{7: "Алиса"})
	catalog.malformed[7] = true
	cfg := testConfig(catalog.URL, t.TempDir())

	_, err := NewTululu(cfg, zerolog.Nop()).Retrieve(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, domain.FailureParse, domain.KindOf(err))
}

func TestRetrieve_SkipFlags(t *testing.T) {
	catalog := newFakeCatalog(t, map[int]string{3: "Остров сокровищ"})

	t.Run("skip text", func(t *testing.T) {
		cfg := testConfig(catalog.URL, t.TempDir())
		cfg.SkipText = true
		require.NoError(t, os.MkdirAll(cfg.ImagesPath(), 0o755))

		book, err := NewTululu(cfg, zerolog.Nop()).Retrieve(context.Background(), 3)
		require.NoError(t, err)
		assert.Empty(t, book.TextPath)
		assert.NotEmpty(t, book.ImagePath)
		assert.Empty(t, listDir(t, cfg.BooksPath()))
	})

	t.Run("skip images", func(t *testing.T) {
		cfg := testConfig(catalog.URL, t.TempDir())
		cfg.SkipImages = true
		require.NoError(t, os.MkdirAll(cfg.BooksPath(), 0o755))

		book, err := NewTululu(cfg, zerolog.Nop()).Retrieve(context.Background(), 3)
		require.NoError(t, err)
		assert.NotEmpty(t, book.TextPath)
		assert.Empty(t, book.ImagePath)
		assert.Equal(t, catalog.URL+"/shots/3.gif", book.ImageURL)
		assert.Empty(t, listDir(t, cfg.ImagesPath()))
	})
}

func TestRetrieve_NamingTemplate(t *testing.T) {
	catalog := newFakeCatalog(t, map[int]string{12: "Алиса"})
	cfg := testConfig(catalog.URL, t.TempDir())
	cfg.NamingTemplate = "{id:4} - {author:<.> - }{title}"
	cfg.SkipImages = true
	require.NoError(t, os.MkdirAll(cfg.BooksPath(), 0o755))

	book, err := NewTululu(cfg, zerolog.Nop()).Retrieve(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.BooksPath(), "0012 - Льюис Кэрролл - Алиса.txt"), book.TextPath)
}

func TestRetrieve_ConnectionLossThroughLoop(t *testing.T) {
	catalog := newFakeCatalog(t, map[int]string{4: "Четвёртая", 5: "Пятая", 6: "Шестая"})
	cfg := testConfig(catalog.URL, t.TempDir())
	require.NoError(t, os.MkdirAll(cfg.BooksPath(), 0o755))
	require.NoError(t, os.MkdirAll(cfg.ImagesPath(), 0o755))

	loop := retrieval.NewLoop(NewTululu(cfg, zerolog.Nop()), retrieval.RetryPolicy{Backoff: 10 * time.Millisecond}, zerolog.Nop())

	type step struct {
		kind domain.OutcomeKind
		id   int
	}

	var (
		steps      []step
		transients int
	)
	for outcome, err := range loop.Run(context.Background(), 4, 6) {
		require.NoError(t, err)
		steps = append(steps, step{outcome.Kind, outcome.ID})

		switch {
		// the connection drops right after book 4
		case outcome.Kind == domain.OutcomeSuccess && outcome.ID == 4:
			catalog.down.Store(true)
		case outcome.Kind == domain.OutcomeTransientFailure:
			assert.Equal(t, domain.FailureTransport, domain.KindOf(outcome.Err))
			if transients++; transients == 2 {
				catalog.down.Store(false)
			}
		}
	}

	assert.Equal(t, []step{
		{domain.OutcomeSuccess, 4},
		{domain.OutcomeTransientFailure, 5},
		{domain.OutcomeTransientFailure, 5},
		{domain.OutcomeSuccess, 5},
		{domain.OutcomeSuccess, 6},
	}, steps)

	assert.Equal(t, []string{"4.Четвёртая.txt", "5.Пятая.txt", "6.Шестая.txt"}, listDir(t, cfg.BooksPath()))
	assert.Equal(t, []string{"4.gif", "5.gif", "6.gif"}, listDir(t, cfg.ImagesPath()))
}
