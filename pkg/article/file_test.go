package article

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.csv")

	first := valid()
	second := valid()
	second.Title = "Second, with comma"
	second.Content = "Quoted \"content\"\nacross lines"

	require.NoError(t, AppendFile(path, first))
	require.NoError(t, AppendFile(path, second))

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.Title, got[0].Title)
	assert.Equal(t, second.Title, got[1].Title)
	assert.Equal(t, second.Content, got[1].Content)
	assert.Equal(t, 12, got[1].Likes)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "Title,Content,Category"), "header written once")
}

func TestAppendAndReadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.yaml")

	require.NoError(t, AppendFile(path, valid()))
	other := valid()
	other.Category = CategoryPolitics
	require.NoError(t, AppendFile(path, other))

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, CategoryPolitics, got[1].Category)
	assert.Equal(t, "2026-10-18", got[1].Timestamp)
}

func TestReadCSVColumnsByName(t *testing.T) {
	in := "timestamp,likes,shares,category,title,content\n" +
		"2026-10-19,5,,sports,Derby,Late goal\n"

	got, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Article{
		Title: "Derby", Content: "Late goal", Category: CategorySports,
		Likes: 5, Shares: 0, Timestamp: "2026-10-19",
	}, got[0])
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Title,Content\nx,y\n"))
	assert.ErrorContains(t, err, "missing column")

	_, err = ReadCSV(strings.NewReader(strings.Join(FileHeader, ",") + "\nA,B,Sports,many,1,2026-10-19\n"))
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "likes", vErr.Field)
	assert.ErrorContains(t, err, "row 2")

	got, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadFileUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	_, err := ReadFile(path)
	assert.ErrorContains(t, err, "unsupported")

	assert.ErrorContains(t, AppendFile(path, valid()), "unsupported")
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
