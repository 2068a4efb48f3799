package main

import (
	"bytes"
	"testing"

	"github.com/SintaW245/unsplash-gallery/internal/gallery"
	"github.com/SintaW245/unsplash-gallery/internal/unsplash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"suggest", "mount"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "mountains\n", out.String())

	out.Reset()
	rootCmd.SetArgs([]string{"suggest"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Nature & Landscape: mountains, ocean, forest, sunset, waterfall")
}

func TestPrintDetail(t *testing.T) {
	camera, iso := "Canon", 100
	d := &unsplash.PhotoDetail{
		PhotoSummary: unsplash.PhotoSummary{
			Description: "Coffee",
			Author:      unsplash.Author{Name: "Greg", Username: "greg"},
			Likes:       12345,
			CreatedAt:   "2016-05-03T11:00:28-04:00",
		},
		Exif: unsplash.Exif{Make: &camera, ISO: &iso},
	}

	var out bytes.Buffer
	printDetail(&out, d)
	s := out.String()
	assert.Contains(t, s, "Photo by Greg (@greg)")
	assert.Contains(t, s, "Likes:     12,345")
	assert.Contains(t, s, "Camera:        Canon")
	assert.Contains(t, s, "ISO:           100")
	assert.NotContains(t, s, "Aperture")
	assert.Contains(t, s, "Published: May 3, 2016")
}

func TestPrintSearchPage(t *testing.T) {
	page := &gallery.SearchPage{
		Query: "cats",
		SearchResult: unsplash.SearchResult{
			Total:      4500,
			TotalPages: 3,
			Items: []unsplash.PhotoSummary{
				{ID: "a1", Description: "Cat on a sofa", Likes: 1200, Author: unsplash.Author{Name: "Ann", Username: "ann"}},
			},
		},
		Pagination: gallery.Paginate(1, 20, 3, 20),
	}

	var out bytes.Buffer
	printSearchPage(&out, page)
	s := out.String()
	assert.Contains(t, s, `4,500 results for "cats" (page 1 of 3 [1 2 3])`)
	assert.Contains(t, s, "Cat on a sofa")
	assert.Contains(t, s, "1,200 likes")
	assert.Contains(t, s, "More: --page 2")
	assert.NotContains(t, s, "Previous:")

	page.Pagination = gallery.Paginate(3, 20, 3, 1)
	out.Reset()
	printSearchPage(&out, page)
	assert.NotContains(t, out.String(), "More:")
	assert.Contains(t, out.String(), "Previous: --page 2")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
