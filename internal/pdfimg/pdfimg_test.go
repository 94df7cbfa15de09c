package pdfimg

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageRange(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int
		wantErr bool
	}{
		{name: "empty selects all", input: "", want: nil},
		{name: "single page", input: "3", want: []int{3}},
		{name: "list", input: "1,3,5", want: []int{1, 3, 5}},
		{name: "range", input: "2-5", want: []int{2, 3, 4, 5}},
		{name: "mixed", input: "1, 3-4", want: []int{1, 3, 4}},
		{name: "reversed range", input: "5-2", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
		{name: "bad range", input: "1-2-3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePageRange(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPageFromFilename(t *testing.T) {
	page, err := pageFromFilename("page_7_image_2.png")
	require.NoError(t, err)
	assert.Equal(t, 7, page)

	_, err = pageFromFilename("thumbnail.png")
	require.Error(t, err)

	_, err = pageFromFilename("page_x_image_1.png")
	require.Error(t, err)
}

func TestCollectExtractedImages(t *testing.T) {
	dir := t.TempDir()

	writePNG := func(name string, w, h int) {
		f, err := os.Create(filepath.Join(dir, name))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
		require.NoError(t, f.Close())
	}
	writePNG("page_2_image_1.png", 8, 8)
	writePNG("page_1_image_1.png", 4, 4)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o600))

	images, err := collectExtractedImages(dir)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, 1, images[0].Page, "sorted by page")
	assert.Equal(t, 2, images[1].Page)
	assert.Equal(t, 4, images[0].Image.Bounds().Dx())
}

func TestExtractPageImages_InvalidRange(t *testing.T) {
	_, err := ExtractPageImages("whatever.pdf", "bad-range-1-2-3")
	require.Error(t, err)
}
