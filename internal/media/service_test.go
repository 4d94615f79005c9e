package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storyboard-backend/internal/store/storetest"
	"github.com/angelmondragon/storyboard-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storyboard-backend/pkg/errors"
	"github.com/angelmondragon/storyboard-backend/pkg/storage/localfs"
)

// 1x1 transparent PNG.
var tinyPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func buildTestService(t *testing.T, maxBytes int64) (Service, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	blob, err := localfs.New(fs, "media")
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{
		Media:          storetest.SQLite(t).Media,
		Blob:           blob,
		MaxUploadBytes: maxBytes,
		Clock:          func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
	})
	require.NoError(t, err)
	return svc, fs
}

func TestUploadSniffsAndStores(t *testing.T) {
	svc, fs := buildTestService(t, 1<<20)
	ctx := context.Background()

	asset, err := svc.Upload(ctx, UploadInput{
		OwnerID:     "u1",
		ProjectID:   "p1",
		FileName:    "cover photo.png",
		ContentType: "video/mp4",
		Body:        bytes.NewReader(tinyPNG),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.MediaTypeImage, asset.Type)
	assert.Equal(t, "u1", asset.OwnerID)
	require.NotNil(t, asset.ProjectID)
	assert.Equal(t, "p1", *asset.ProjectID)
	require.NotNil(t, asset.Name)
	assert.Equal(t, "cover photo.png", *asset.Name)
	assert.True(t, strings.HasPrefix(asset.URL, "media/uploads_"))
	assert.True(t, strings.HasSuffix(asset.URL, "_cover_photo.png"))

	stored, err := afero.ReadFile(fs, asset.URL)
	require.NoError(t, err)
	assert.Equal(t, tinyPNG, stored)
}

func TestUploadFallsBackToDeclaredVideoType(t *testing.T) {
	svc, _ := buildTestService(t, 1<<20)

	asset, err := svc.Upload(context.Background(), UploadInput{
		OwnerID:     "u1",
		FileName:    "clip.mov",
		ContentType: "video/quicktime",
		Body:        bytes.NewReader([]byte{0x00, 0x01, 0x02, 0x03}),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.MediaTypeVideo, asset.Type)
	assert.Nil(t, asset.ProjectID)
}

func TestUploadRejectsOversizedBody(t *testing.T) {
	svc, _ := buildTestService(t, 4)

	_, err := svc.Upload(context.Background(), UploadInput{
		OwnerID:  "u1",
		FileName: "big.bin",
		Body:     bytes.NewReader([]byte("12345")),
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeTooLarge))
}

func TestUploadRequiresOwner(t *testing.T) {
	svc, _ := buildTestService(t, 0)

	_, err := svc.Upload(context.Background(), UploadInput{FileName: "a.png", Body: bytes.NewReader(tinyPNG)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

type brokenBlob struct{}

func (brokenBlob) Put(context.Context, string, io.Reader, int64, string) (string, error) {
	return "", errors.New("disk full")
}

func (brokenBlob) Ping(context.Context) error { return nil }

func TestUploadBlobFailureIsDependencyError(t *testing.T) {
	svc, err := NewService(ServiceParams{Media: storetest.SQLite(t).Media, Blob: brokenBlob{}})
	require.NoError(t, err)

	_, err = svc.Upload(context.Background(), UploadInput{OwnerID: "u1", FileName: "a.png", Body: bytes.NewReader(tinyPNG)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestListFilters(t *testing.T) {
	svc, _ := buildTestService(t, 0)
	ctx := context.Background()

	uploads := []UploadInput{
		{OwnerID: "u1", ProjectID: "p1", FileName: "a.png"},
		{OwnerID: "u1", ProjectID: "p2", FileName: "b.png"},
		{OwnerID: "u2", ProjectID: "p1", FileName: "c.png"},
	}
	for _, in := range uploads {
		in.Body = bytes.NewReader(tinyPNG)
		_, err := svc.Upload(ctx, in)
		require.NoError(t, err)
	}

	cases := []struct {
		name   string
		filter Filter
		want   int
	}{
		{name: "all", filter: Filter{}, want: 3},
		{name: "owner", filter: Filter{OwnerID: "u1"}, want: 2},
		{name: "project", filter: Filter{ProjectID: "p1"}, want: 2},
		{name: "both", filter: Filter{OwnerID: "u2", ProjectID: "p1"}, want: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.List(ctx, tc.filter)
			require.NoError(t, err)
			assert.Len(t, got, tc.want)
		})
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"photo.png":           "photo.png",
		"../../etc/passwd":    "passwd",
		`C:\Users\me\a b.jpg`: "a_b.jpg",
		"":                    fallbackFileName,
		"...":                 fallbackFileName,
	}
	for in, want := range cases {
		assert.Equal(t, want, sanitizeFileName(in), in)
	}
}
