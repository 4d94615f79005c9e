package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/angelmondragon/storyboard-backend/pkg/db/models"
	"github.com/angelmondragon/storyboard-backend/pkg/docstore"
	"github.com/angelmondragon/storyboard-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storyboard-backend/pkg/errors"
	"github.com/angelmondragon/storyboard-backend/pkg/storage"
)

const (
	keyPrefix        = "uploads"
	fallbackFileName = "upload.bin"
	octetStream      = "application/octet-stream"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// UploadInput carries one multipart upload. ContentType is the part header
// and only used when sniffing is inconclusive.
type UploadInput struct {
	OwnerID     string
	ProjectID   string
	FileName    string
	ContentType string
	Body        io.Reader
}

// Filter narrows the media listing; blank values are ignored.
type Filter struct {
	OwnerID   string
	ProjectID string
}

// Service handles media uploads and listings.
type Service interface {
	Upload(ctx context.Context, in UploadInput) (*models.MediaAsset, error)
	List(ctx context.Context, filter Filter) ([]models.MediaAsset, error)
}

type ServiceParams struct {
	Media          docstore.Store[models.MediaAsset]
	Blob           storage.Blob
	MaxUploadBytes int64
	Clock          func() time.Time
}

type service struct {
	media    docstore.Store[models.MediaAsset]
	blob     storage.Blob
	maxBytes int64
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Media == nil {
		return nil, fmt.Errorf("media store is required")
	}
	if params.Blob == nil {
		return nil, fmt.Errorf("blob storage is required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		media:    params.Media,
		blob:     params.Blob,
		maxBytes: params.MaxUploadBytes,
		now:      clock,
	}, nil
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*models.MediaAsset, error) {
	owner := strings.TrimSpace(in.OwnerID)
	if owner == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner_id is required")
	}
	if in.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is required")
	}

	data, err := s.readBounded(in.Body)
	if err != nil {
		return nil, err
	}

	contentType := detectContentType(data, in.ContentType)
	name := sanitizeFileName(in.FileName)
	key := fmt.Sprintf("%s_%s_%s", keyPrefix, uuid.NewString()[:8], name)

	location, err := s.blob.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store media blob")
	}

	asset := &models.MediaAsset{
		OwnerID:   owner,
		URL:       location,
		Type:      enums.MediaTypeForContentType(contentType),
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	if project := strings.TrimSpace(in.ProjectID); project != "" {
		asset.ProjectID = &project
	}
	if original := strings.TrimSpace(in.FileName); original != "" {
		asset.Name = &original
	}

	created, err := s.media.Create(ctx, asset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create media record")
	}
	return created, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]models.MediaAsset, error) {
	query := docstore.Filter{}
	if owner := strings.TrimSpace(filter.OwnerID); owner != "" {
		query[models.FieldOwnerID] = owner
	}
	if project := strings.TrimSpace(filter.ProjectID); project != "" {
		query[models.FieldProjectID] = project
	}
	assets, err := s.media.List(ctx, query, docstore.DefaultLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list media")
	}
	return assets, nil
}

func (s *service) readBounded(body io.Reader) ([]byte, error) {
	if s.maxBytes <= 0 {
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload")
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeTooLarge, "file exceeds upload limit").
			WithDetails(map[string]any{"max_bytes": s.maxBytes})
	}
	return data, nil
}

// detectContentType prefers the sniffed type and falls back to the declared
// header when the bytes are not recognised.
func detectContentType(data []byte, declared string) string {
	declared = strings.TrimSpace(declared)
	if len(data) > 0 {
		if detected := mimetype.Detect(data); detected != nil && !detected.Is(octetStream) {
			return detected.String()
		}
	}
	if declared != "" {
		return declared
	}
	return octetStream
}

func sanitizeFileName(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	base = unsafeNameChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		return fallbackFileName
	}
	return base
}
