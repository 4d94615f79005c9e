package models

import (
	"time"

	"github.com/angelmondragon/storyboard-backend/pkg/enums"
)

// MediaAsset is an uploaded image or video. URL points at the blob storage
// location returned when the bytes were written.
type MediaAsset struct {
	ID        string          `json:"id" bson:"id,omitempty" gorm:"column:id;type:varchar(64);primaryKey"`
	OwnerID   string          `json:"owner_id" bson:"owner_id" gorm:"column:owner_id;not null;index:idx_media_owner"`
	ProjectID *string         `json:"project_id,omitempty" bson:"project_id,omitempty" gorm:"column:project_id;index:idx_media_project"`
	URL       string          `json:"url" bson:"url" gorm:"column:url;not null"`
	Type      enums.MediaType `json:"type" bson:"type" gorm:"column:type;not null"`
	Name      *string         `json:"name,omitempty" bson:"name,omitempty" gorm:"column:name"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at" gorm:"column:created_at"`
}

func MediaAssetID(m *MediaAsset) *string { return &m.ID }
