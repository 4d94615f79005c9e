package models

import (
	"time"

	"github.com/angelmondragon/storyboard-backend/pkg/enums"
)

// ShareLink grants token-based access to a project.
type ShareLink struct {
	ID        string          `json:"id" bson:"id,omitempty" gorm:"column:id;type:varchar(64);primaryKey"`
	ProjectID string          `json:"project_id" bson:"project_id" gorm:"column:project_id;not null;index:idx_sharelink_project"`
	Token     string          `json:"token" bson:"token" gorm:"column:token;not null;uniqueIndex:idx_sharelink_token"`
	Role      enums.ShareRole `json:"role" bson:"role" gorm:"column:role;not null"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at" gorm:"column:created_at"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty" bson:"expires_at,omitempty" gorm:"column:expires_at"`
}

func ShareLinkID(s *ShareLink) *string { return &s.ID }

// Expired reports whether the link has a past expiry relative to now.
func (s *ShareLink) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}
