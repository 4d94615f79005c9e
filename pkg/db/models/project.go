package models

import (
	"time"

	dbtypes "github.com/angelmondragon/storyboard-backend/pkg/db/types"
)

// Slide is one storyboard page. Unset fields fall back to render defaults.
type Slide struct {
	Text  *string `json:"text,omitempty" bson:"text,omitempty"`
	BG    *string `json:"bg,omitempty" bson:"bg,omitempty"`
	Color *string `json:"color,omitempty" bson:"color,omitempty"`
}

type Slides = dbtypes.JSONList[Slide]

type StringList = dbtypes.JSONList[string]

// Project is an ordered list of slides plus event metadata.
type Project struct {
	ID            string     `json:"id" bson:"id,omitempty" gorm:"column:id;type:varchar(64);primaryKey"`
	OwnerID       string     `json:"owner_id" bson:"owner_id" gorm:"column:owner_id;not null;index:idx_project_owner"`
	Title         string     `json:"title" bson:"title" gorm:"column:title;not null"`
	Date          *string    `json:"date,omitempty" bson:"date,omitempty" gorm:"column:date"`
	Location      *string    `json:"location,omitempty" bson:"location,omitempty" gorm:"column:location"`
	Platform      *string    `json:"platform,omitempty" bson:"platform,omitempty" gorm:"column:platform"`
	Mood          *string    `json:"mood,omitempty" bson:"mood,omitempty" gorm:"column:mood"`
	ThemeID       *string    `json:"theme_id,omitempty" bson:"theme_id,omitempty" gorm:"column:theme_id"`
	Slides        Slides     `json:"slides" bson:"slides" gorm:"column:slides;type:text"`
	Collaborators StringList `json:"collaborators" bson:"collaborators" gorm:"column:collaborators;type:text"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at" gorm:"column:created_at"`
	UpdatedAt     time.Time  `json:"updated_at" bson:"updated_at" gorm:"column:updated_at"`
}

func ProjectID(p *Project) *string { return &p.ID }
