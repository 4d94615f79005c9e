package projects

import "github.com/angelmondragon/storyboard-backend/pkg/db/models"

// ProjectInput is the body of both create and full update requests.
type ProjectInput struct {
	OwnerID       string         `json:"owner_id"`
	Title         string         `json:"title" validate:"required"`
	Date          *string        `json:"date,omitempty"`
	Location      *string        `json:"location,omitempty"`
	Platform      *string        `json:"platform,omitempty"`
	Mood          *string        `json:"mood,omitempty"`
	ThemeID       *string        `json:"theme_id,omitempty"`
	Slides        []models.Slide `json:"slides"`
	Collaborators []string       `json:"collaborators"`
}

// DeleteResult mirrors the {"success": bool} body of the delete endpoint.
type DeleteResult struct {
	Success bool `json:"success"`
}
