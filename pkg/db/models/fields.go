package models

// Collection names shared by every store backend.
const (
	CollectionUsers      = "user"
	CollectionProjects   = "project"
	CollectionMedia      = "mediaasset"
	CollectionShareLinks = "sharelink"
)

// Field names used in store filters and patches. They match the json, bson
// and column names of the models below.
const (
	FieldID             = "id"
	FieldEmail          = "email"
	FieldOwnerID        = "owner_id"
	FieldProjectID      = "project_id"
	FieldToken          = "token"
	FieldTitle          = "title"
	FieldDate           = "date"
	FieldLocation       = "location"
	FieldPlatform       = "platform"
	FieldMood           = "mood"
	FieldThemeID        = "theme_id"
	FieldSlides         = "slides"
	FieldCollaborators  = "collaborators"
	FieldUpdatedAt      = "updated_at"
	FieldHashedPassword = "hashed_password"
)
