package models

import "time"

// Attachment is an image in the site's media library.
type Attachment struct {
	ID        string
	Title     string
	MimeType  string
	FilePath  string
	Width     int   // 0 = unknown
	Height    int   // 0 = unknown
	SizeBytes int64 // 0 = unknown
	AltText   string
	PublicURL string
	EditURL   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContentType is a registered content type on the site.
type ContentType struct {
	Slug              string
	Label             string
	Public            bool
	PubliclyQueryable bool
	Builtin           bool
}

// UserRole identifies a site user's role.
type UserRole string

const (
	RoleAdministrator UserRole = "administrator"
	RoleEditor        UserRole = "editor"
)

// User is a site user who can be assigned audit responsibility.
type User struct {
	ID          string
	DisplayName string
	Email       string
	Role        UserRole
}
