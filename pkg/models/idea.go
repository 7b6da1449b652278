package models

import "strings"

// Idea is a startup idea record as stored remotely. JSON names match the table columns.
type Idea struct {
	ID          string  `json:"id"`
	CreatedAt   string  `json:"created_at"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	LogoURL     *string `json:"logo_url"`
}

// IdeaPatch is the set of columns an update writes. Email, id and created_at are
// never part of it; LogoURL is only sent when non-nil.
type IdeaPatch struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Phone       string  `json:"phone"`
	LogoURL     *string `json:"logo_url,omitempty"`
}

// OwnedBy reports whether email owns the idea. Blank emails own nothing.
func (i Idea) OwnedBy(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && i.Email == email
}
