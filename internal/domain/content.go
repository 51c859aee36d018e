// Package domain contains the content records backing the site's CRUD pages.
package domain

import "time"

// ServiceItem is one entry in a service category page (e.g. a TV stand
// design under "tv-stands", or a cover product under "short-term").
type ServiceItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Summary   string    `json:"summary,omitempty"`
	Bullets   []string  `json:"bullets,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	Active    bool      `json:"active"`
	SortOrder int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Project is a finished build shown in the gallery.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
