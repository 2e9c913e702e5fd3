package domain

import "time"

// Testimonial represents a member story shown on the public site after
// approval. Featured testimonials are pinned by the frontend.
type Testimonial struct {
	ID         string    `json:"id"`
	AuthorName string    `json:"author_name"`
	BeltRank   string    `json:"belt_rank,omitempty"`
	Quote      string    `json:"quote"`
	Rating     int       `json:"rating"`
	PhotoURL   string    `json:"photo_url,omitempty"`
	IsApproved bool      `json:"is_approved"`
	Featured   bool      `json:"featured"`
	CreatedBy  *string   `json:"created_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
