package models

import (
	"errors"
	"time"
)

// ErrToolNotFound is returned when a tool is not found
var ErrToolNotFound = errors.New("tool not found")

// Tool is one discoverable tool in the directory. Records are created by the
// hunt pipeline from model output and only ever mutated by votes.
type Tool struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Link         string    `json:"link"`
	TutorialLink string    `json:"tutorial_link,omitempty"`
	Tags         []string  `json:"tags"`
	UtilityScore float64   `json:"utility_score"`
	Pricing      string    `json:"pricing,omitempty"`
	Pros         []string  `json:"pros,omitempty"`
	Votes        int64     `json:"votes"`
	Slug         string    `json:"slug,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// Pricing vocabulary the extraction prompt constrains the model to. A literal
// price string ("$10/mo") is also accepted.
const (
	PricingFree     = "Free"
	PricingFreemium = "Freemium"
	PricingPaid     = "Paid"
)
