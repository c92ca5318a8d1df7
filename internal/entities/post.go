package entities

import "time"

// BlogPost is the subset of the blog_posts row the OG generator needs.
type BlogPost struct {
	ID               string     `json:"id"`
	Slug             string     `json:"slug"`
	Title            string     `json:"title"`
	Excerpt          *string    `json:"excerpt,omitempty"`
	MetaTitle        *string    `json:"meta_title,omitempty"`
	MetaDescription  *string    `json:"meta_description,omitempty"`
	OGTitle          *string    `json:"og_title,omitempty"`
	OGDescription    *string    `json:"og_description,omitempty"`
	OGImageURL       *string    `json:"og_image_url,omitempty"`
	FeaturedImageURL *string    `json:"featured_image_url,omitempty"`
	Published        bool       `json:"published"`
	Status           string     `json:"status"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
}
