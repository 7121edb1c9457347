package domain

import "time"

// AuthorSummary is the slice of a User embedded in feed entries.
type AuthorSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// FeedPost is the denormalized view of a post as seen by a specific viewer:
// the post itself, its author (nil when the author could not be resolved),
// and whether the viewer currently likes it. It is built once by the feed
// assembler and never reshaped downstream.
type FeedPost struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Content       string         `json:"content"`
	LikeCount     int            `json:"like_count"`
	CreatedAt     time.Time      `json:"created_at"`
	Author        *AuthorSummary `json:"author"`
	LikedByViewer bool           `json:"liked_by_viewer"`
}
