package domain

import "time"

// Post is a short text entry authored by a user. The only field that changes
// after creation is LikeCount, owned by the like toggle.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	LikeCount int       `json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
}

// Like toggle outcomes.
const (
	ActionLiked   = "liked"
	ActionUnliked = "unliked"
)
