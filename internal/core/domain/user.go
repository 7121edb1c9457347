package domain

import "time"

// User models an account in the feed system. Accounts are created lazily on
// first login and keyed by ExternalID, which is stable across logins
// (e.g. "github:12345" for OAuth users, "anon:<uuid>" for cookie-only ones).
type User struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"-"`
	Username   string    `json:"username"`
	Avatar     string    `json:"avatar,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	LikedPosts []string  `json:"liked_posts"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Likes reports whether the user currently likes the given post.
func (u *User) Likes(postID string) bool {
	for _, id := range u.LikedPosts {
		if id == postID {
			return true
		}
	}
	return false
}
