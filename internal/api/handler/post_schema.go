package handler

import (
	"time"

	"github.com/statusquo/feed-service/internal/core/domain"
)

type createPostRequest struct {
	Title   string `json:"title"   validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=5000"`
}

type authorResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

type feedPostResponse struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Content       string          `json:"content"`
	LikeCount     int             `json:"like_count"`
	CreatedAt     time.Time       `json:"created_at"`
	Author        *authorResponse `json:"author"`
	LikedByViewer bool            `json:"liked_by_viewer"`
}

type feedResponse struct {
	Posts []feedPostResponse `json:"posts"`
}

type toggleLikeResponse struct {
	Action    string `json:"action"`
	LikeCount int    `json:"like_count"`
}

type userResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Avatar     string    `json:"avatar,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	LikedPosts []string  `json:"liked_posts"`
	CreatedAt  time.Time `json:"created_at"`
}

type profileResponse struct {
	User       userResponse       `json:"user"`
	Posts      []feedPostResponse `json:"posts"`
	LikedPosts []feedPostResponse `json:"liked_posts"`
}

func toFeedPostResponse(fp *domain.FeedPost) feedPostResponse {
	resp := feedPostResponse{
		ID:            fp.ID,
		Title:         fp.Title,
		Content:       fp.Content,
		LikeCount:     fp.LikeCount,
		CreatedAt:     fp.CreatedAt,
		LikedByViewer: fp.LikedByViewer,
	}
	if fp.Author != nil {
		resp.Author = &authorResponse{
			ID:       fp.Author.ID,
			Username: fp.Author.Username,
			Avatar:   fp.Author.Avatar,
		}
	}
	return resp
}

func toFeedPostResponses(fps []*domain.FeedPost) []feedPostResponse {
	out := make([]feedPostResponse, 0, len(fps))
	for _, fp := range fps {
		out = append(out, toFeedPostResponse(fp))
	}
	return out
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Username:   u.Username,
		Avatar:     u.Avatar,
		Bio:        u.Bio,
		LikedPosts: u.LikedPosts,
		CreatedAt:  u.CreatedAt,
	}
}
