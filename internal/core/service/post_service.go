package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/statusquo/feed-service/internal/api/metrics"
	"github.com/statusquo/feed-service/internal/core/domain"
	"github.com/statusquo/feed-service/internal/core/ports"
)

// PostService implements post creation, retrieval, and deletion.
type PostService struct {
	posts ports.PostRepository
	users ports.UserRepository
	log   zerolog.Logger
}

func NewPostService(posts ports.PostRepository, users ports.UserRepository, log zerolog.Logger) *PostService {
	return &PostService{posts: posts, users: users, log: log}
}

// Create stores a new post after verifying the author exists.
func (s *PostService) Create(ctx context.Context, in ports.CreatePostInput) (*domain.Post, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, domain.ErrEmptyPostBody
	}

	if _, err := s.users.FindByID(ctx, in.AuthorID); err != nil {
		return nil, storeFailure("create post", err)
	}

	post, err := s.posts.Insert(ctx, &domain.Post{
		AuthorID:  in.AuthorID,
		Title:     title,
		Content:   content,
		LikeCount: 0,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		s.log.Error().Err(err).Str("author_id", in.AuthorID).Msg("failed to create post")
		return nil, storeFailure("create post", err)
	}

	metrics.PostsCreatedTotal.Inc()
	s.log.Info().Str("post_id", post.ID).Str("author_id", post.AuthorID).Msg("post created")
	return post, nil
}

func (s *PostService) Get(ctx context.Context, postID string) (*domain.Post, error) {
	return s.posts.FindByID(ctx, postID)
}

// Delete removes a post after checking the requester owns it. References to
// the post in liked sets are left behind on purpose; profile and feed reads
// filter them against live posts.
func (s *PostService) Delete(ctx context.Context, postID, requesterID string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return storeFailure("delete post", err)
	}

	if post.AuthorID != requesterID {
		return domain.ErrForbidden
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return storeFailure("delete post", err)
	}

	s.log.Info().Str("post_id", postID).Str("author_id", requesterID).Msg("post deleted")
	return nil
}
