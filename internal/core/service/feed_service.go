package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/statusquo/feed-service/internal/api/metrics"
	"github.com/statusquo/feed-service/internal/core/domain"
	"github.com/statusquo/feed-service/internal/core/ports"
)

// FeedService joins posts with their authors and the viewer's like state.
type FeedService struct {
	posts ports.PostRepository
	users ports.UserRepository
	log   zerolog.Logger
}

func NewFeedService(posts ports.PostRepository, users ports.UserRepository, log zerolog.Logger) *FeedService {
	return &FeedService{posts: posts, users: users, log: log}
}

// AssembleFeed returns every post, most recent first, with author summaries
// and the viewer's like state. Authors are resolved in one batched lookup
// over the distinct author ids; a post whose author is missing keeps a nil
// Author and stays in the feed. Ordering comes from the post listing and is
// never re-sorted here.
func (s *FeedService) AssembleFeed(ctx context.Context, viewerID string) ([]*domain.FeedPost, error) {
	start := time.Now()

	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		return nil, storeFailure("assemble feed", err)
	}

	authors, err := s.resolveAuthors(ctx, posts)
	if err != nil {
		return nil, storeFailure("assemble feed", err)
	}

	liked, err := s.viewerLikedSet(ctx, viewerID)
	if err != nil {
		return nil, storeFailure("assemble feed", err)
	}

	feed := make([]*domain.FeedPost, 0, len(posts))
	for _, p := range posts {
		feed = append(feed, buildFeedPost(p, authors[p.AuthorID], liked))
	}

	metrics.FeedAssemblyDuration.Observe(time.Since(start).Seconds())
	return feed, nil
}

// AssemblePost builds the viewer-relative view of a single post.
func (s *FeedService) AssemblePost(ctx context.Context, postID, viewerID string) (*domain.FeedPost, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, storeFailure("assemble post", err)
	}

	author, err := s.users.FindByID(ctx, post.AuthorID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, storeFailure("assemble post", err)
	}

	liked, err := s.viewerLikedSet(ctx, viewerID)
	if err != nil {
		return nil, storeFailure("assemble post", err)
	}

	return buildFeedPost(post, author, liked), nil
}

// AssembleProfile returns a user together with their posts and the posts
// they like. Liked ids pointing at deleted posts are filtered out here
// rather than cleaned up at deletion time.
func (s *FeedService) AssembleProfile(ctx context.Context, userID, viewerID string) (*ports.Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeFailure("assemble profile", err)
	}

	feed, err := s.AssembleFeed(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	likedIDs := make(map[string]struct{}, len(user.LikedPosts))
	for _, id := range user.LikedPosts {
		likedIDs[id] = struct{}{}
	}

	profile := &ports.Profile{User: user}
	for _, fp := range feed {
		if fp.Author != nil && fp.Author.ID == userID {
			profile.Posts = append(profile.Posts, fp)
		}
		if _, ok := likedIDs[fp.ID]; ok {
			profile.LikedPosts = append(profile.LikedPosts, fp)
		}
	}
	return profile, nil
}

// resolveAuthors batch-loads the distinct author ids of the given posts.
// Missing authors are simply absent from the map.
func (s *FeedService) resolveAuthors(ctx context.Context, posts []*domain.Post) (map[string]*domain.User, error) {
	seen := make(map[string]struct{}, len(posts))
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.AuthorID]; ok {
			continue
		}
		seen[p.AuthorID] = struct{}{}
		ids = append(ids, p.AuthorID)
	}
	if len(ids) == 0 {
		return map[string]*domain.User{}, nil
	}

	authors, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(authors) < len(ids) {
		s.log.Warn().Int("requested", len(ids)).Int("resolved", len(authors)).Msg("some post authors could not be resolved")
	}
	return authors, nil
}

// viewerLikedSet loads the viewer's liked set as a lookup map. An empty
// viewerID (anonymous) or a viewer that vanished yields an empty set.
func (s *FeedService) viewerLikedSet(ctx context.Context, viewerID string) (map[string]struct{}, error) {
	if viewerID == "" {
		return nil, nil
	}
	viewer, err := s.users.FindByID(ctx, viewerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	liked := make(map[string]struct{}, len(viewer.LikedPosts))
	for _, id := range viewer.LikedPosts {
		liked[id] = struct{}{}
	}
	return liked, nil
}

func buildFeedPost(p *domain.Post, author *domain.User, liked map[string]struct{}) *domain.FeedPost {
	fp := &domain.FeedPost{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		LikeCount: p.LikeCount,
		CreatedAt: p.CreatedAt,
	}
	if author != nil {
		fp.Author = &domain.AuthorSummary{
			ID:       author.ID,
			Username: author.Username,
			Avatar:   author.Avatar,
		}
	}
	if liked != nil {
		_, fp.LikedByViewer = liked[p.ID]
	}
	return fp
}
