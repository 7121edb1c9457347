package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/statusquo/feed-service/internal/api/metrics"
	"github.com/statusquo/feed-service/internal/core/domain"
	"github.com/statusquo/feed-service/internal/core/ports"
)

const (
	lockAttempts = 3
	lockBackoff  = 50 * time.Millisecond
)

// PostLocker serializes like toggles per post. Acquire returns a release
// function on success; ok=false means another toggle currently holds the
// post and the caller may retry.
type PostLocker interface {
	Acquire(ctx context.Context, postID string) (release func(), ok bool, err error)
}

// LikeService implements the like toggle. The toggle spans two documents —
// the user's liked set and the post's counter — which the store cannot
// update in one transaction, so toggles are serialized per post via the
// locker and each half uses an atomic single-document operation. A failure
// after the user-side flip is compensated before the error is surfaced;
// success is never reported for a half-applied toggle.
type LikeService struct {
	posts  ports.PostRepository
	users  ports.UserRepository
	locker PostLocker
	log    zerolog.Logger
}

func NewLikeService(posts ports.PostRepository, users ports.UserRepository, locker PostLocker, log zerolog.Logger) *LikeService {
	return &LikeService{posts: posts, users: users, locker: locker, log: log}
}

// Toggle flips userID's like on postID and returns the action taken plus the
// post's new like count.
func (s *LikeService) Toggle(ctx context.Context, postID, userID string) (*ports.ToggleResult, error) {
	// 1. Both documents must exist before anything is written.
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, storeFailure("toggle like", err)
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, storeFailure("toggle like", err)
	}

	// 2. At most one in-flight toggle per post.
	release, err := s.acquireLock(ctx, postID)
	if err != nil {
		return nil, err
	}
	defer release()

	// 3. Flip membership on the user's liked set. The modified count of the
	// atomic set update tells us the prior state, so a racing double-click
	// on the same user cannot count twice.
	added, err := s.users.AddLikedPost(ctx, userID, postID)
	if err != nil {
		return nil, storeFailure("toggle like", err)
	}

	if added {
		return s.finishLike(ctx, postID, userID)
	}
	return s.finishUnlike(ctx, postID, userID)
}

func (s *LikeService) finishLike(ctx context.Context, postID, userID string) (*ports.ToggleResult, error) {
	newCount, err := s.posts.IncLikeCount(ctx, postID)
	if err != nil {
		// Counter write failed after the set gained the post: revert the
		// set so the invariant holds. A post deleted between the existence
		// check and this write stays a NotFound, not a retriable failure.
		s.compensate(ctx, postID, userID, false)
		return nil, storeFailure("toggle like: increment count", err)
	}

	metrics.LikesToggledTotal.WithLabelValues(domain.ActionLiked).Inc()
	s.log.Info().Str("post_id", postID).Str("user_id", userID).Int("like_count", newCount).Msg("post liked")
	return &ports.ToggleResult{Action: domain.ActionLiked, NewCount: newCount}, nil
}

func (s *LikeService) finishUnlike(ctx context.Context, postID, userID string) (*ports.ToggleResult, error) {
	removed, err := s.users.RemoveLikedPost(ctx, userID, postID)
	if err != nil {
		return nil, storeFailure("toggle like", err)
	}
	if !removed {
		// The set changed between the add probe and the removal. Under the
		// per-post lock this means an out-of-band writer; refuse to guess.
		metrics.LikeToggleConflictsTotal.Inc()
		return nil, fmt.Errorf("toggle like: %w", domain.ErrToggleContended)
	}

	newCount, err := s.posts.DecLikeCount(ctx, postID)
	if err != nil {
		s.compensate(ctx, postID, userID, true)
		return nil, storeFailure("toggle like: decrement count", err)
	}

	metrics.LikesToggledTotal.WithLabelValues(domain.ActionUnliked).Inc()
	s.log.Info().Str("post_id", postID).Str("user_id", userID).Int("like_count", newCount).Msg("post unliked")
	return &ports.ToggleResult{Action: domain.ActionUnliked, NewCount: newCount}, nil
}

// acquireLock takes the per-post slot, retrying briefly on contention.
func (s *LikeService) acquireLock(ctx context.Context, postID string) (func(), error) {
	for attempt := 0; attempt < lockAttempts; attempt++ {
		release, ok, err := s.locker.Acquire(ctx, postID)
		if err != nil {
			return nil, storeFailure("toggle like: acquire lock", err)
		}
		if ok {
			return release, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("toggle like: %w", ctx.Err())
		case <-time.After(lockBackoff):
		}
	}

	metrics.LikeToggleConflictsTotal.Inc()
	return nil, fmt.Errorf("toggle like: %w", domain.ErrToggleContended)
}

// compensate reverts the user-side set flip after the post-side counter
// write failed. restore=true re-adds the post, false removes it. A failed
// compensation is the one path that can leave the counter and the set out
// of step, so it logs at error level.
func (s *LikeService) compensate(ctx context.Context, postID, userID string, restore bool) {
	var err error
	if restore {
		_, err = s.users.AddLikedPost(ctx, userID, postID)
	} else {
		_, err = s.users.RemoveLikedPost(ctx, userID, postID)
	}
	if err != nil {
		s.log.Error().Err(err).
			Str("post_id", postID).
			Str("user_id", userID).
			Bool("restore", restore).
			Msg("like toggle compensation failed; liked set and counter may diverge")
	}
}
