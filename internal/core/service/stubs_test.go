package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/statusquo/feed-service/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type memUserRepo struct {
	users      map[string]*domain.User // by id
	byExternal map[string]string       // external id -> id
	nextID     int

	findErr   error // if set, FindByID/FindByIDs return this error
	addErr    error // if set, AddLikedPost returns this error
	removeErr error // if set, RemoveLikedPost returns this error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		users:      make(map[string]*domain.User),
		byExternal: make(map[string]string),
	}
}

func (r *memUserRepo) addUser(externalID, username string) *domain.User {
	u, _ := r.UpsertOnLogin(context.Background(), externalID, username, "")
	return u
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.LikedPosts = append([]string(nil), u.LikedPosts...)
	return &c
}

func (r *memUserRepo) FindByExternalID(_ context.Context, externalID string) (*domain.User, error) {
	id, ok := r.byExternal[externalID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(r.users[id]), nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *memUserRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	out := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = cloneUser(u)
		}
	}
	return out, nil
}

func (r *memUserRepo) UpsertOnLogin(_ context.Context, externalID, username, avatar string) (*domain.User, error) {
	now := time.Now().UTC()
	if id, ok := r.byExternal[externalID]; ok {
		u := r.users[id]
		u.Username = username
		u.Avatar = avatar
		u.UpdatedAt = now
		return cloneUser(u), nil
	}

	r.nextID++
	u := &domain.User{
		ID:         fmt.Sprintf("u%d", r.nextID),
		ExternalID: externalID,
		Username:   username,
		Avatar:     avatar,
		LikedPosts: []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.users[u.ID] = u
	r.byExternal[externalID] = u.ID
	return cloneUser(u), nil
}

func (r *memUserRepo) AddLikedPost(_ context.Context, userID, postID string) (bool, error) {
	if r.addErr != nil {
		return false, r.addErr
	}
	u, ok := r.users[userID]
	if !ok {
		return false, domain.ErrUserNotFound
	}
	if u.Likes(postID) {
		return false, nil
	}
	u.LikedPosts = append(u.LikedPosts, postID)
	return true, nil
}

func (r *memUserRepo) RemoveLikedPost(_ context.Context, userID, postID string) (bool, error) {
	if r.removeErr != nil {
		return false, r.removeErr
	}
	u, ok := r.users[userID]
	if !ok {
		return false, domain.ErrUserNotFound
	}
	for i, id := range u.LikedPosts {
		if id == postID {
			u.LikedPosts = append(u.LikedPosts[:i], u.LikedPosts[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ---------------------------------------------------------------------------
// In-memory post repository
// ---------------------------------------------------------------------------

type memPostRepo struct {
	posts  map[string]*domain.Post
	nextID int

	insertErr error
	incErr    error
	decErr    error
	listErr   error
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: make(map[string]*domain.Post)}
}

func (r *memPostRepo) addPost(authorID, title string, createdAt time.Time) *domain.Post {
	r.nextID++
	p := &domain.Post{
		ID:        fmt.Sprintf("p%d", r.nextID),
		AuthorID:  authorID,
		Title:     title,
		Content:   "content of " + title,
		CreatedAt: createdAt,
	}
	r.posts[p.ID] = p
	return p
}

func clonePost(p *domain.Post) *domain.Post {
	c := *p
	return &c
}

func (r *memPostRepo) Insert(_ context.Context, p *domain.Post) (*domain.Post, error) {
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	r.nextID++
	c := clonePost(p)
	c.ID = fmt.Sprintf("p%d", r.nextID)
	r.posts[c.ID] = c
	return clonePost(c), nil
}

func (r *memPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return clonePost(p), nil
}

func (r *memPostRepo) ListAll(_ context.Context) ([]*domain.Post, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, clonePost(p))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memPostRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *memPostRepo) IncLikeCount(_ context.Context, id string) (int, error) {
	if r.incErr != nil {
		return 0, r.incErr
	}
	p, ok := r.posts[id]
	if !ok {
		return 0, domain.ErrPostNotFound
	}
	p.LikeCount++
	return p.LikeCount, nil
}

func (r *memPostRepo) DecLikeCount(_ context.Context, id string) (int, error) {
	if r.decErr != nil {
		return 0, r.decErr
	}
	p, ok := r.posts[id]
	if !ok {
		return 0, domain.ErrPostNotFound
	}
	if p.LikeCount > 0 {
		p.LikeCount--
	}
	return p.LikeCount, nil
}

// ---------------------------------------------------------------------------
// Stub post locker
// ---------------------------------------------------------------------------

type stubLocker struct {
	busy     bool  // every Acquire reports contention
	err      error // every Acquire fails
	acquired int
	released int
}

func (l *stubLocker) Acquire(_ context.Context, _ string) (func(), bool, error) {
	if l.err != nil {
		return nil, false, l.err
	}
	if l.busy {
		return nil, false, nil
	}
	l.acquired++
	return func() { l.released++ }, true, nil
}
