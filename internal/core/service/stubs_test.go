package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users     map[string]*domain.User // by id
	createErr error
	seq       int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) seed(id, name, email, role string) *domain.User {
	u := &domain.User{ID: id, Name: name, Email: email, Role: role}
	r.users[id] = u
	return cloneUser(u)
}

// ---------------------------------------------------------------------------
// In-memory feedback repository
// ---------------------------------------------------------------------------

type stubFeedbackRepo struct {
	items      map[string]*domain.Feedback
	lastFilter ports.FeedbackFilter
	seq        int
}

func newStubFeedbackRepo() *stubFeedbackRepo {
	return &stubFeedbackRepo{items: make(map[string]*domain.Feedback)}
}

func (r *stubFeedbackRepo) Create(_ context.Context, f *domain.Feedback) (*domain.Feedback, error) {
	r.seq++
	clone := *f
	clone.ID = fmt.Sprintf("fb-%d", r.seq)
	r.items[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubFeedbackRepo) List(_ context.Context, f ports.FeedbackFilter) ([]*domain.Feedback, error) {
	r.lastFilter = f
	var out []*domain.Feedback
	for _, fb := range r.items {
		if f.UserID != "" && fb.UserID != f.UserID {
			continue
		}
		if f.Rating != 0 && fb.Rating != f.Rating {
			continue
		}
		if f.Search != "" {
			hay := strings.ToLower(fb.Title + " " + fb.Content + " " + fb.UserName)
			if !strings.Contains(hay, strings.ToLower(f.Search)) {
				continue
			}
		}
		clone := *fb
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if f.Sort == domain.SortOldest {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *stubFeedbackRepo) UpdateResponse(_ context.Context, id, response string) (*domain.Feedback, error) {
	fb, ok := r.items[id]
	if !ok {
		return nil, domain.ErrFeedbackNotFound
	}
	now := time.Now().UTC()
	fb.Response = response
	fb.UpdatedAt = &now
	clone := *fb
	return &clone, nil
}

// ---------------------------------------------------------------------------
// Image store, prefetcher, generator and cache stubs
// ---------------------------------------------------------------------------

type stubImageStore struct {
	saved map[string][]byte
	err   error
}

func newStubImageStore() *stubImageStore {
	return &stubImageStore{saved: make(map[string][]byte)}
}

func (s *stubImageStore) Save(_ context.Context, key, _ string, body io.ReadSeeker) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.saved[key] = b
	return "/uploads/" + key, nil
}

type stubPrefetcher struct {
	jobs []ports.SuggestionJob
}

func (p *stubPrefetcher) Enqueue(job ports.SuggestionJob) bool {
	p.jobs = append(p.jobs, job)
	return true
}

type stubGenerator struct {
	mu      sync.Mutex
	text    string
	err     error
	calls   int
	lastSys string
	lastMsg string
}

func (g *stubGenerator) Generate(_ context.Context, system, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.lastSys, g.lastMsg = system, prompt
	return g.text, g.err
}

type stubCache struct {
	data   map[string]string
	getErr error
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string]string)}
}

func (c *stubCache) Get(_ context.Context, key string) (string, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *stubCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.data[key] = value
	return nil
}
