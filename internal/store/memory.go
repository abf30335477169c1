package store

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"STOREFRONT_BACK-END/internal/models"
)

// MemoryStore keeps every collection in process memory. It is used for local
// development and tests; records are copied on the way in and out.
type MemoryStore struct {
	mu            sync.RWMutex
	users         []models.User
	websites      []models.Website
	verifications []models.AuthVerification
	now           func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) Close() {}

func (s *MemoryStore) FindUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].Email == email {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) InsertUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].Email == u.Email {
			return ErrDuplicate
		}
	}
	s.users = append(s.users, *u)
	return nil
}

func (s *MemoryStore) FindWebsite(_ context.Context, f WebsiteFilter) (*models.Website, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.websites {
		if f.Matches(&s.websites[i]) {
			w := cloneWebsite(s.websites[i])
			return &w, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindWebsites(_ context.Context, f WebsiteFilter, limit int) ([]models.Website, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Website, 0)
	for i := range s.websites {
		if limit > 0 && len(out) >= limit {
			break
		}
		if f.Matches(&s.websites[i]) {
			out = append(out, cloneWebsite(s.websites[i]))
		}
	}
	return out, nil
}

func (s *MemoryStore) InsertWebsite(_ context.Context, w *models.Website) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.websites {
		if s.websites[i].ID == w.ID {
			return ErrDuplicate
		}
	}
	s.websites = append(s.websites, cloneWebsite(*w))
	return nil
}

func (s *MemoryStore) UpdateWebsite(_ context.Context, f WebsiteFilter, patch models.WebsitePatch) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched int64
	for i := range s.websites {
		if !f.Matches(&s.websites[i]) {
			continue
		}
		w := cloneWebsite(s.websites[i])
		patch.Apply(&w)
		s.websites[i] = cloneWebsite(w)
		matched++
	}
	return matched, nil
}

func (s *MemoryStore) LatestActiveVerification(_ context.Context, userID uuid.UUID) (*models.AuthVerification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	for i := len(s.verifications) - 1; i >= 0; i-- {
		v := s.verifications[i]
		if v.UserID == userID && !v.Used && v.ExpiresAt.After(now) {
			return &v, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) InsertVerification(_ context.Context, v *models.AuthVerification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verifications = append(s.verifications, *v)
	return nil
}

func (s *MemoryStore) FindVerification(_ context.Context, email, code string) (*models.AuthVerification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.verifications) - 1; i >= 0; i-- {
		v := s.verifications[i]
		if v.Email == email && v.Code == code {
			return &v, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ConsumeVerification(_ context.Context, id, userID uuid.UUID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	vi := slices.IndexFunc(s.verifications, func(v models.AuthVerification) bool {
		return v.ID == id && v.UserID == userID && !v.Used
	})
	ui := slices.IndexFunc(s.users, func(u models.User) bool { return u.ID == userID })
	if vi < 0 || ui < 0 {
		return ErrNotFound
	}
	s.verifications[vi].Used = true
	s.users[ui].PasswordHash = passwordHash
	return nil
}

func cloneWebsite(w models.Website) models.Website {
	w.Products = slices.Clone(w.Products)
	w.SocialLinks = maps.Clone(w.SocialLinks)
	if w.LogoImage != nil {
		logo := *w.LogoImage
		w.LogoImage = &logo
	}
	if w.HeroImage != nil {
		hero := *w.HeroImage
		w.HeroImage = &hero
	}
	return w
}
