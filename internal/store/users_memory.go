package store

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/serroba/foodgram-go/internal/paging"
	"github.com/serroba/foodgram-go/internal/users"
)

type follow struct {
	userID   int64
	authorID int64
}

// UserMemoryStore is an in-memory implementation of users.Repository.
type UserMemoryStore struct {
	mu      sync.RWMutex
	users   map[int64]users.User
	follows map[follow]struct{}
	nextID  int64
	recipes *CatalogMemoryStore
}

// NewUserMemoryStore creates an empty user store. Recipe counts of
// subscriptions are read from recipes when it is not nil.
func NewUserMemoryStore(recipes *CatalogMemoryStore) *UserMemoryStore {
	return &UserMemoryStore{
		users:   make(map[int64]users.User),
		follows: make(map[follow]struct{}),
		recipes: recipes,
	}
}

func (m *UserMemoryStore) CreateUser(_ context.Context, u *users.NewUser) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Username == u.Username || strings.EqualFold(existing.Email, u.Email) {
			return nil, users.ErrUsernameTaken
		}
	}

	m.nextID++

	user := users.User{
		ID:        m.nextID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: time.Now().UTC(),
	}
	m.users[user.ID] = user

	return &user, nil
}

func (m *UserMemoryStore) GetUser(_ context.Context, id int64) (*users.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, users.ErrUserNotFound
	}

	return &user, nil
}

func (m *UserMemoryStore) ListUsers(_ context.Context, p paging.Params) (paging.Page[users.User], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]users.User, 0, len(m.users))
	for _, user := range m.users {
		all = append(all, user)
	}

	slices.SortFunc(all, func(a, b users.User) int {
		return cmp.Compare(a.ID, b.ID)
	})

	start, end := p.Window(len(all))

	return paging.Page[users.User]{Items: all[start:end], Count: len(all)}, nil
}

func (m *UserMemoryStore) SetAvatar(_ context.Context, id int64, avatar string) (*users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, users.ErrUserNotFound
	}

	user.Avatar = avatar
	m.users[id] = user

	return &user, nil
}

func (m *UserMemoryStore) Follow(_ context.Context, userID, authorID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := follow{userID: userID, authorID: authorID}
	if _, ok := m.follows[key]; ok {
		return users.ErrAlreadyFollowing
	}

	m.follows[key] = struct{}{}

	return nil
}

func (m *UserMemoryStore) Unfollow(_ context.Context, userID, authorID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := follow{userID: userID, authorID: authorID}
	if _, ok := m.follows[key]; !ok {
		return users.ErrNotFollowing
	}

	delete(m.follows, key)

	return nil
}

func (m *UserMemoryStore) Subscriptions(_ context.Context, userID int64) ([]users.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	subs := make([]users.Subscription, 0)

	for key := range m.follows {
		if key.userID != userID {
			continue
		}

		sub := users.Subscription{User: m.users[key.authorID]}
		if m.recipes != nil {
			sub.RecipesCount = m.recipes.CountByAuthor(key.authorID)
		}

		subs = append(subs, sub)
	}

	slices.SortFunc(subs, func(a, b users.Subscription) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return subs, nil
}

var _ users.Repository = (*UserMemoryStore)(nil)
