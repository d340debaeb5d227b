package mock

import (
	"context"
	"sync"
	"time"

	"github.com/jon4hz/roster/internal/database"
)

var _ database.DB = (*MockDB)(nil)

// MockDB is a mock implementation of database.DB for testing.
// It enforces email uniqueness like the real store.
type MockDB struct {
	mu sync.RWMutex

	users      []database.User
	nextUserID uint

	// Error simulation
	CreateUserError    error
	GetAllUsersError   error
	GetUserByIDError   error
	CountUsersError    error
	GetNewestUserError error

	// Call counters
	CreateUserCalls  int
	GetUserByIDCalls int
}

// NewMockDB creates a new MockDB instance.
func NewMockDB() *MockDB {
	return &MockDB{
		nextUserID: 1,
	}
}

// Reset clears all data and errors from the mock database.
func (m *MockDB) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users = nil
	m.nextUserID = 1

	m.CreateUserError = nil
	m.GetAllUsersError = nil
	m.GetUserByIDError = nil
	m.CountUsersError = nil
	m.GetNewestUserError = nil

	m.CreateUserCalls = 0
	m.GetUserByIDCalls = 0
}

func (m *MockDB) CreateUser(ctx context.Context, username, email string) (*database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateUserCalls++
	if m.CreateUserError != nil {
		return nil, m.CreateUserError
	}

	for _, u := range m.users {
		if u.Email == email {
			return nil, database.ErrEmailTaken
		}
	}

	user := database.User{
		ID:        m.nextUserID,
		Username:  username,
		Email:     email,
		CreatedAt: time.Now(),
	}
	m.nextUserID++
	m.users = append(m.users, user)

	return &user, nil
}

func (m *MockDB) GetAllUsers(ctx context.Context) ([]database.User, error) {
	if m.GetAllUsersError != nil {
		return nil, m.GetAllUsersError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]database.User, len(m.users))
	copy(users, m.users)
	return users, nil
}

func (m *MockDB) GetUserByID(ctx context.Context, id uint) (*database.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetUserByIDCalls++
	if m.GetUserByIDError != nil {
		return nil, m.GetUserByIDError
	}

	for _, u := range m.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, database.ErrUserNotFound
}

func (m *MockDB) CountUsers(ctx context.Context) (int64, error) {
	if m.CountUsersError != nil {
		return 0, m.CountUsersError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.users)), nil
}

func (m *MockDB) GetNewestUser(ctx context.Context) (*database.User, error) {
	if m.GetNewestUserError != nil {
		return nil, m.GetNewestUserError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.users) == 0 {
		return nil, database.ErrUserNotFound
	}
	user := m.users[len(m.users)-1]
	return &user, nil
}

func (m *MockDB) Close() error {
	return nil
}
