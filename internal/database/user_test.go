package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jon4hz/roster/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type UserTestSuite struct {
	suite.Suite
	ctx    context.Context
	client *Client
}

func (s *UserTestSuite) SetupTest() {
	s.ctx = context.Background()

	client, err := New(s.ctx, &config.DatabaseConfig{
		Driver: config.DatabaseDriverSQLite,
		Path:   filepath.Join(s.T().TempDir(), "data", "roster.db"),
	})
	s.Require().NoError(err)
	s.client = client
}

func (s *UserTestSuite) TearDownTest() {
	if s.client != nil {
		_ = s.client.Close()
	}
}

func (s *UserTestSuite) TestCreateUser() {
	user, err := s.client.CreateUser(s.ctx, "alice", "alice@example.com")
	s.Require().NoError(err)

	s.NotZero(user.ID)
	s.Equal("alice", user.Username)
	s.Equal("alice@example.com", user.Email)
	s.False(user.CreatedAt.IsZero())
}

func (s *UserTestSuite) TestCreateUser_AssignsFreshIDs() {
	first, err := s.client.CreateUser(s.ctx, "alice", "alice@example.com")
	s.Require().NoError(err)
	second, err := s.client.CreateUser(s.ctx, "alice", "alice2@example.com")
	s.Require().NoError(err)

	s.NotEqual(first.ID, second.ID)
}

func (s *UserTestSuite) TestCreateUser_DuplicateEmail() {
	_, err := s.client.CreateUser(s.ctx, "alice", "shared@example.com")
	s.Require().NoError(err)

	_, err = s.client.CreateUser(s.ctx, "bob", "shared@example.com")
	s.ErrorIs(err, ErrEmailTaken)

	count, err := s.client.CountUsers(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(1, count)
}

func (s *UserTestSuite) TestCreateUser_ClosedDatabase() {
	s.Require().NoError(s.client.Close())

	_, err := s.client.CreateUser(s.ctx, "alice", "alice@example.com")
	s.Error(err)
	s.NotErrorIs(err, ErrEmailTaken)
	s.client = nil
}

func (s *UserTestSuite) TestGetAllUsers_Empty() {
	users, err := s.client.GetAllUsers(s.ctx)
	s.Require().NoError(err)
	s.NotNil(users)
	s.Empty(users)
}

func (s *UserTestSuite) TestGetAllUsers_InsertionOrder() {
	for _, u := range []struct{ name, email string }{
		{"carol", "carol@example.com"},
		{"alice", "alice@example.com"},
		{"bob", "bob@example.com"},
	} {
		_, err := s.client.CreateUser(s.ctx, u.name, u.email)
		s.Require().NoError(err)
	}

	users, err := s.client.GetAllUsers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 3)
	s.Equal("carol", users[0].Username)
	s.Equal("alice", users[1].Username)
	s.Equal("bob", users[2].Username)
}

func (s *UserTestSuite) TestGetUserByID() {
	created, err := s.client.CreateUser(s.ctx, "alice", "alice@example.com")
	s.Require().NoError(err)

	user, err := s.client.GetUserByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, user.ID)
	s.Equal("alice", user.Username)
	s.Equal("alice@example.com", user.Email)
}

func (s *UserTestSuite) TestGetUserByID_NotFound() {
	_, err := s.client.GetUserByID(s.ctx, 4242)
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *UserTestSuite) TestGetNewestUser() {
	_, err := s.client.GetNewestUser(s.ctx)
	s.ErrorIs(err, ErrUserNotFound)

	_, err = s.client.CreateUser(s.ctx, "alice", "alice@example.com")
	s.Require().NoError(err)
	_, err = s.client.CreateUser(s.ctx, "bob", "bob@example.com")
	s.Require().NoError(err)

	newest, err := s.client.GetNewestUser(s.ctx)
	s.Require().NoError(err)
	s.Equal("bob", newest.Username)
}

func TestUserTestSuite(t *testing.T) {
	suite.Run(t, new(UserTestSuite))
}

func TestNew_MigrationsAreIdempotent(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver: config.DatabaseDriverSQLite,
		Path:   filepath.Join(t.TempDir(), "roster.db"),
	}

	first, err := New(context.Background(), cfg)
	require.NoError(t, err)
	_, err = first.CreateUser(context.Background(), "alice", "alice@example.com")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer second.Close() //nolint: errcheck

	count, err := second.CountUsers(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(context.Background(), &config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}
