package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jon4hz/roster/internal/config"
	"github.com/jon4hz/roster/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToUser(t *testing.T) {
	u := database.User{ID: 3, Username: "alice", Email: "alice@example.com", CreatedAt: time.Now()}

	got := ToUser(u, nil)
	assert.Equal(t, User{ID: 3, Username: "alice", Email: "alice@example.com"}, got)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"username":"alice","email":"alice@example.com"}`, string(raw))
}

func TestToUser_WithGravatar(t *testing.T) {
	cfg := &config.GravatarConfig{Enabled: true, DefaultImage: "identicon", Rating: "g", Size: 80}
	got := ToUser(database.User{ID: 1, Username: "alice", Email: "alice@example.com"}, cfg)
	assert.Contains(t, got.AvatarURL, "https://www.gravatar.com/avatar/")
}

func TestToUsersResponse(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		resp := ToUsersResponse(nil, nil)
		assert.Equal(t, 0, resp.Total)
		assert.NotNil(t, resp.Users)

		raw, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.JSONEq(t, `{"total":0,"users":[]}`, string(raw))
	})

	t.Run("keeps order", func(t *testing.T) {
		resp := ToUsersResponse([]database.User{
			{ID: 2, Username: "bob", Email: "bob@example.com"},
			{ID: 1, Username: "alice", Email: "alice@example.com"},
		}, nil)
		require.Equal(t, 2, resp.Total)
		assert.Equal(t, uint(2), resp.Users[0].ID)
		assert.Equal(t, uint(1), resp.Users[1].ID)
	})
}
