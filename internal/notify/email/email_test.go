package email

import (
	"context"
	"testing"

	"github.com/jon4hz/roster/internal/config"
	"github.com/jon4hz/roster/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyUserCreated_Disabled(t *testing.T) {
	svc := New(&config.EmailConfig{Enabled: false, SMTPHost: "unreachable.invalid"}, "")
	err := svc.NotifyUserCreated(context.Background(), &database.User{ID: 1, Username: "alice", Email: "alice@example.com"})
	assert.NoError(t, err)
}

func TestNotifyUserCreated_NilConfig(t *testing.T) {
	svc := New(nil, "")
	assert.NoError(t, svc.NotifyUserCreated(context.Background(), &database.User{Email: "alice@example.com"}))
}

func TestNotifyUserCreated_DryRun(t *testing.T) {
	svc := New(&config.EmailConfig{
		Enabled:   true,
		DryRun:    true,
		SMTPHost:  "unreachable.invalid",
		FromEmail: "roster@example.com",
	}, "http://localhost:5000")

	err := svc.NotifyUserCreated(context.Background(), &database.User{ID: 1, Username: "alice", Email: "alice@example.com"})
	assert.NoError(t, err)
}

func TestNotifyUserCreated_SMTPFailure(t *testing.T) {
	svc := New(&config.EmailConfig{
		Enabled:   true,
		SMTPHost:  "127.0.0.1",
		SMTPPort:  1, // nothing listens here
		FromEmail: "roster@example.com",
	}, "")

	err := svc.NotifyUserCreated(context.Background(), &database.User{ID: 1, Username: "alice", Email: "alice@example.com"})
	assert.Error(t, err)
}

func TestRenderWelcome(t *testing.T) {
	body, err := renderWelcome(Welcome{
		ID:        42,
		Username:  "<alice>",
		Email:     "alice@example.com",
		ServerURL: "http://localhost:5000",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "&lt;alice&gt;")
	assert.Contains(t, body, "alice@example.com")
	assert.Contains(t, body, "<td>42</td>")
	assert.Contains(t, body, `href="http://localhost:5000"`)
}
