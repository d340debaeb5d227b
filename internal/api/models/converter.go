package models

import (
	"github.com/jon4hz/roster/internal/config"
	"github.com/jon4hz/roster/internal/database"
	"github.com/jon4hz/roster/internal/gravatar"
	"github.com/samber/lo"
)

// ToUser converts a database.User to its public representation.
// The creation timestamp is internal and never exposed.
func ToUser(u database.User, cfg *config.GravatarConfig) User {
	return User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		AvatarURL: gravatar.GenerateURL(u.Email, cfg),
	}
}

// ToUsers converts a slice of database.User, keeping the input order.
func ToUsers(users []database.User, cfg *config.GravatarConfig) []User {
	return lo.Map(users, func(u database.User, _ int) User {
		return ToUser(u, cfg)
	})
}

// ToUsersResponse builds the listing payload. Users is never nil.
func ToUsersResponse(users []database.User, cfg *config.GravatarConfig) UsersResponse {
	converted := ToUsers(users, cfg)
	if converted == nil {
		converted = []User{}
	}
	return UsersResponse{
		Total: len(converted),
		Users: converted,
	}
}
