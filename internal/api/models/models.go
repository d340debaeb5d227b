package models

// User is the public representation of a stored user.
type User struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	// AvatarURL is only set when gravatar support is enabled.
	AvatarURL string `json:"avatar,omitempty"`
}

// UsersResponse is the payload of the user listing.
type UsersResponse struct {
	Total int    `json:"total"`
	Users []User `json:"users"`
}

// AddUserRequest is the body accepted when creating a user.
type AddUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// MessageResponse carries a human readable status message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse carries a human readable error.
type ErrorResponse struct {
	Error string `json:"error"`
}
