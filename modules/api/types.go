package api

import (
	"time"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// MessageResponse is a bare confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterBody is the registration request body.
type RegisterBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginBody is the login request body.
type LoginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshBody is the token refresh request body.
type RefreshBody struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenBody is the issued-tokens response body.
type TokenBody struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// UserBody is an account response body.
type UserBody struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTaskBody is the task creation request body. The owner comes from
// the verified token, never from the body.
type CreateTaskBody struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Categories  []string   `json:"categories"`
	DueDate     *time.Time `json:"dueDate"`
}

// UpdateTaskBody is the partial-update request body. Absent fields are
// left untouched; id and owner are not accepted here at all.
type UpdateTaskBody struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	Categories  *[]string  `json:"categories"`
	DueDate     *time.Time `json:"dueDate"`
	Status      *string    `json:"status"`
}
