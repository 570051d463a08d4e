package models

import "time"

// SignupRequest holds the data for creating a new account.
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"` // Opcional
}

// LoginRequest represents credentials provided by the client.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned upon successful authentication.
// Points and buttons travel with the token so the client can render
// without a second round trip.
type LoginResponse struct {
	Token     string    `json:"token"`
	Points    int64     `json:"points"`
	Buttons   []Button  `json:"buttons"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SignupResponse confirms account creation.
type SignupResponse struct {
	Message string `json:"message"`
}

// PointsRequest carries the new total computed by the client.
// Pointer distingue "points": 0 de un campo ausente.
type PointsRequest struct {
	Points *int64 `json:"points"`
}

// PointsResponse echoes the stored (clamped) total.
type PointsResponse struct {
	Points int64 `json:"points"`
}

// ButtonsRequest carries the full replacement button list.
type ButtonsRequest struct {
	Buttons []Button `json:"buttons"`
}

// ButtonsResponse echoes the stored list.
type ButtonsResponse struct {
	Buttons []Button `json:"buttons"`
}

// UserDataResponse is the read-only snapshot projection.
type UserDataResponse struct {
	Points  int64    `json:"points"`
	Buttons []Button `json:"buttons"`
}

// ErrorResponse is a simple error shape for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
