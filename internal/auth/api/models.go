package authapi

import (
	"time"

	"github.com/SurendarRam14/login-authentication-backend/internal/identity"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type updatePasswordRequest struct {
	Email       string `json:"email"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type forgotPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

// userResponse is the client-visible user shape. The password hash has no
// field here, so it cannot leak at any return point.
type userResponse struct {
	ID                    string    `json:"id"`
	Email                 string    `json:"email"`
	Username              string    `json:"username"`
	CreatedAt             time.Time `json:"createdAt"`
	LastPasswordUpdatedAt time.Time `json:"lastPasswordUpdatedAt"`
	LastModifiedAt        time.Time `json:"lastModifiedAt"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type userEnvelope struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

func toUserResponse(u identity.User) userResponse {
	return userResponse{
		ID:                    u.ID,
		Email:                 u.Email,
		Username:              u.Username,
		CreatedAt:             u.CreatedAt,
		LastPasswordUpdatedAt: u.LastPasswordUpdatedAt,
		LastModifiedAt:        u.LastModifiedAt,
	}
}
