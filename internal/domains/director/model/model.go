package model

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"studyhall-backend/internal/shared"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.-]{3,30}$`)

// User is an admin or director account. Directors are managed by admins;
// the single admin account comes from seeding.
type User struct {
	ID           uuid.UUID   `json:"id"`
	Username     string      `json:"username"`
	PasswordHash string      `json:"-"`
	Name         string      `json:"name"`
	Role         shared.Role `json:"role"`
	IsActive     bool        `json:"is_active"`
	LastLoginAt  *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required.Error("username is required")),
		validation.Field(&r.Password, validation.Required.Error("password is required")),
	)
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

type CreateDirectorRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (r CreateDirectorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			validation.Match(usernamePattern).Error("username must be 3-30 chars of lowercase letters, digits, _ . -"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 72).Error("password must be between 8 and 72 characters"),
		),
		validation.Field(&r.Name, validation.Required.Error("name is required")),
	)
}

// UpdateProfileRequest lets an authenticated account change its own name
// or password. A password change must prove the current one.
type UpdateProfileRequest struct {
	Name            *string `json:"name,omitempty"`
	CurrentPassword *string `json:"current_password,omitempty"`
	NewPassword     *string `json:"new_password,omitempty"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty.Error("name cannot be empty")),
		validation.Field(&r.NewPassword,
			validation.By(func(value interface{}) error {
				p, _ := value.(*string)
				if p == nil {
					return nil
				}
				return validation.Validate(*p, validation.Length(8, 72).Error("password must be between 8 and 72 characters"))
			}),
		),
		validation.Field(&r.CurrentPassword,
			validation.Required.When(r.NewPassword != nil).Error("current_password is required to change the password"),
		),
	)
}

type UpdateDirectorRequest struct {
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (r UpdateDirectorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty.Error("name cannot be empty")),
		validation.Field(&r.Password,
			validation.By(func(value interface{}) error {
				p, _ := value.(*string)
				if p == nil {
					return nil
				}
				return validation.Validate(*p, validation.Length(8, 72).Error("password must be between 8 and 72 characters"))
			}),
		),
	)
}
