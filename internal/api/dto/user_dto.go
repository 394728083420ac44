package dto

import (
	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
	"github.com/Lynx-thelearner/BE-Wisata/internal/service"
)

// RegisterRequest payload for public sign-up.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (r RegisterRequest) Input() service.RegisterInput {
	return service.RegisterInput{Name: r.Name, Username: r.Username, Email: r.Email, Password: r.Password}
}

// CreateUserRequest payload for admin-created accounts.
type CreateUserRequest struct {
	RegisterRequest
	Role domain.Role `json:"role" validate:"omitempty,oneof=admin user editor"`
}

func (r CreateUserRequest) Input() service.CreateUserInput {
	return service.CreateUserInput{RegisterInput: r.RegisterRequest.Input(), Role: r.Role}
}

// UpdateMeRequest is the self-service patch. It has no role field.
type UpdateMeRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Username *string `json:"username" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
}

func (r UpdateMeRequest) Patch() domain.UserPatch {
	return domain.UserPatch{Name: r.Name, Username: r.Username, Email: r.Email, Password: r.Password}
}

// UpdateUserRequest is the admin patch.
type UpdateUserRequest struct {
	UpdateMeRequest
	Role *domain.Role `json:"role" validate:"omitempty,oneof=admin user editor"`
}

func (r UpdateUserRequest) Patch() domain.UserPatch {
	patch := r.UpdateMeRequest.Patch()
	patch.Role = r.Role
	return patch
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID       int64       `json:"id_user"`
	Name     string      `json:"name"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
}

func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Username: u.Username, Email: u.Email, Role: u.Role}
}

func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
