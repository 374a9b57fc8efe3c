package request

import "cinephile/internal/data/entity"

type UserRequest struct {
	Username    *string `json:"username"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Password    *string `json:"password" validate:"omitempty,min=8"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	IsSuperuser *bool   `json:"is_superuser"`
	IsActive    *bool   `json:"is_active"`
}

func (r *UserRequest) Missing() map[string]string {
	return missing(map[string]bool{
		"username": r.Username != nil,
		"password": r.Password != nil,
	})
}

// ApplyProfile copies the fields a user may set about themselves. Password
// and flags are handled by the service.
func (r *UserRequest) ApplyProfile(u *entity.User) {
	setIf(&u.Username, r.Username)
	setIf(&u.Email, r.Email)
	setIf(&u.FirstName, r.FirstName)
	setIf(&u.LastName, r.LastName)
}

// ApplyFlags copies the administrative flags.
func (r *UserRequest) ApplyFlags(u *entity.User) {
	setIf(&u.IsSuperuser, r.IsSuperuser)
	setIf(&u.IsActive, r.IsActive)
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the sign-up form. Unlike the REST create it requires
// names and email.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Email           string `json:"email" validate:"required,email,max=200"`
	Password        string `json:"password1" validate:"required,min=8"`
	PasswordConfirm string `json:"password2" validate:"required,eqfield=Password"`
}

func (r *RegisterRequest) User() *UserRequest {
	return &UserRequest{
		Username:  &r.Username,
		Email:     &r.Email,
		Password:  &r.Password,
		FirstName: &r.FirstName,
		LastName:  &r.LastName,
	}
}
