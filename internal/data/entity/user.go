package entity

import (
	"time"

	"cinephile/internal/validation"
)

const (
	UsernameMaxLength = 150
	NameMaxLength     = 100
	EmailMaxLength    = 254
)

type User struct {
	Base
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password"`
	FirstName    string     `db:"first_name"`
	LastName     string     `db:"last_name"`
	IsSuperuser  bool       `db:"is_superuser"`
	IsActive     bool       `db:"is_active"`
	LastLogin    *time.Time `db:"last_login"`
}

func (u *User) Validate() error {
	errs := validation.Errors{}

	errs.Check("username", validation.CheckRequired(u.Username))
	errs.Check("username", validation.CheckMaxLen(u.Username, UsernameMaxLength))
	errs.Check("email", validation.CheckMaxLen(u.Email, EmailMaxLength))
	errs.Check("first_name", validation.CheckMaxLen(u.FirstName, NameMaxLength))
	errs.Check("last_name", validation.CheckMaxLen(u.LastName, NameMaxLength))

	if u.PasswordHash == "" {
		errs.Add("password", "this field is required")
	}

	return errs.Err()
}
