package models

import (
	"errors"
	"fmt"

	goval "github.com/go-passwd/validator"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/leebenson/conform"
	"golang.org/x/crypto/bcrypt"
)

// User represents a user of the application
type User struct {
	Model
	Fullname       string         `json:"fullname" binding:"required,min=2" conform:"trim"`
	Username       string         `json:"username" binding:"required,min=2" conform:"trim"`
	Email          string         `json:"email" gorm:"unique;not null" binding:"required,email" conform:"email,lower,trim"`
	Password       string         `json:"password,omitempty" validate:"omitempty,min=6"`
	HashedPassword string         `json:"-"`
	IsEmailActive  bool           `json:"-"`
	IsSocial       bool           `json:"-"`
	AdminStatus    bool           `json:"is_admin"`
	ThumbNailURL   string         `json:"thumbnail_url,omitempty"`
	ResetToken     string         `json:"-"`
	Online         bool           `json:"online"`
	RoleID         uuid.UUID      `gorm:"type:uuid" json:"role_id"`
	Role           Role           `gorm:"foreignKey:RoleID" json:"role"`
	Notifications  []Notification `gorm:"foreignKey:UserID" json:"-"`
	Enrollments    []Enrollment   `gorm:"foreignKey:UserID" json:"-"`
}

// VerifyPassword compares the given plain password with the stored hash
func (u *User) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
}

// ValidatePassword enforces the password policy on signup and reset
func ValidatePassword(password string) error {
	passwordValidator := goval.New(goval.MinLength(6, errors.New("password cant be less than 6 characters")),
		goval.MaxLength(64, errors.New("password cant be more than 64 characters")))
	return passwordValidator.Validate(password)
}

// CleanInput trims and normalizes the conform tagged fields of a request struct
func CleanInput(data interface{}) error {
	return conform.Strings(data)
}

func TranslateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	validatorErrs := err.(validator.ValidationErrors)
	for _, e := range validatorErrs {
		translatedErr := fmt.Errorf(e.Translate(trans) + "; ")
		errs = append(errs, translatedErr)
	}
	return errs
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Fullname string `json:"fullname"`
	Username string `json:"username"`
	Email    string `json:"email"`
	RoleName string `json:"role_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	UserResponse
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

type EditProfileRequest struct {
	Fullname string `json:"fullname" conform:"trim"`
	Username string `json:"username" conform:"trim"`
}

type ForgotPassword struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPassword struct {
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// Blacklist holds access tokens invalidated by logout
type Blacklist struct {
	Model
	Token string `gorm:"index" json:"token"`
	Email string `json:"email"`
}
