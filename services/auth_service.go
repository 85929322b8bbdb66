package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/mindboosthq/mindboost-api/config"
	"github.com/mindboosthq/mindboost-api/db"
	apiError "github.com/mindboosthq/mindboost-api/errors"
	"github.com/mindboosthq/mindboost-api/models"
	"github.com/mindboosthq/mindboost-api/services/jwt"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

// AuthService interface
type AuthService interface {
	SignupUser(request *models.User) (*models.User, error)
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	GoogleLoginUser(loginRequest *models.GoogleLoginRequest) (*models.LoginResponse, *apiError.Error)
	GetUserProfile(userID uint) (*models.User, error)
	EditUserProfile(userID uint, details *models.EditProfileRequest) error
	SendEmailForPasswordReset(request *models.ForgotPassword) *apiError.Error
	ResetPassword(request *models.ResetPassword, token string) *apiError.Error
	GetAllUsers() ([]models.User, error)
}

// Mailer is the subset of the mail service the auth flow needs
type Mailer interface {
	SendResetPassword(recipient, resetLink string) (string, error)
	SendWelcome(recipient, fullname string) (string, error)
}

type authService struct {
	Config          *config.Config
	authRepo        db.AuthRepository
	notificationSvc NotificationService
	mail            Mailer
}

// NewAuthService instantiate an authService
func NewAuthService(authRepo db.AuthRepository, notificationSvc NotificationService, mail Mailer, conf *config.Config) AuthService {
	return &authService{
		Config:          conf,
		authRepo:        authRepo,
		notificationSvc: notificationSvc,
		mail:            mail,
	}
}

func (s *authService) SignupUser(user *models.User) (*models.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}

	if err := models.CleanInput(user); err != nil {
		log.Printf("SignupUser error normalizing input: %v", err)
		return nil, apiError.ErrBadRequest
	}

	if err := models.ValidatePassword(user.Password); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	if err := s.authRepo.IsEmailExist(user.Email); err != nil {
		return nil, apiError.GetUniqueContraintError(err)
	}
	if err := s.authRepo.IsUsernameExist(user.Username); err != nil {
		return nil, apiError.GetUniqueContraintError(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("SignupUser error hashing password: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	user.HashedPassword = string(hashedPassword)
	user.Password = "" // Clear the plain password
	user.IsEmailActive = true

	createdUser, err := s.authRepo.CreateUser(user)
	if err != nil {
		log.Printf("SignupUser error creating user: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	// Welcome mail failures should not fail the signup
	if s.mail != nil {
		if _, err := s.mail.SendWelcome(createdUser.Email, createdUser.Fullname); err != nil {
			log.Printf("SignupUser error sending welcome email: %v", err)
		}
	}

	return createdUser, nil
}

// LoginUser logs in a user and returns the login response
func (s *authService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	foundUser, err := s.authRepo.FindUserByEmail(loginRequest.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("invalid email or password", http.StatusUnprocessableEntity)
		}
		log.Printf("Error finding user by email: %v", err)
		return nil, apiError.New("unable to find user", http.StatusInternalServerError)
	}

	if err := foundUser.VerifyPassword(loginRequest.Password); err != nil {
		log.Printf("Invalid password for user %s", foundUser.Email)
		return nil, apiError.ErrInvalidPassword
	}

	return s.buildLoginResponse(foundUser)
}

// GoogleLoginUser verifies the Google ID token and logs the user in,
// creating an account on first sign in
func (s *authService) GoogleLoginUser(loginRequest *models.GoogleLoginRequest) (*models.LoginResponse, *apiError.Error) {
	payload, err := idtoken.Validate(context.Background(), loginRequest.IDToken, s.Config.GoogleClientID)
	if err != nil {
		log.Printf("GoogleLoginUser invalid id token: %v", err)
		return nil, apiError.New("invalid google token", http.StatusUnauthorized)
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if email == "" {
		return nil, apiError.New("google token has no email", http.StatusUnauthorized)
	}

	foundUser, err := s.authRepo.FindUserByEmail(email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("GoogleLoginUser error finding user: %v", err)
			return nil, apiError.ErrInternalServerError
		}
		// First Google sign in creates the account
		foundUser, err = s.authRepo.CreateUser(&models.User{
			Fullname:      name,
			Username:      email,
			Email:         email,
			IsSocial:      true,
			IsEmailActive: true,
		})
		if err != nil {
			log.Printf("GoogleLoginUser error creating user: %v", err)
			return nil, apiError.ErrInternalServerError
		}
	}

	return s.buildLoginResponse(foundUser)
}

func (s *authService) buildLoginResponse(foundUser *models.User) (*models.LoginResponse, *apiError.Error) {
	roleName := foundUser.Role.Name
	if roleName == "" {
		role, err := s.authRepo.FindRoleByID(foundUser.RoleID)
		if err != nil {
			log.Printf("Error fetching role for user %s: %v", foundUser.Email, err)
			return nil, apiError.New("unable to fetch role", http.StatusInternalServerError)
		}
		roleName = role.Name
	}

	accessToken, refreshToken, err := jwt.GenerateTokenPair(foundUser.Email, s.Config.JWTSecret, foundUser.AdminStatus, foundUser.ID, roleName)
	if err != nil {
		log.Printf("Error generating token pair for user %s: %v", foundUser.Email, err)
		return nil, apiError.ErrInternalServerError
	}

	if err := s.authRepo.UpdateUserOnlineStatus(foundUser.ID, true); err != nil {
		log.Printf("Error updating online status for user %s: %v", foundUser.Email, err)
	}

	// Push a security notification about the new login. Failure here is
	// not a login failure.
	if s.notificationSvc != nil {
		if _, err := s.notificationSvc.Dispatch(foundUser.ID, &models.NotificationParams{
			Type:    models.NotificationTypeSecurity,
			Title:   "New login",
			Message: "A new login to your account was detected. If this wasn't you, please reset your password.",
		}); err != nil {
			log.Printf("Error dispatching login notification for user %s: %v", foundUser.Email, err)
		}
	}

	return &models.LoginResponse{
		UserResponse: models.UserResponse{
			ID:       foundUser.ID,
			Fullname: foundUser.Fullname,
			Username: foundUser.Username,
			Email:    foundUser.Email,
			RoleName: roleName,
		},
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *authService) GetUserProfile(userID uint) (*models.User, error) {
	user, err := s.authRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.ErrNotFound
		}
		return nil, apiError.ErrInternalServerError
	}
	return user, nil
}

func (s *authService) EditUserProfile(userID uint, details *models.EditProfileRequest) error {
	if err := models.CleanInput(details); err != nil {
		return apiError.ErrBadRequest
	}
	return s.authRepo.EditUserProfile(userID, details)
}

func (s *authService) SendEmailForPasswordReset(request *models.ForgotPassword) *apiError.Error {
	user, err := s.authRepo.FindUserByEmail(request.Email)
	if err != nil || user == nil {
		return apiError.New("user not found", http.StatusNotFound)
	}

	resetToken, err := jwt.GeneratePasswordResetToken(user.ID, s.Config.JWTSecret)
	if err != nil {
		log.Printf("error generating reset token: %v", err)
		return apiError.ErrInternalServerError
	}

	resetLink := fmt.Sprintf("%s/reset-password/%s", s.Config.BaseUrl, resetToken)
	if _, err := s.mail.SendResetPassword(user.Email, resetLink); err != nil {
		log.Printf("error sending reset email: %v", err)
		return apiError.New("connection to mail service interrupted", http.StatusInternalServerError)
	}

	return nil
}

func (s *authService) ResetPassword(request *models.ResetPassword, token string) *apiError.Error {
	if request.Password != request.ConfirmPassword {
		return apiError.New("passwords do not match", http.StatusBadRequest)
	}
	if err := models.ValidatePassword(request.Password); err != nil {
		return apiError.New(err.Error(), http.StatusBadRequest)
	}

	claims, err := jwt.ValidateAndGetClaims(token, s.Config.JWTSecret)
	if err != nil {
		return apiError.New("invalid or expired reset token", http.StatusUnauthorized)
	}
	if tokenType, _ := claims["type"].(string); tokenType != "password_reset" {
		return apiError.New("invalid reset token", http.StatusUnauthorized)
	}
	idValue, ok := claims["id"].(float64)
	if !ok {
		return apiError.New("invalid reset token", http.StatusUnauthorized)
	}
	userID := uint(idValue)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return apiError.ErrInternalServerError
	}
	if err := s.authRepo.UpdatePassword(string(hashedPassword), userID); err != nil {
		log.Printf("error updating password: %v", err)
		return apiError.ErrInternalServerError
	}

	// Tell the user their password changed, on every open session
	if s.notificationSvc != nil {
		if _, err := s.notificationSvc.Dispatch(userID, &models.NotificationParams{
			Type:    models.NotificationTypeSecurity,
			Title:   "Password changed",
			Message: "Your account password was just changed.",
		}); err != nil {
			log.Printf("error dispatching password change notification: %v", err)
		}
	}

	return nil
}

func (s *authService) GetAllUsers() ([]models.User, error) {
	return s.authRepo.GetAllUsers()
}
