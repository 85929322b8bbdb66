package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	apiError "github.com/mindboosthq/mindboost-api/errors"
	"github.com/mindboosthq/mindboost-api/models"
	"github.com/mindboosthq/mindboost-api/server/response"
)

const oauthStateCookie = "oauth_state"

var enTranslator ut.Translator

func init() {
	english := en.New()
	uni := ut.New(english, english)
	enTranslator, _ = uni.GetTranslator("en")
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := enTranslations.RegisterDefaultTranslations(v, enTranslator); err != nil {
			log.Printf("error registering validator translations: %v", err)
		}
	}
}

// bindingError turns validator failures into readable messages
func bindingError(err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		translated := models.TranslateError(verrs, enTranslator)
		msg := ""
		for _, e := range translated {
			msg += e.Error()
		}
		return fmt.Errorf("%s", msg)
	}
	return err
}

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := decode(c, &user); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, bindingError(err))
			return
		}

		createdUser, err := s.AuthService.SignupUser(&user)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		response.JSON(c, "signup successful", http.StatusCreated, models.UserResponse{
			ID:       createdUser.ID,
			Fullname: createdUser.Fullname,
			Username: createdUser.Username,
			Email:    createdUser.Email,
		}, nil)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest models.LoginRequest
		if err := decode(c, &loginRequest); err != nil {
			response.JSON(c, "", apiError.ErrBadRequest.Status, nil, bindingError(err))
			return
		}
		userResponse, err := s.AuthService.LoginUser(&loginRequest)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "login successful", http.StatusOK, userResponse, nil)
	}
}

// handleGoogleLogin accepts an ID token obtained by the client SDK
func (s *Server) handleGoogleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest models.GoogleLoginRequest
		if err := decode(c, &loginRequest); err != nil {
			response.JSON(c, "", apiError.ErrBadRequest.Status, nil, bindingError(err))
			return
		}
		userResponse, err := s.AuthService.GoogleLoginUser(&loginRequest)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "login successful", http.StatusOK, userResponse, nil)
	}
}

func (s *Server) googleOauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.Config.GoogleClientID,
		ClientSecret: s.Config.GoogleClientSecret,
		RedirectURL:  s.Config.GoogleRedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

// HandleGoogleRedirect starts the server side OAuth flow for browser clients
func (s *Server) HandleGoogleRedirect() gin.HandlerFunc {
	return func(c *gin.Context) {
		state := uuid.NewString()
		c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
		c.Redirect(http.StatusTemporaryRedirect, s.googleOauthConfig().AuthCodeURL(state))
	}
}

func (s *Server) HandleGoogleCallback() gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := c.Cookie(oauthStateCookie)
		if err != nil || state == "" || state != c.Query("state") {
			response.JSON(c, "", http.StatusUnauthorized, nil, apiError.New("invalid oauth state", http.StatusUnauthorized))
			return
		}

		token, err := s.googleOauthConfig().Exchange(c.Request.Context(), c.Query("code"))
		if err != nil {
			log.Printf("google code exchange failed: %v", err)
			response.JSON(c, "", http.StatusUnauthorized, nil, apiError.New("code exchange failed", http.StatusUnauthorized))
			return
		}

		rawIDToken, ok := token.Extra("id_token").(string)
		if !ok || rawIDToken == "" {
			response.JSON(c, "", http.StatusUnauthorized, nil, apiError.New("google response has no id token", http.StatusUnauthorized))
			return
		}

		userResponse, apiErr := s.AuthService.GoogleLoginUser(&models.GoogleLoginRequest{IDToken: rawIDToken})
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "login successful", http.StatusOK, userResponse, nil)
	}
}

func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, exists := c.Get("access_token")
		if !exists {
			respondAndAbort(c, "Access token not found in context", http.StatusInternalServerError, nil, apiError.ErrInternalServerError)
			return
		}
		accessToken, ok := token.(string)
		if !ok {
			respondAndAbort(c, "Access token is not a string", http.StatusInternalServerError, nil, apiError.ErrInternalServerError)
			return
		}

		if err := s.AuthRepository.AddToBlackList(&models.Blacklist{Token: accessToken}); err != nil {
			log.Printf("Error adding access token to blacklist: %v", err)
			respondAndAbort(c, "Logout failed", http.StatusInternalServerError, nil, apiError.ErrInternalServerError)
			return
		}

		if userID, ok := currentUserID(c); ok {
			if err := s.AuthRepository.UpdateUserOnlineStatus(userID, false); err != nil {
				log.Printf("Failed to set user %d offline: %v", userID, err)
			}
		}

		response.JSON(c, "Logout successful", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleShowProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, apiError.ErrUnauthorized)
			return
		}
		user, err := s.AuthService.GetUserProfile(userID)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, models.UserResponse{
			ID:       user.ID,
			Fullname: user.Fullname,
			Username: user.Username,
			Email:    user.Email,
			RoleName: user.Role.Name,
		}, nil)
	}
}

func (s *Server) handleEditUserProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, apiError.ErrUnauthorized)
			return
		}

		var details models.EditProfileRequest
		if err := decode(c, &details); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, bindingError(err))
			return
		}

		if err := s.AuthService.EditUserProfile(userID, &details); err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "profile updated", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleUploadProfileImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, apiError.ErrUnauthorized)
			return
		}

		fileHeader, err := c.FormFile("profile_image")
		if err != nil {
			response.JSON(c, "missing or invalid file", http.StatusBadRequest, nil, err)
			return
		}

		url, err := s.MediaService.UploadProfileImage(c.Request.Context(), fileHeader, userID)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "profile image updated", http.StatusOK, gin.H{"thumbnail_url": url}, nil)
	}
}

func (s *Server) handleGetAllUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := c.Get("user")
		u, ok := user.(*models.User)
		if !exists || !ok || !u.AdminStatus {
			respondAndAbort(c, "", http.StatusForbidden, nil, apiError.New("admin access required", http.StatusForbidden))
			return
		}

		users, err := s.AuthService.GetAllUsers()
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, users, nil)
	}
}

func (s *Server) handleForgotPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.ForgotPassword
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, bindingError(err))
			return
		}

		if err := s.AuthService.SendEmailForPasswordReset(&request); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Reset Password Link Sent Successfully", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleResetPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.ResetPassword
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, bindingError(err))
			return
		}

		if err := s.AuthService.ResetPassword(&request, c.Param("token")); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Password reset successful", http.StatusOK, nil, nil)
	}
}
