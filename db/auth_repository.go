package db

import (
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/mindboosthq/mindboost-api/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type AuthRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	IsEmailExist(email string) error
	IsUsernameExist(username string) error
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id uint) (*models.User, error)
	UpdateUser(user *models.User) error
	EditUserProfile(userID uint, details *models.EditProfileRequest) error
	UpdatePassword(password string, userID uint) error
	AddToBlackList(blacklist *models.Blacklist) error
	IsTokenInBlacklist(token string) bool
	UpdateUserOnlineStatus(userID uint, online bool) error
	FindRoleByID(roleID uuid.UUID) (*models.Role, error)
	FindRoleByName(name string) (*models.Role, error)
	GetAllUsers() ([]models.User, error)
	UpsertUserImage(userID uint, url string) error
}

type authRepo struct {
	DB *gorm.DB
}

func NewAuthRepo(db *GormDB) AuthRepository {
	return &authRepo{db.DB}
}

func (a *authRepo) CreateUser(user *models.User) (*models.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}

	// Assign the default role when none was set
	if user.RoleID == uuid.Nil {
		var defaultRole models.Role
		if err := a.DB.Where("name = ?", models.RoleUser).First(&defaultRole).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				defaultRole = models.Role{
					ID:   uuid.New(),
					Name: models.RoleUser,
				}
				if err := a.DB.Create(&defaultRole).Error; err != nil {
					log.Printf("CreateUser error creating default role: %v", err)
					return nil, err
				}
			} else {
				log.Printf("CreateUser error fetching default role: %v", err)
				return nil, err
			}
		}
		user.RoleID = defaultRole.ID
	}

	if err := a.DB.Create(user).Error; err != nil {
		return nil, errors.Wrap(err, "could not create user")
	}
	return user, nil
}

func (a *authRepo) IsEmailExist(email string) error {
	var count int64
	if err := a.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return errors.Wrap(err, "gorm count error")
	}
	if count > 0 {
		return errors.New("email already in use")
	}
	return nil
}

func (a *authRepo) IsUsernameExist(username string) error {
	var count int64
	if err := a.DB.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return errors.Wrap(err, "gorm count error")
	}
	if count > 0 {
		return errors.New("username already in use")
	}
	return nil
}

func (a *authRepo) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := a.DB.Preload("Role").Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	err := a.DB.Preload("Role").First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authRepo) UpdateUser(user *models.User) error {
	return a.DB.Save(user).Error
}

func (a *authRepo) EditUserProfile(userID uint, details *models.EditProfileRequest) error {
	updates := map[string]interface{}{}
	if details.Fullname != "" {
		updates["fullname"] = details.Fullname
	}
	if details.Username != "" {
		updates["username"] = details.Username
	}
	if len(updates) == 0 {
		return nil
	}
	return a.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
}

func (a *authRepo) UpdatePassword(password string, userID uint) error {
	return a.DB.Model(&models.User{}).Where("id = ?", userID).Update("hashed_password", password).Error
}

func (a *authRepo) AddToBlackList(blacklist *models.Blacklist) error {
	return a.DB.Create(blacklist).Error
}

func (a *authRepo) IsTokenInBlacklist(token string) bool {
	var count int64
	normalizedToken := strings.TrimSpace(token)
	a.DB.Model(&models.Blacklist{}).Where("token = ?", normalizedToken).Count(&count)
	return count > 0
}

func (a *authRepo) UpdateUserOnlineStatus(userID uint, online bool) error {
	return a.DB.Model(&models.User{}).Where("id = ?", userID).Update("online", online).Error
}

func (a *authRepo) FindRoleByID(roleID uuid.UUID) (*models.Role, error) {
	var role models.Role
	if err := a.DB.First(&role, "id = ?", roleID).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (a *authRepo) FindRoleByName(name string) (*models.Role, error) {
	var role models.Role
	if err := a.DB.Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (a *authRepo) GetAllUsers() ([]models.User, error) {
	var users []models.User
	if err := a.DB.Preload("Role").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (a *authRepo) UpsertUserImage(userID uint, url string) error {
	return a.DB.Model(&models.User{}).Where("id = ?", userID).Update("thumb_nail_url", url).Error
}
