package db

import (
	goerrors "errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"messagebox/models"
)

// ErrDuplicate reports a uniqueness violation on one of the user fields.
var ErrDuplicate = goerrors.New("duplicate record")

// UserRepository interface
type UserRepository interface {
	CreateUser(user *models.User) error
	UserExists(id uint) (bool, error)
}

// userRepo struct
type userRepo struct {
	DB *gorm.DB
}

// NewUserRepo creates a new instance of UserRepository
func NewUserRepo(db *GormDB) UserRepository {
	return &userRepo{db.DB}
}

func (r *userRepo) CreateUser(user *models.User) error {
	if err := r.DB.Create(user).Error; err != nil {
		if goerrors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return errors.Wrap(err, "create user")
	}
	return nil
}

func (r *userRepo) UserExists(id uint) (bool, error) {
	var count int64
	if err := r.DB.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "look up user")
	}
	return count > 0, nil
}
