package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/localmarket/commercehub/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.Where("id = ?", id).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// UpdateUser persists an explicit set of columns for the given user. Callers
// build the column map from their allow-list; nothing else is touched.
func (r *UserRepository) UpdateUser(id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

// DeleteUser removes the user row. Returns gorm's affected count so the
// service can distinguish "already gone" from success.
func (r *UserRepository) DeleteUser(id uuid.UUID) (int64, error) {
	res := r.db.Where("id = ?", id).Delete(&models.User{})
	return res.RowsAffected, res.Error
}

// GetOfferUsers returns users who opted into offers. Interest matching
// happens in the service because the interest list is a serialized column.
func (r *UserRepository) GetOfferUsers() ([]*models.User, error) {
	var users []*models.User
	err := r.db.Where("allow_offers = ?", true).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
