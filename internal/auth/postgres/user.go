package postgres

import (
	"gorm.io/gorm"

	"github.com/frahmantamala/payroll-management/internal/auth"
)

// UserRepository implements the auth.Repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) auth.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByEmail(email string) (*auth.User, error) {
	var user auth.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByID(id int64) (*auth.User, error) {
	var user auth.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
