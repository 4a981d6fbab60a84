package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahilchouksey/go-institutions/model"
	"github.com/sahilchouksey/go-institutions/utils/validation"
	"gorm.io/gorm"
)

const duplicateUsername = "user with this username already exists"

// UserService keeps the local user references chairs, leads and award
// recipients point at. Accounts themselves live in the user-management system.
type UserService struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// UserInput carries the writable fields of a user reference.
type UserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (s *UserService) check(tx *gorm.DB, id uint, in *UserInput) error {
	in.Username = validation.SanitizeString(in.Username)
	in.Email = validation.SanitizeString(in.Email)

	if err := checkRecord(s.validator, model.User{Username: in.Username, Email: in.Email}); err != nil {
		return err
	}

	var count int64
	if err := tx.Model(&model.User{}).Where("username = ? AND id <> ?", in.Username, id).Count(&count).Error; err != nil {
		return fmt.Errorf("check username uniqueness: %w", err)
	}
	if count > 0 {
		return newFieldError("username", duplicateUsername)
	}
	return nil
}

// List returns a page of users ordered by username.
func (s *UserService) List(ctx context.Context, offset, limit int) ([]model.User, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	users := []model.User{}
	if err := db.Order("username ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// Get looks up a user by primary key.
func (s *UserService) Get(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch user %d: %w", id, err)
	}
	return &user, nil
}

// Create inserts a user reference.
func (s *UserService) Create(ctx context.Context, in UserInput) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.check(tx, 0, &in); err != nil {
			return err
		}
		user = model.User{Username: in.Username, Email: in.Email}
		if err := tx.Create(&user).Error; err != nil {
			if dup := duplicateField(err, "username", duplicateUsername); dup != nil {
				return dup
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update replaces the username and email of a user reference.
func (s *UserService) Update(ctx context.Context, id uint, in UserInput) (*model.User, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("fetch user %d: %w", id, err)
		}
		if err := s.check(tx, id, &in); err != nil {
			return err
		}
		if err := tx.Model(&user).Updates(map[string]interface{}{"username": in.Username, "email": in.Email}).Error; err != nil {
			if dup := duplicateField(err, "username", duplicateUsername); dup != nil {
				return dup
			}
			return fmt.Errorf("update user %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a user nothing references.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("fetch user %d: %w", id, err)
		}
		if err := deleteProtected(tx, "user", id, userRefs, &user); err != nil {
			return err
		}
		return nil
	})
}
