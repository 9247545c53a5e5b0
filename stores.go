package main

import (
	"errors"
	"time"

	"github.com/Sylvance/recipes-api/models"
	"github.com/Sylvance/recipes-api/pkg/auth"

	"gorm.io/gorm"
)

// gorm-backed implementations of the pkg/auth store interfaces. Absent rows
// map to (nil/false, nil); only real store failures surface as errors.

type gormIdentityStore struct {
	db *gorm.DB
}

func (s gormIdentityStore) FindByID(id uint) (*auth.Identity, error) {
	var u models.User
	if err := s.db.First(&u, id).Error; err != nil {
		return nil, absentOr(err)
	}
	return toIdentity(&u), nil
}

func (s gormIdentityStore) FindByEmail(email string) (*auth.Identity, error) {
	var u models.User
	if err := s.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, absentOr(err)
	}
	return toIdentity(&u), nil
}

func (s gormIdentityStore) FindByUsername(username string) (*auth.Identity, error) {
	var u models.User
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, absentOr(err)
	}
	return toIdentity(&u), nil
}

func toIdentity(u *models.User) *auth.Identity {
	return &auth.Identity{ID: u.ID, Username: u.Username, Email: u.Email, PasswordHash: u.PasswordHash}
}

type gormOwnershipStore struct {
	db *gorm.DB
}

func (s gormOwnershipStore) CategoryOwner(categoryID uint) (uint, bool, error) {
	var cat models.Category
	if err := s.db.Select("id", "user_id").First(&cat, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return cat.UserID, true, nil
}

func (s gormOwnershipStore) RecipeCategory(recipeID uint) (uint, bool, error) {
	var r models.Recipe
	if err := s.db.Select("id", "category_id").First(&r, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return r.CategoryID, true, nil
}

// gormLedger stores bans in the banned_tokens table. The unique index on
// the token column plus a committed read gives the read-after-write
// contract without any locking here.
type gormLedger struct {
	db *gorm.DB
}

func (l gormLedger) Revoke(token string) error {
	row := models.BannedToken{Token: token, BannedOn: time.Now()}
	if err := l.db.Create(&row).Error; err != nil {
		if isUniqueConstraintError(err) { // already banned: idempotent no-op
			return nil
		}
		return err
	}
	return nil
}

func (l gormLedger) IsRevoked(token string) (bool, error) {
	var count int64
	if err := l.db.Model(&models.BannedToken{}).Where("token = ?", token).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func absentOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
