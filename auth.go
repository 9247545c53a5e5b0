package main

import (
	"errors"
	"regexp"
	"strings"

	"github.com/Sylvance/recipes-api/models"
	"github.com/Sylvance/recipes-api/pkg/auth"

	"golang.org/x/crypto/bcrypt"
)

var (
	errUserExists  = errors.New("user already exists")
	errBadUsername = errors.New("username must be a single alphabetic word")
)

var usernameRE = regexp.MustCompile(`^[A-Za-z]+$`)

// RegisterUser validates input, hashes the password and creates the user.
// The plaintext password never reaches the database.
func RegisterUser(username, email, password, firstName, lastName string) error {
	username = strings.TrimSpace(username)
	if !usernameRE.MatchString(username) {
		return errBadUsername
	}
	if err := auth.ValidateCredentials(email, password); err != nil {
		return err
	}
	// pre-check existing (optimistic)
	var existing models.User
	if err := db.Where("email = ? OR username = ?", email, username).First(&existing).Error; err == nil {
		return errUserExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
	}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) { // race condition after initial check
			return errUserExists
		}
		return err
	}
	return nil
}

// setPassword rehashes and stores a user's password, refreshing UpdatedAt.
func setPassword(user *models.User, password string) error {
	if len(password) <= auth.MinPasswordLen {
		return auth.ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return db.Model(user).Update("password_hash", hash).Error
}
