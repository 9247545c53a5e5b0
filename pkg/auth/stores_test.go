package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var errTest = errors.New("store down")

// in-memory fakes shared by the package tests

type fakeIdentityStore struct {
	identities []*Identity
	calls      int
	err        error
}

func (s *fakeIdentityStore) FindByID(id uint) (*Identity, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	for _, ident := range s.identities {
		if ident.ID == id {
			return ident, nil
		}
	}
	return nil, nil
}

func (s *fakeIdentityStore) FindByEmail(email string) (*Identity, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	for _, ident := range s.identities {
		if ident.Email == email {
			return ident, nil
		}
	}
	return nil, nil
}

func (s *fakeIdentityStore) FindByUsername(username string) (*Identity, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	for _, ident := range s.identities {
		if ident.Username == username {
			return ident, nil
		}
	}
	return nil, nil
}

func mustIdentity(id uint, username, email, password string) *Identity {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return &Identity{ID: id, Username: username, Email: email, PasswordHash: hash}
}

type fakeOwnershipStore struct {
	categoryOwners    map[uint]uint // category id -> owner id
	recipeCategories  map[uint]uint // recipe id -> category id
	categoryLookupErr error
}

func (s *fakeOwnershipStore) CategoryOwner(categoryID uint) (uint, bool, error) {
	if s.categoryLookupErr != nil {
		return 0, false, s.categoryLookupErr
	}
	owner, ok := s.categoryOwners[categoryID]
	return owner, ok, nil
}

func (s *fakeOwnershipStore) RecipeCategory(recipeID uint) (uint, bool, error) {
	categoryID, ok := s.recipeCategories[recipeID]
	return categoryID, ok, nil
}
