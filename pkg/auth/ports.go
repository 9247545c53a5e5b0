package auth

// Identity is the resolved caller bound to a request after authentication.
// PasswordHash is only populated on credential lookups (sign-in); the
// middleware never exposes it downstream.
type Identity struct {
	ID           uint
	Username     string
	Email        string
	PasswordHash []byte
}

// IdentityStore looks up identities. Absent rows are (nil, nil); a non-nil
// error always means the store itself failed.
type IdentityStore interface {
	FindByID(id uint) (*Identity, error)
	FindByEmail(email string) (*Identity, error)
	FindByUsername(username string) (*Identity, error)
}

// OwnershipStore exposes the two lookups the ownership walk needs:
// category -> owner and recipe -> parent category.
type OwnershipStore interface {
	// CategoryOwner returns the owning user id for a category,
	// ok=false when the category does not exist.
	CategoryOwner(categoryID uint) (ownerID uint, ok bool, err error)
	// RecipeCategory returns the parent category id for a recipe,
	// ok=false when the recipe does not exist.
	RecipeCategory(recipeID uint) (categoryID uint, ok bool, err error)
}
