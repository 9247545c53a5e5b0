package auth

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RequireOwner is the second request gate. It inspects whichever of the
// :user, :category_id and :recipe_id path parameters the route carries and
// lets the request through only when every present one resolves to the
// authenticated identity. The first failing check aborts; later ones are
// never evaluated.
func RequireOwner(store OwnershipStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := CurrentIdentity(c)
		if !ok {
			// RequireAuth did not run; fail closed.
			reject(c, ErrMissingAuthHeader)
			return
		}
		if p := c.Param("user"); p != "" {
			if err := checkUser(ident, p); err != nil {
				reject(c, err)
				return
			}
		}
		if p := c.Param("category_id"); p != "" {
			if err := checkCategory(store, ident, p); err != nil {
				reject(c, err)
				return
			}
		}
		if p := c.Param("recipe_id"); p != "" {
			if err := checkRecipe(store, ident, p); err != nil {
				reject(c, err)
				return
			}
		}
		c.Next()
	}
}

// checkUser accepts either a numeric id or a username in the :user segment.
func checkUser(ident *Identity, param string) error {
	if id, err := strconv.ParseUint(param, 10, 64); err == nil {
		if uint(id) != ident.ID {
			return ErrNotOwner
		}
		return nil
	}
	if param != ident.Username {
		return ErrNotOwner
	}
	return nil
}

func checkCategory(store OwnershipStore, ident *Identity, param string) error {
	id, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return ErrCategoryNotFound
	}
	owner, ok, err := store.CategoryOwner(uint(id))
	if err != nil {
		return fmt.Errorf("category lookup: %w", err)
	}
	if !ok {
		return ErrCategoryNotFound
	}
	if owner != ident.ID {
		return ErrNotOwner
	}
	return nil
}

// checkRecipe walks recipe -> category -> owner. A recipe whose parent
// category is gone violates the FK cascade and surfaces as an
// infrastructure fault, not a 404.
func checkRecipe(store OwnershipStore, ident *Identity, param string) error {
	id, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return ErrRecipeNotFound
	}
	categoryID, ok, err := store.RecipeCategory(uint(id))
	if err != nil {
		return fmt.Errorf("recipe lookup: %w", err)
	}
	if !ok {
		return ErrRecipeNotFound
	}
	owner, ok, err := store.CategoryOwner(categoryID)
	if err != nil {
		return fmt.Errorf("category lookup: %w", err)
	}
	if !ok {
		return fmt.Errorf("recipe %d references missing category %d", id, categoryID)
	}
	if owner != ident.ID {
		return ErrNotOwner
	}
	return nil
}
