package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Sylvance/recipes-api/models"
	"github.com/Sylvance/recipes-api/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// wired in main; handlers share them the same way they share db
var (
	authn        *auth.Authenticator
	users        auth.IdentityStore
	ownership    auth.OwnershipStore
	mailer       Mailer
	maxPageLimit = 20
)

func setupRoutes(r *gin.Engine) {
	r.Use(requestIDMiddleware())

	r.POST("/users", registerHandler)
	r.GET("/users", listUsersHandler)
	r.POST("/users/signin", signinHandler)
	r.GET("/users/signout", signoutHandler)
	r.POST("/users/recovery", recoveryHandler)
	r.GET("/users/reset/:token", resetTokenHandler)
	r.PUT("/users/reset/:token", resetPasswordHandler)

	// Two sequential gates: authentication first, ownership second. They are
	// never merged so the ownership walk can be tested against a fixed
	// identity on its own.
	owned := r.Group("")
	owned.Use(auth.RequireAuth(authn, users), auth.RequireOwner(ownership))
	owned.GET("/users/:user", getUserHandler)
	owned.PUT("/users/:user", updateUserHandler)
	owned.DELETE("/users/:user", deleteUserHandler)
	owned.GET("/users/:user/categories", listCategoriesHandler)
	owned.POST("/users/:user/categories", createCategoryHandler)
	owned.GET("/users/:user/categories/:category_id", getCategoryHandler)
	owned.PUT("/users/:user/categories/:category_id", updateCategoryHandler)
	owned.DELETE("/users/:user/categories/:category_id", deleteCategoryHandler)
	owned.GET("/categories/:category_id/recipes", listRecipesHandler)
	owned.POST("/categories/:category_id/recipes", createRecipeHandler)
	owned.GET("/categories/:category_id/recipes/:recipe_id", getRecipeHandler)
	owned.PUT("/categories/:category_id/recipes/:recipe_id", updateRecipeHandler)
	owned.DELETE("/categories/:category_id/recipes/:recipe_id", deleteRecipeHandler)
}

// requestIDMiddleware tags every request (and response) with an id so log
// lines from one request can be correlated.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func authFail(c *gin.Context, err error) {
	c.JSON(auth.StatusOf(err), gin.H{"error": err.Error()})
}

// pageParams reads page/limit query args, clamping limit to the configured cap.
func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(maxPageLimit)))
	if limit < 1 || limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func pageMeta(c *gin.Context, page, limit int, total int64) gin.H {
	pages := int((total + int64(limit) - 1) / int64(limit))
	links := gin.H{"first": pageURL(c, 1, limit)}
	if pages > 0 {
		links["last"] = pageURL(c, pages, limit)
	}
	if page < pages {
		links["next"] = pageURL(c, page+1, limit)
	}
	if page > 1 {
		links["prev"] = pageURL(c, page-1, limit)
	}
	return gin.H{"page": page, "limit": limit, "total": total, "pages": pages, "links": links}
}

func pageURL(c *gin.Context, page, limit int) string {
	return fmt.Sprintf("%s?page=%d&limit=%d", c.Request.URL.Path, page, limit)
}

// User handlers

func userJSON(u *models.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"username":    u.Username,
		"email":       u.Email,
		"first_name":  u.FirstName,
		"last_name":   u.LastName,
		"created_at":  u.CreatedAt,
		"modified_at": u.UpdatedAt,
	}
}

func registerHandler(c *gin.Context) {
	var req struct {
		Username  string `json:"username" binding:"required"`
		Email     string `json:"email" binding:"required"`
		Password  string `json:"password" binding:"required"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := RegisterUser(req.Username, req.Email, req.Password, req.FirstName, req.LastName); err != nil {
		switch {
		case errors.Is(err, errUserExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, errBadUsername):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(auth.StatusOf(err), gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "user registered successfully"})
}

// listUsersHandler is the one public collection; it exposes only public fields.
func listUsersHandler(c *gin.Context) {
	page, limit := pageParams(c)
	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	var list []models.User
	if err := db.Order("id").Offset((page - 1) * limit).Limit(limit).Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	items := make([]gin.H, 0, len(list))
	for i := range list {
		items = append(items, gin.H{
			"username":   list[i].Username,
			"first_name": list[i].FirstName,
			"last_name":  list[i].LastName,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "meta": pageMeta(c, page, limit, total)})
}

func signinHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, err := authn.SignIn(req.Email, req.Password, time.Now())
	if err != nil {
		authFail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user signed in successfully", "token": token})
}

func signoutHandler(c *gin.Context) {
	token, err := auth.BearerToken(c.GetHeader("Authorization"))
	if err != nil {
		authFail(c, err)
		return
	}
	if err := authn.SignOut(token, time.Now()); err != nil {
		authFail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "successfully logged out"})
}

// userFromParam resolves the :user segment (numeric id or username).
// The ownership gate has already proven it names the caller.
func userFromParam(c *gin.Context) (*models.User, bool) {
	param := c.Param("user")
	var u models.User
	var err error
	if id, perr := strconv.ParseUint(param, 10, 64); perr == nil {
		err = db.First(&u, uint(id)).Error
	} else {
		err = db.Where("username = ?", param).First(&u).Error
	}
	if err != nil {
		return nil, false
	}
	return &u, true
}

func getUserHandler(c *gin.Context) {
	u, ok := userFromParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user does not exist"})
		return
	}
	c.JSON(http.StatusOK, userJSON(u))
}

func updateUserHandler(c *gin.Context) {
	u, ok := userFromParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user does not exist"})
		return
	}
	var req struct {
		Username  *string `json:"username"`
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Password  *string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Username != nil {
		if !usernameRE.MatchString(*req.Username) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errBadUsername.Error()})
			return
		}
		u.Username = *req.Username
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if err := db.Save(u).Error; err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": errUserExists.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if req.Password != nil {
		if err := setPassword(u, *req.Password); err != nil {
			authFail(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, userJSON(u))
}

func deleteUserHandler(c *gin.Context) {
	u, ok := userFromParam(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user does not exist"})
		return
	}
	// FK constraints cascade to categories and recipes
	if err := db.Delete(u).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user has been deleted"})
}

func recoveryHandler(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ident, err := users.FindByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if ident == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("user with email %s does not exist", req.Email)})
		return
	}
	token, err := authn.RecoveryToken(ident.Email, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	resetURL := fmt.Sprintf("http://%s/users/reset/%s", c.Request.Host, token)
	if err := mailer.SendRecovery(ident.Email, resetURL); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recovery email has been sent"})
}

func resetTokenHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": c.Param("token")})
}

func resetPasswordHandler(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token := c.Param("token")
	email, err := authn.VerifyRecovery(token, time.Now())
	if err != nil {
		authFail(c, err)
		return
	}
	var u models.User
	if err := db.Where("email = ?", email).First(&u).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user does not exist anymore"})
		return
	}
	if err := setPassword(&u, req.Password); err != nil {
		authFail(c, err)
		return
	}
	// recovery tokens are single-use
	if err := authn.RevokeToken(token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to expire recovery token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password has been reset successfully"})
}

// Category handlers

func categoryJSON(cat *models.Category) gin.H {
	return gin.H{
		"id":          cat.ID,
		"user_id":     cat.UserID,
		"title":       cat.Title,
		"description": cat.Description,
		"created_at":  cat.CreatedAt,
		"modified_at": cat.UpdatedAt,
	}
}

func listCategoriesHandler(c *gin.Context) {
	ident, _ := auth.CurrentIdentity(c)
	page, limit := pageParams(c)
	q := db.Model(&models.Category{}).Where("user_id = ?", ident.ID)
	if title := c.Query("title"); title != "" {
		q = q.Where("title = ?", title)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	var list []models.Category
	if err := q.Order("id").Offset((page - 1) * limit).Limit(limit).Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	items := make([]gin.H, 0, len(list))
	for i := range list {
		items = append(items, categoryJSON(&list[i]))
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "meta": pageMeta(c, page, limit, total)})
}

func createCategoryHandler(c *gin.Context) {
	ident, _ := auth.CurrentIdentity(c)
	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cat := models.Category{UserID: ident.ID, Title: req.Title, Description: req.Description}
	if err := db.Create(&cat).Error; err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "category title already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, categoryJSON(&cat))
}

// categoryFromParam fetches the :category_id row; the ownership gate has
// already established it exists and belongs to the caller.
func categoryFromParam(c *gin.Context) (*models.Category, bool) {
	id, err := strconv.ParseUint(c.Param("category_id"), 10, 64)
	if err != nil {
		return nil, false
	}
	var cat models.Category
	if err := db.First(&cat, uint(id)).Error; err != nil {
		return nil, false
	}
	return &cat, true
}

func getCategoryHandler(c *gin.Context) {
	cat, ok := categoryFromParam(c)
	if !ok {
		authFail(c, auth.ErrCategoryNotFound)
		return
	}
	c.JSON(http.StatusOK, categoryJSON(cat))
}

func updateCategoryHandler(c *gin.Context) {
	cat, ok := categoryFromParam(c)
	if !ok {
		authFail(c, auth.ErrCategoryNotFound)
		return
	}
	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title != nil {
		cat.Title = *req.Title
	}
	if req.Description != nil {
		cat.Description = *req.Description
	}
	if err := db.Save(cat).Error; err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "category title already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, categoryJSON(cat))
}

func deleteCategoryHandler(c *gin.Context) {
	cat, ok := categoryFromParam(c)
	if !ok {
		authFail(c, auth.ErrCategoryNotFound)
		return
	}
	// FK constraint cascades to the category's recipes
	if err := db.Delete(cat).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Recipe handlers

func recipeJSON(r *models.Recipe) gin.H {
	return gin.H{
		"id":          r.ID,
		"category_id": r.CategoryID,
		"title":       r.Title,
		"description": r.Description,
		"created_at":  r.CreatedAt,
		"modified_at": r.UpdatedAt,
	}
}

func listRecipesHandler(c *gin.Context) {
	cat, ok := categoryFromParam(c)
	if !ok {
		authFail(c, auth.ErrCategoryNotFound)
		return
	}
	page, limit := pageParams(c)
	q := db.Model(&models.Recipe{}).Where("category_id = ?", cat.ID)
	if title := c.Query("title"); title != "" {
		q = q.Where("title = ?", title)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	var list []models.Recipe
	if err := q.Order("id").Offset((page - 1) * limit).Limit(limit).Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	items := make([]gin.H, 0, len(list))
	for i := range list {
		items = append(items, recipeJSON(&list[i]))
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "meta": pageMeta(c, page, limit, total)})
}

func createRecipeHandler(c *gin.Context) {
	cat, ok := categoryFromParam(c)
	if !ok {
		authFail(c, auth.ErrCategoryNotFound)
		return
	}
	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec := models.Recipe{CategoryID: cat.ID, Title: req.Title, Description: req.Description}
	if err := db.Create(&rec).Error; err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "recipe title already exists in this category"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, recipeJSON(&rec))
}

func recipeFromParam(c *gin.Context) (*models.Recipe, bool) {
	id, err := strconv.ParseUint(c.Param("recipe_id"), 10, 64)
	if err != nil {
		return nil, false
	}
	var rec models.Recipe
	if err := db.First(&rec, uint(id)).Error; err != nil {
		return nil, false
	}
	return &rec, true
}

func getRecipeHandler(c *gin.Context) {
	rec, ok := recipeFromParam(c)
	if !ok {
		authFail(c, auth.ErrRecipeNotFound)
		return
	}
	c.JSON(http.StatusOK, recipeJSON(rec))
}

func updateRecipeHandler(c *gin.Context) {
	rec, ok := recipeFromParam(c)
	if !ok {
		authFail(c, auth.ErrRecipeNotFound)
		return
	}
	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title != nil {
		rec.Title = *req.Title
	}
	if req.Description != nil {
		rec.Description = *req.Description
	}
	if err := db.Save(rec).Error; err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "recipe title already exists in this category"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, recipeJSON(rec))
}

func deleteRecipeHandler(c *gin.Context) {
	rec, ok := recipeFromParam(c)
	if !ok {
		authFail(c, auth.ErrRecipeNotFound)
		return
	}
	if err := db.Delete(rec).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}
