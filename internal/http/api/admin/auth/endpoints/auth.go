package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/Signalis-Media/beacon/internal/db"
	"github.com/Signalis-Media/beacon/internal/http/api"
	adminpackets "github.com/Signalis-Media/beacon/internal/http/api/admin/packets"
	"github.com/Signalis-Media/beacon/internal/http/middleware"
	"github.com/Signalis-Media/beacon/internal/model"
)

type AuthController struct {
	secret string
	store  db.Store
}

// AuthPublicModule mounts signup and login, which issue tokens and therefore
// sit outside the JWT-protected group.
func AuthPublicModule(secret string, store db.Store) api.Module {
	ctl := &AuthController{secret: secret, store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.Group.POST("/auth/signup", ctl.signup)
		c.Group.POST("/auth/login", ctl.login)
	})
}

// AuthSessionModule mounts the endpoints that require an authenticated user.
func AuthSessionModule(secret string, store db.Store) api.Module {
	ctl := &AuthController{secret: secret, store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/auth/current_profile", ctl.currentProfile)
	})
}

// POST /api/admin/auth/signup
func (a *AuthController) signup(ctx *gin.Context) {
	var request adminpackets.SignupRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	tenantID := request.TenantID
	if tenantID == 0 {
		tenantID = 1
	}

	userID, err := a.store.CreateUser(tenantID, request.Email, string(hashed), request.Name)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "could not create user"})
		return
	}

	token, err := middleware.GenerateJWT(userID, a.secret)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	ctx.JSON(http.StatusCreated, adminpackets.TokenResponse{Token: token})
}

// POST /api/admin/auth/login
func (a *AuthController) login(ctx *gin.Context) {
	var request adminpackets.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := a.store.GetUserByEmail(request.Email)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(request.Password)) != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := middleware.GenerateJWT(user.ID, a.secret)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	ctx.JSON(http.StatusOK, adminpackets.TokenResponse{Token: token})
}

// GET /api/admin/auth/current_profile
func (a *AuthController) currentProfile(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	return gin.H{
		"id":        user.ID,
		"tenant_id": user.TenantID,
		"email":     user.Email,
		"name":      user.Name,
	}, nil
}
