package auth

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"brainiax-backend/internal/config"
	"brainiax-backend/internal/database"
	"brainiax-backend/internal/model"
	"brainiax-backend/internal/utilities"
)

// invalidCredentials is returned for both an unknown username and a wrong
// password so a caller cannot probe which half was wrong.
const invalidCredentials = "Invalid credentials"

// Controller handles login and registration endpoints.
type Controller struct {
	DB  *database.Service
	Cfg *config.Config
}

// NewController creates a new instance of the auth Controller.
func NewController(db *database.Service, cfg *config.Config) *Controller {
	return &Controller{DB: db, Cfg: cfg}
}

// LoginHandler exchanges a username/password pair for a signed access token.
// @Summary Admin login
// @Tags Admin
// @Accept json
// @Produce json
// @Param credentials body object true "username and password"
// @Success 200 {object} map[string]string "token"
// @Failure 400 {object} utilities.MessageResponse "Missing username or password"
// @Failure 401 {object} utilities.MessageResponse "Invalid credentials"
// @Failure 500 {object} utilities.MessageResponse "JWT not configured, or database error"
// @Router /admin/login [post]
func (ac *Controller) LoginHandler(c *gin.Context) {
	var info struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.MessageResponse{
			Message: "username and password required",
		})
		return
	}

	var user model.AdminUser
	err := ac.DB.Where("username = ?", info.Username).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusUnauthorized, utilities.MessageResponse{Message: invalidCredentials})
		return

	case err == nil:
		// Do nothing

	default:
		log.Printf("Login lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}

	if !utilities.VerifyPassword(info.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, utilities.MessageResponse{Message: invalidCredentials})
		return
	}

	if ac.Cfg.SecretKey == "" {
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "JWT not configured"})
		return
	}

	token, err := GenerateToken(ac.Cfg.SecretKey, user.ID, user.Username)
	if err != nil {
		log.Printf("Failed to generate access token: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// RegisterHandler creates an admin account. It is gated by the static shared
// secret only, as the bootstrap path for fresh deployments.
// @Summary Register admin account
// @Description Requires the static admin token, not a bearer token
// @Tags Admin
// @Accept json
// @Produce json
// @Param X-Admin-Token header string true "Static admin token"
// @Param credentials body object true "username and password"
// @Success 200 {object} map[string]string "id and username"
// @Failure 400 {object} utilities.MessageResponse "Missing username or password"
// @Failure 401 {object} utilities.MessageResponse "Missing or wrong admin token"
// @Failure 409 {object} utilities.MessageResponse "Username already taken"
// @Failure 500 {object} utilities.MessageResponse "Database error"
// @Router /admin/register [post]
func (ac *Controller) RegisterHandler(c *gin.Context) {
	legacy := c.GetHeader("X-Admin-Token")
	if legacy == "" {
		legacy = c.Query("adminToken")
	}
	if ac.Cfg.AdminToken == "" || legacy != ac.Cfg.AdminToken {
		c.JSON(http.StatusUnauthorized, utilities.MessageResponse{Message: "Unauthorized"})
		return
	}

	var info struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.MessageResponse{
			Message: "username and password required",
		})
		return
	}

	var count int64
	if err := ac.DB.Model(&model.AdminUser{}).Where("username = ?", info.Username).Count(&count).Error; err != nil {
		log.Printf("Register lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, utilities.MessageResponse{Message: "User exists"})
		return
	}

	hash, err := utilities.HashPassword(info.Password)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}

	user := model.AdminUser{Username: info.Username, PasswordHash: hash, CreatedAt: time.Now()}
	if err := ac.DB.Create(&user).Error; err != nil {
		log.Printf("Failed to create admin user: %v", err)
		c.JSON(http.StatusInternalServerError, utilities.MessageResponse{Message: "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": user.ID, "username": user.Username})
}
