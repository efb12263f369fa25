package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/samsil2/Real-Time-Chat-App/internal/http/middleware"
	"github.com/samsil2/Real-Time-Chat-App/internal/media"
	"github.com/samsil2/Real-Time-Chat-App/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 7 * 24 * time.Hour

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret string
	Uploader  media.Uploader
}

func sanitized(u models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"fullName":   u.FullName,
		"email":      u.Email,
		"profilePic": u.ProfilePic,
	}
}

// setSessionCookie issues a signed token bound to userID and stores it in an
// HTTP-only, same-site cookie.
func (h *AuthHandler) setSessionCookie(c *gin.Context, userID uint) {
	claims := middleware.AuthClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, _ := token.SignedString([]byte(h.JWTSecret))

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.CookieName, tokenStr, int(tokenTTL.Seconds()), "/", "", false, true)
}

type signupReq struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be at least 6 characters"})
		return
	}

	var existing models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("hash password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	u := models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := h.DB.Create(&u).Error; err != nil {
		slog.Error("create user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	h.setSessionCookie(c, u.ID)
	c.JSON(http.StatusCreated, sanitized(u))
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}

	// Same message for unknown email and wrong password, so a caller cannot
	// probe which accounts exist.
	var u models.User
	if err := h.DB.Where("email = ?", req.Email).First(&u).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	h.setSessionCookie(c, u.ID)
	c.JSON(http.StatusOK, sanitized(u))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

type updateProfileReq struct {
	ProfilePic string `json:"profilePic"`
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	u := middleware.MustUser(c)

	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ProfilePic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Profile pic is required"})
		return
	}

	url, err := h.Uploader.Upload(c.Request.Context(), req.ProfilePic)
	if err != nil {
		slog.Error("upload profile pic", "user_id", u.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if err := h.DB.Model(&u).Update("profile_pic", url).Error; err != nil {
		slog.Error("update profile pic", "user_id", u.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	u.ProfilePic = url
	c.JSON(http.StatusOK, sanitized(u))
}

func (h *AuthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, sanitized(middleware.MustUser(c)))
}
