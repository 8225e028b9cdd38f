package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/achievepack/internal/config"
	"github.com/example/achievepack/internal/models"
	"github.com/example/achievepack/internal/services"
	"github.com/example/achievepack/internal/utils"
)

// PasswordResetHandler manages forgot-password endpoints.
type PasswordResetHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer *services.EmailService
}

// NewPasswordResetHandler constructs a PasswordResetHandler.
func NewPasswordResetHandler(db *gorm.DB, cfg *config.Config, mailer *services.EmailService) *PasswordResetHandler {
	return &PasswordResetHandler{db: db, cfg: cfg, mailer: mailer}
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ForgotPassword initiates the reset flow: generates a one-time token and
// emails a reset link. The response is identical whether or not the address
// exists.
func (h *PasswordResetHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email is required")
	}

	response := fiber.Map{
		"success": true,
		"message": "If that address has an account, a reset link is on its way.",
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(response)
		}
		return err
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}
	token := hex.EncodeToString(tokenBytes)

	reset := models.PasswordResetToken{
		Email:     req.Email,
		Token:     token,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := h.db.Create(&reset).Error; err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(h.cfg.BaseURL, "/"), token)
	if err := h.mailer.SendPasswordResetEmail(c.Context(), req.Email, resetURL); err != nil {
		log.Printf("[PasswordReset] Failed to send reset email to %s: %v", req.Email, err)
	}

	return c.JSON(response)
}

// ResetPassword consumes a valid token and sets a new password.
func (h *PasswordResetHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Token == "" || len(req.Password) < 8 {
		return fiber.NewError(fiber.StatusBadRequest, "token and a password of at least 8 characters are required")
	}

	var reset models.PasswordResetToken
	if err := h.db.
		Where("token = ? AND used_at IS NULL AND expires_at > ?", req.Token, time.Now()).
		First(&reset).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusBadRequest, "invalid or expired token")
		}
		return err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	if err := h.db.Model(&models.User{}).
		Where("email = ?", reset.Email).
		Update("password_hash", passwordHash).Error; err != nil {
		return err
	}

	now := time.Now()
	if err := h.db.Model(&models.PasswordResetToken{}).
		Where("id = ?", reset.ID).
		Update("used_at", &now).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Password updated"})
}
