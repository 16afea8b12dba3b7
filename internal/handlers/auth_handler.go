package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/matyasmehes/szakdolgozat/internal/middleware"
	"github.com/matyasmehes/szakdolgozat/internal/models"
	"github.com/matyasmehes/szakdolgozat/internal/repositories"
	"github.com/matyasmehes/szakdolgozat/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for registration, login and profiles.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes. Profile access goes
// through the supplied auth middleware.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Post("/register", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
	router.Get("/users/profile", auth, h.HandleProfile)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	if _, err := h.authService.Register(&req); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Email address is already in use",
			})
		}
		log.Printf("Error registering user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not register user",
		})
	}

	return c.JSON(fiber.Map{
		"message": "User registered successfully",
	})
}

// HandleLogin handles user login and issues a bearer token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		// Unknown email and wrong password answer identically.
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication failed",
			})
		}
		log.Printf("Error during login for %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not log in",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
	})
}

// HandleProfile returns the authenticated user's profile.
func (h *AuthHandler) HandleProfile(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	profile, err := h.authService.Profile(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		log.Printf("Error loading profile for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not load profile",
		})
	}

	return c.JSON(profile)
}

// validationMessages flattens validator errors into a field -> message map.
func validationMessages(err error) map[string]string {
	messages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			messages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return messages
}
