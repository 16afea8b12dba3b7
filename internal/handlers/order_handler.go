package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/matyasmehes/szakdolgozat/internal/middleware"
	"github.com/matyasmehes/szakdolgozat/internal/models"
	"github.com/matyasmehes/szakdolgozat/internal/repositories"
	"github.com/matyasmehes/szakdolgozat/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders and the menu.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order and menu routes. Placing an order and
// listing the caller's own orders require the supplied auth middleware.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/orders", h.HandleListOpenOrders)
	router.Get("/orders/:id", h.HandleGetOrder)
	router.Put("/orders/:id/complete", h.HandleCompleteOrder)
	router.Get("/menuitems", h.HandleListMenu)
	router.Post("/order", auth, h.HandlePlaceOrder)
	router.Get("/users/orders", auth, h.HandleListUserOrders)
}

// HandleListOpenOrders returns all undelivered orders for the order board.
func (h *OrderHandler) HandleListOpenOrders(c *fiber.Ctx) error {
	summaries, err := h.service.ListOpenOrders()
	if err != nil {
		log.Printf("Error listing open orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
		})
	}
	return c.JSON(summaries)
}

// HandleGetOrder returns a single order by its ID.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Order not found",
		})
	}

	order, err := h.service.GetOrder(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found",
			})
		}
		log.Printf("Error getting order %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve order",
		})
	}
	return c.JSON(order)
}

// HandleListMenu returns the full menu.
func (h *OrderHandler) HandleListMenu(c *fiber.Ctx) error {
	items, err := h.service.ListMenu()
	if err != nil {
		log.Printf("Error listing menu items: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve menu",
		})
	}
	return c.JSON(items)
}

// HandlePlaceOrder creates a new order for the authenticated user.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	var req models.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order request body: %v", err)
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

	order, err := h.service.PlaceOrder(middleware.UserID(c), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidOrder) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		log.Printf("Error placing order: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not place order",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Order has been placed successfully",
		"order":   order,
	})
}

// HandleListUserOrders returns every order placed by the authenticated user.
func (h *OrderHandler) HandleListUserOrders(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	orders, err := h.service.ListUserOrders(userID)
	if err != nil {
		log.Printf("Error listing orders for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
		})
	}
	return c.JSON(orders)
}

// HandleCompleteOrder marks an order as delivered.
func (h *OrderHandler) HandleCompleteOrder(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Order not found",
		})
	}

	if err := h.service.CompleteOrder(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found",
			})
		}
		log.Printf("Error completing order %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not complete order",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// parseID reads the numeric id route parameter.
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
