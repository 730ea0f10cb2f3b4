package handler

import (
	"github.com/gin-gonic/gin"
	cartapp "github.com/storefront/backend/internal/application/cart"
)

// CartHandler handles account cart API endpoints
type CartHandler struct {
	BaseHandler
	cartService *cartapp.Service
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.Service) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cart := rg.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.DELETE("", h.ClearCart)
		cart.POST("/items", h.AddItem)
		cart.PUT("/items/:itemId", h.UpdateItem)
		cart.DELETE("/items/:itemId", h.RemoveItem)
	}
}

// GetCart returns the authenticated user's cart with a freshly computed summary
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddItem upserts a cart line to the requested quantity
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req cartapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.cartService.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateItem sets a line's quantity. Quantities below one are floored to one;
// unknown items are a no-op.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	itemID := c.Param("itemId")
	if itemID == "" {
		h.BadRequest(c, "Item ID is required")
		return
	}

	var req cartapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.cartService.UpdateItemQuantity(c.Request.Context(), userID, itemID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveItem deletes a cart line. Removing an absent item succeeds.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	itemID := c.Param("itemId")
	if itemID == "" {
		h.BadRequest(c, "Item ID is required")
		return
	}

	if _, err := h.cartService.RemoveItem(c.Request.Context(), userID, itemID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ClearCart removes the user's stored cart entirely
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.cartService.ClearCart(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
