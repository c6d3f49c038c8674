package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pickmeapp/pickme-api/internal/core/ports"
)

// CartHandler handles the authenticated user's cart.
type CartHandler struct {
	service ports.CartService
}

func NewCartHandler(service ports.CartService) *CartHandler {
	return &CartHandler{service: service}
}

type addCartItemRequest struct {
	RestaurantID string `json:"restaurant_id" validate:"required"`
	MenuItemID   string `json:"menu_item_id"  validate:"required"`
	Quantity     int    `json:"quantity"      validate:"gte=0"`
	Note         string `json:"note"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// Get handles GET /api/cart.
//
// @Summary      Get the current cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Cart
// @Router       /api/cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	cart, err := h.service.Get(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items.
//
// @Summary      Add an item to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addCartItemRequest  true  "Item to add"
// @Success      200   {object}  domain.Cart
// @Failure      404   {object}  map[string]any
// @Failure      422   {object}  map[string]any
// @Router       /api/cart/items [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req addCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	cart, err := h.service.AddItem(c.Request().Context(), userID, ports.AddCartItemInput{
		RestaurantID: req.RestaurantID,
		MenuItemID:   req.MenuItemID,
		Quantity:     req.Quantity,
		Note:         req.Note,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// UpdateItem handles PUT /api/cart/items/:item_id.
//
// @Summary      Change the quantity of a cart line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        item_id  path      string                 true  "Menu item id"
// @Param        body     body      updateCartItemRequest  true  "New quantity (0 removes)"
// @Success      200      {object}  domain.Cart
// @Failure      404      {object}  map[string]any
// @Router       /api/cart/items/{item_id} [put]
func (h *CartHandler) UpdateItem(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	cart, err := h.service.UpdateItem(c.Request().Context(), userID, c.Param("item_id"), req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/cart/items/:item_id.
//
// @Summary      Remove a cart line
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        item_id  path      string  true  "Menu item id"
// @Success      200      {object}  domain.Cart
// @Failure      404      {object}  map[string]any
// @Router       /api/cart/items/{item_id} [delete]
func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	cart, err := h.service.RemoveItem(c.Request().Context(), userID, c.Param("item_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// Clear handles DELETE /api/cart.
//
// @Summary      Empty the cart
// @Tags         cart
// @Security     BearerAuth
// @Success      204
// @Router       /api/cart [delete]
func (h *CartHandler) Clear(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.service.Clear(c.Request().Context(), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
