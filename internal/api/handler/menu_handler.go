package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pickmeapp/pickme-api/internal/core/ports"
)

// MenuHandler handles public menu browsing and owner menu management.
type MenuHandler struct {
	service ports.MenuService
}

func NewMenuHandler(service ports.MenuService) *MenuHandler {
	return &MenuHandler{service: service}
}

type saveMenuItemRequest struct {
	Name        string `json:"name"      validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	PriceVND    int64  `json:"price_vnd" validate:"required,gt=0"`
	ImageURL    string `json:"image_url"`
	Available   bool   `json:"available"`
}

func (r saveMenuItemRequest) toInput() ports.SaveMenuItemInput {
	return ports.SaveMenuItemInput{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		PriceVND:    r.PriceVND,
		ImageURL:    r.ImageURL,
		Available:   r.Available,
	}
}

// PublicMenu handles GET /api/restaurants/:id/menu/public: bypass-listed,
// always reachable without a token.
//
// @Summary      Public menu of a restaurant
// @Tags         menu
// @Produce      json
// @Param        id   path      string  true  "Restaurant id"
// @Success      200  {array}   domain.MenuItem
// @Failure      404  {object}  map[string]any
// @Router       /api/restaurants/{id}/menu/public [get]
func (h *MenuHandler) PublicMenu(c echo.Context) error {
	items, err := h.service.PublicMenu(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// FullMenu handles GET /api/restaurants/:id/menu: owner view with
// unavailable items included.
//
// @Summary      Full menu including unavailable items
// @Tags         menu
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Restaurant id"
// @Success      200  {array}   domain.MenuItem
// @Failure      403  {object}  map[string]any
// @Router       /api/restaurants/{id}/menu [get]
func (h *MenuHandler) FullMenu(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	items, err := h.service.FullMenu(c.Request().Context(), userID, role, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// CreateItem handles POST /api/restaurants/:id/menu.
//
// @Summary      Add a menu item
// @Tags         menu
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Restaurant id"
// @Param        body  body      saveMenuItemRequest  true  "Item details"
// @Success      201   {object}  domain.MenuItem
// @Failure      403   {object}  map[string]any
// @Router       /api/restaurants/{id}/menu [post]
func (h *MenuHandler) CreateItem(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req saveMenuItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	item, err := h.service.CreateItem(c.Request().Context(), userID, role, c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateItem handles PUT /api/restaurants/:id/menu/:item_id.
//
// @Summary      Update a menu item
// @Tags         menu
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string               true  "Restaurant id"
// @Param        item_id  path      string               true  "Menu item id"
// @Param        body     body      saveMenuItemRequest  true  "Item details"
// @Success      200      {object}  domain.MenuItem
// @Failure      404      {object}  map[string]any
// @Router       /api/restaurants/{id}/menu/{item_id} [put]
func (h *MenuHandler) UpdateItem(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req saveMenuItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	item, err := h.service.UpdateItem(c.Request().Context(), userID, role, c.Param("id"), c.Param("item_id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteItem handles DELETE /api/restaurants/:id/menu/:item_id.
//
// @Summary      Remove a menu item
// @Tags         menu
// @Security     BearerAuth
// @Param        id       path  string  true  "Restaurant id"
// @Param        item_id  path  string  true  "Menu item id"
// @Success      204
// @Failure      404  {object}  map[string]any
// @Router       /api/restaurants/{id}/menu/{item_id} [delete]
func (h *MenuHandler) DeleteItem(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteItem(c.Request().Context(), userID, role, c.Param("id"), c.Param("item_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
