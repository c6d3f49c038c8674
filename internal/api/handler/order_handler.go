package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
	"github.com/pickmeapp/pickme-api/internal/core/ports"
)

// OrderHandler handles order placement and lifecycle.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

type createOrderRequest struct {
	PickupAt time.Time `json:"pickup_at"`
	Note     string    `json:"note"`
}

type advanceOrderRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed preparing ready completed"`
}

// Create handles POST /api/orders: places an order from the open cart.
//
// @Summary      Create an order from the cart
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Pickup time and note"
// @Success      201   {object}  domain.Order
// @Failure      422   {object}  map[string]any
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	order, err := h.service.CreateFromCart(c.Request().Context(), ports.CreateOrderInput{
		UserID:   userID,
		PickupAt: req.PickupAt,
		Note:     req.Note,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, order)
}

// Get handles GET /api/orders/:id.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  domain.Order
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	order, err := h.service.Get(c.Request().Context(), userID, role, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// List handles GET /api/orders: scoped by the caller's role.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        restaurant_id  query     string  false  "Restaurant scope (owners/admin)"
// @Param        status         query     string  false  "Filter by status"
// @Param        page           query     int     false  "Page (1-based)"
// @Param        limit          query     int     false  "Page size (max 100)"
// @Success      200  {object}  map[string]any
// @Router       /api/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	in := ports.ListOrdersInput{
		ActorID:      userID,
		ActorRole:    role,
		RestaurantID: c.QueryParam("restaurant_id"),
		Status:       c.QueryParam("status"),
		Page:         page,
		Limit:        limit,
	}
	if v := c.QueryParam("date_from"); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			in.DateFrom = ts
		}
	}
	if v := c.QueryParam("date_to"); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			in.DateTo = ts
		}
	}

	result, err := h.service.List(c.Request().Context(), in)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": result.Items,
		"pagination": echo.Map{
			"total":       result.Total,
			"page":        result.Page,
			"limit":       result.Limit,
			"total_pages": result.TotalPages,
		},
	})
}

// Advance handles PATCH /api/orders/:id/advance: owner/admin move the order
// along the state machine.
//
// @Summary      Advance an order's status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Order id"
// @Param        body  body      advanceOrderRequest  true  "Target status"
// @Success      200   {object}  domain.Order
// @Failure      422   {object}  map[string]any
// @Router       /api/orders/{id}/advance [patch]
func (h *OrderHandler) Advance(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req advanceOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	order, err := h.service.Advance(c.Request().Context(), userID, role, c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Cancel handles POST /api/orders/:id/cancel.
//
// @Summary      Cancel an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  domain.Order
// @Failure      422  {object}  map[string]any
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	order, err := h.service.Cancel(c.Request().Context(), userID, role, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Status handles GET /api/orders/:id/status: bypass-listed public lookup
// for receipt links. The path segment is the order reference, not the id;
// it shares the :id name so the routes agree on the param.
//
// @Summary      Public order status by reference
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "Order reference (PM-XXXXXXXX)"
// @Success      200  {object}  ports.OrderStatusView
// @Failure      404  {object}  map[string]any
// @Router       /api/orders/{id}/status [get]
func (h *OrderHandler) Status(c echo.Context) error {
	view, err := h.service.StatusByReference(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}
