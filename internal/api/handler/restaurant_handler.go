package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pickmeapp/pickme-api/internal/core/ports"
)

// RestaurantHandler handles restaurant browsing and owner management.
type RestaurantHandler struct {
	service ports.RestaurantService
}

func NewRestaurantHandler(service ports.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{service: service}
}

type saveRestaurantRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description string  `json:"description"`
	Address     string  `json:"address"     validate:"required"`
	Lat         float64 `json:"lat"         validate:"required,gte=-90,lte=90"`
	Lng         float64 `json:"lng"         validate:"required,gte=-180,lte=180"`
	Phone       string  `json:"phone"`
	OpenTime    string  `json:"open_time"`
	CloseTime   string  `json:"close_time"`
	Active      bool    `json:"active"`
}

func (r saveRestaurantRequest) toInput() ports.SaveRestaurantInput {
	return ports.SaveRestaurantInput{
		Name:        r.Name,
		Description: r.Description,
		Address:     r.Address,
		Lat:         r.Lat,
		Lng:         r.Lng,
		Phone:       r.Phone,
		OpenTime:    r.OpenTime,
		CloseTime:   r.CloseTime,
		Active:      r.Active,
	}
}

// List handles GET /api/restaurants: public, paginated.
//
// @Summary      List restaurants
// @Tags         restaurants
// @Produce      json
// @Param        search  query     string  false  "Partial name match"
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Success      200     {object}  map[string]any
// @Router       /api/restaurants [get]
func (h *RestaurantHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), ports.ListRestaurantsFilter{
		Search: c.QueryParam("search"),
		Page:   page,
		Limit:  limit,
	})
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

// Nearby handles GET /api/restaurants/nearby: public geo search.
//
// @Summary      Find restaurants near a point
// @Tags         restaurants
// @Produce      json
// @Param        lat     query     number  true   "Latitude"
// @Param        lng     query     number  true   "Longitude"
// @Param        radius  query     number  false  "Radius in km (default 5)"
// @Success      200     {array}   domain.Restaurant
// @Router       /api/restaurants/nearby [get]
func (h *RestaurantHandler) Nearby(c echo.Context) error {
	lat, errLat := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if errLat != nil || errLng != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "lat and lng are required")
	}
	radius, _ := strconv.ParseFloat(c.QueryParam("radius"), 64)
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	items, err := h.service.Nearby(c.Request().Context(), lat, lng, radius, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/restaurants/:id: public detail.
//
// @Summary      Get a restaurant
// @Tags         restaurants
// @Produce      json
// @Param        id   path      string  true  "Restaurant id"
// @Success      200  {object}  domain.Restaurant
// @Failure      404  {object}  map[string]any
// @Router       /api/restaurants/{id} [get]
func (h *RestaurantHandler) Get(c echo.Context) error {
	r, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// Create handles POST /api/restaurants: owner only.
//
// @Summary      Create a restaurant
// @Tags         restaurants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      saveRestaurantRequest  true  "Restaurant details"
// @Success      201   {object}  domain.Restaurant
// @Failure      401   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /api/restaurants [post]
func (h *RestaurantHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req saveRestaurantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	created, err := h.service.Create(c.Request().Context(), userID, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/restaurants/:id: owner of the restaurant or admin.
//
// @Summary      Update a restaurant
// @Tags         restaurants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Restaurant id"
// @Param        body  body      saveRestaurantRequest  true  "Restaurant details"
// @Success      200   {object}  domain.Restaurant
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/restaurants/{id} [put]
func (h *RestaurantHandler) Update(c echo.Context) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req saveRestaurantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	updated, err := h.service.Update(c.Request().Context(), userID, role, c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}
