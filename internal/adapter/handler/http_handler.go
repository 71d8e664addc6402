package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rl1809/shirt-inventory/internal/core/domain"
	"github.com/rl1809/shirt-inventory/internal/core/service"
	"github.com/rl1809/shirt-inventory/internal/platform/requestid"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type HTTPHandler struct {
	shirtService *service.ShirtService
	logger       *slog.Logger
}

func NewHTTPHandler(shirtService *service.ShirtService, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{shirtService: shirtService, logger: logger}
}

// RegisterRoutes mounts the shirt API under /api. Static view paths are
// registered alongside /:id; gin prefers the static segment.
func (h *HTTPHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)

	shirts := r.Group("/api/shirts")
	shirts.POST("", h.Create)
	shirts.GET("", h.List)
	shirts.GET("/search", h.Search)
	shirts.GET("/available", h.Available)
	shirts.GET("/out-of-stock", h.OutOfStock)
	shirts.GET("/low-stock", h.LowStock)
	shirts.GET("/:id", h.Get)
	shirts.PUT("/:id", h.Edit)
	shirts.PUT("/:id/stock", h.AdjustStock)
	shirts.DELETE("/:id", h.Delete)
}

func (h *HTTPHandler) Create(c *gin.Context) {
	var req CreateShirtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindingError(err))
		return
	}

	shirt, err := h.shirtService.CreateShirt(c.Request.Context(), req.toDomain())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newShirtResponse(*shirt))
}

func (h *HTTPHandler) List(c *gin.Context) {
	h.respondList(c, h.shirtService.ListShirts)
}

func (h *HTTPHandler) Available(c *gin.Context) {
	h.respondList(c, h.shirtService.AvailableShirts)
}

func (h *HTTPHandler) OutOfStock(c *gin.Context) {
	h.respondList(c, h.shirtService.OutOfStockShirts)
}

func (h *HTTPHandler) LowStock(c *gin.Context) {
	h.respondList(c, h.shirtService.LowStockShirts)
}

func (h *HTTPHandler) Search(c *gin.Context) {
	color, size := c.Query("color"), c.Query("size")
	h.respondList(c, func(ctx context.Context) ([]domain.Shirt, error) {
		return h.shirtService.SearchShirts(ctx, color, size)
	})
}

func (h *HTTPHandler) Get(c *gin.Context) {
	shirt, err := h.shirtService.GetShirt(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newShirtResponse(*shirt))
}

func (h *HTTPHandler) Edit(c *gin.Context) {
	var req EditShirtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindingError(err))
		return
	}

	shirt, err := h.shirtService.EditShirt(c.Request.Context(), c.Param("id"), req.toDomain())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newShirtResponse(*shirt))
}

func (h *HTTPHandler) AdjustStock(c *gin.Context) {
	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, bindingError(err))
		return
	}

	shirt, err := h.shirtService.AdjustStock(c.Request.Context(), domain.StockAdjustment{
		ShirtID:   c.Param("id"),
		Delta:     *req.Amount,
		RequestID: c.GetHeader(IdempotencyKeyHeader),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newShirtResponse(*shirt))
}

func (h *HTTPHandler) Delete(c *gin.Context) {
	if err := h.shirtService.DeleteShirt(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.shirtService.Ping(ctx); err != nil {
		h.logger.WarnContext(ctx, "health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Store: "down"})
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Store: "up"})
}

func (h *HTTPHandler) respondList(c *gin.Context, list func(context.Context) ([]domain.Shirt, error)) {
	shirts, err := list(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newShirtListResponse(shirts))
}

func (h *HTTPHandler) fail(c *gin.Context, err error) {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", requestid.FromContext(c.Request.Context()),
			"error", err,
		)
	}
	c.JSON(status, ErrorResponse{Message: publicMessage(err)})
}
