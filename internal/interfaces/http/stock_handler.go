package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stockmaster-api/internal/application/dto"
	"github.com/tu-usuario/stockmaster-api/internal/application/stock"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
)

// StockHandler vistas de existencias derivadas del libro.
type StockHandler struct {
	uc *stock.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// ProductLocations godoc
// @Summary      Dónde está un producto: saldos por ubicación (netos positivos)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductLocationStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/stock/products/{id} [get]
func (h *StockHandler) ProductLocations(c *fiber.Ctx) error {
	out, err := h.uc.ProductLocationStock(c.Context(), GetOrgID(c), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// AllProducts godoc
// @Summary      Saldos por ubicación de todos los productos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductLocationStockResponse
// @Router       /api/v1/stock/products [get]
func (h *StockHandler) AllProducts(c *fiber.Ctx) error {
	out, err := h.uc.AllProductsLocationStock(c.Context(), GetOrgID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// LocationSummary godoc
// @Summary      Qué hay en una ubicación: productos con saldo positivo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.LocationStockSummaryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/stock/locations/{id} [get]
func (h *StockHandler) LocationSummary(c *fiber.Ctx) error {
	out, err := h.uc.LocationStockSummary(c.Context(), GetOrgID(c), c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ubicación no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// AllLocations godoc
// @Summary      Resumen de existencias de todas las ubicaciones
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LocationStockSummaryResponse
// @Router       /api/v1/stock/locations [get]
func (h *StockHandler) AllLocations(c *fiber.Ctx) error {
	out, err := h.uc.AllLocationsSummary(c.Context(), GetOrgID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
