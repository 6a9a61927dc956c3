package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stockmaster-api/internal/application/dto"
	"github.com/tu-usuario/stockmaster-api/internal/application/movements"
	"github.com/tu-usuario/stockmaster-api/internal/application/stock"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

// MovementHandler ciclo de vida de movimientos, ejecución, reconciliación y
// el historial del libro de stock.
type MovementHandler struct {
	lifecycleUC *movements.UseCase
	executeUC   *movements.ExecuteMovementUseCase
	adjustUC    *movements.AdjustInventoryUseCase
	stockUC     *stock.UseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(lifecycleUC *movements.UseCase, executeUC *movements.ExecuteMovementUseCase, adjustUC *movements.AdjustInventoryUseCase, stockUC *stock.UseCase) *MovementHandler {
	return &MovementHandler{lifecycleUC: lifecycleUC, executeUC: executeUC, adjustUC: adjustUC, stockUC: stockUC}
}

// Create godoc
// @Summary      Crear movimiento (siempre nace en draft)
// @Tags         stock-movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "type, reference, ubicaciones y líneas"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/stock-movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.lifecycleUC.Create(c.Context(), GetOrgID(c), GetUserID(c), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo inválido, adjustment no se crea directo, o faltan referencia/líneas/ubicaciones"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o ubicación no encontrados"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(mov))
}

// List godoc
// @Summary      Listar movimientos
// @Tags         stock-movements
// @Security     Bearer
// @Produce      json
// @Param        type    query  string  false  "receipt | delivery | internal | adjustment"
// @Param        status  query  string  false  "draft | waiting | ready | done | canceled"
// @Param        limit   query  int     false  "Límite"  default(100)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/stock-movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	f := repository.MovementFilter{
		Type:   c.Query("type"),
		Status: c.Query("status"),
		Limit:  c.QueryInt("limit", 100),
		Offset: c.QueryInt("offset", 0),
	}
	movs, err := h.lifecycleUC.List(c.Context(), GetOrgID(c), f)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "type inválido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]*dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.NewMovementResponse(m))
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Reconciliar conteo físico de un producto en una ubicación
// @Description  Compara la cantidad contada con el saldo del libro en esa
// @Description  ubicación y postea la corrección con signo por el mismo camino
// @Description  que los demás movimientos. Conteo sin diferencia también queda
// @Description  registrado.
// @Tags         stock-movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustInventoryRequest  true  "product_id, location_id, counted_quantity"
// @Success      200   {object}  dto.AdjustInventoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/stock-movements/adjust [post]
func (h *MovementHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.adjustUC.Adjust(c.Context(), GetOrgID(c), GetUserID(c), movements.AdjustInput{
		ProductID:       in.ProductID,
		LocationID:      in.LocationID,
		CountedQuantity: in.CountedQuantity,
		Notes:           in.Notes,
	})
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y location_id requeridos; counted_quantity no puede ser negativa"})
		}
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o ubicación no encontrados"})
		}
		if err == domain.ErrDuplicate {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_REFERENCE", Message: "la referencia del ajuste ya existe, reintentar"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.AdjustInventoryResponse{
		Message:               "ajuste registrado",
		Reference:             res.Reference,
		LocationPreviousStock: res.LocationPreviousStock,
		LocationNewStock:      res.LocationNewStock,
		Difference:            res.Difference,
		TotalStock:            res.TotalStock,
	})
}

// LedgerHistory godoc
// @Summary      Historial del libro de stock, más reciente primero
// @Tags         stock-movements
// @Security     Bearer
// @Produce      json
// @Param        product_id     query  string  false  "Filtrar por producto"
// @Param        movement_type  query  string  false  "Filtrar por tipo"
// @Param        limit          query  int     false  "Límite"  default(100)
// @Param        offset         query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.LedgerEntryResponse
// @Router       /api/v1/stock-movements/ledger/history [get]
func (h *MovementHandler) LedgerHistory(c *fiber.Ctx) error {
	f := repository.LedgerFilter{
		ProductID:    c.Query("product_id"),
		MovementType: c.Query("movement_type"),
		Limit:        c.QueryInt("limit", 100),
		Offset:       c.QueryInt("offset", 0),
	}
	out, err := h.stockUC.LedgerHistory(c.Context(), GetOrgID(c), f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener movimiento por ID
// @Tags         stock-movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/stock-movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	mov, err := h.lifecycleUC.GetByID(c.Context(), GetOrgID(c), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if mov == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "movimiento no encontrado"})
	}
	return c.JSON(dto.NewMovementResponse(mov))
}

// Update godoc
// @Summary      Actualizar movimiento no terminal (done jamás entra por aquí)
// @Tags         stock-movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del movimiento"
// @Param        body  body  dto.UpdateMovementRequest  true  "Cambios parciales"
// @Success      200   {object}  dto.MovementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/stock-movements/{id} [put]
func (h *MovementHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.lifecycleUC.Update(c.Context(), GetOrgID(c), c.Params("id"), in)
	if err != nil {
		switch err {
		case domain.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "movimiento no encontrado"})
		case domain.ErrConflict:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "TERMINAL", Message: "un movimiento done o canceled está congelado"})
		case domain.ErrInvalidInput:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "transición de estado inválida"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NewMovementResponse(mov))
}

// Execute godoc
// @Summary      Ejecutar movimiento (transición atómica a done)
// @Description  Escribe las entradas del libro de cada línea, actualiza el
// @Description  stock cacheado y fija executed_at, todo dentro de una misma
// @Description  transacción. Reintentar un movimiento ya ejecutado devuelve
// @Description  409 sin duplicar el posteo.
// @Tags         stock-movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/stock-movements/{id}/execute [post]
func (h *MovementHandler) Execute(c *fiber.Ctx) error {
	mov, err := h.executeUC.Execute(c.Context(), GetOrgID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		switch err {
		case domain.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "movimiento, producto o ubicación no encontrados"})
		case domain.ErrAlreadyExecuted:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_EXECUTED", Message: "el movimiento ya fue ejecutado"})
		case domain.ErrConflict:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CANCELED", Message: "un movimiento cancelado no se puede ejecutar"})
		case domain.ErrInvalidInput:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el movimiento no es ejecutable (tipo, líneas o ubicaciones inválidas)"})
		case domain.ErrConcurrency:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENCY", Message: "conflicto de concurrencia, reintentar la ejecución"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NewMovementResponse(mov))
}
