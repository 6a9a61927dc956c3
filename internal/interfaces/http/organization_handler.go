package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stockmaster-api/internal/application/dto"
	"github.com/tu-usuario/stockmaster-api/internal/application/usecase"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
)

// OrganizationHandler alta de organizaciones y membresía.
type OrganizationHandler struct {
	uc *usecase.OrganizationUseCase
}

// NewOrganizationHandler construye el handler.
func NewOrganizationHandler(uc *usecase.OrganizationUseCase) *OrganizationHandler {
	return &OrganizationHandler{uc: uc}
}

// Create godoc
// @Summary      Crear organización (el creador queda como admin)
// @Tags         organizations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrganizationRequest  true  "Nombre"
// @Success      201   {object}  dto.OrganizationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/organizations [post]
func (h *OrganizationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrganizationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
		}
		if err == domain.ErrConflict {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_MEMBER", Message: "el usuario ya pertenece a una organización"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Mine godoc
// @Summary      Organización del usuario autenticado, con miembros
// @Tags         organizations
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OrganizationResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/v1/organizations/me [get]
func (h *OrganizationHandler) Mine(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetOrgID(c))
	if err != nil {
		if err == domain.ErrTenantNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "organización no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// AddMember godoc
// @Summary      Agregar miembro por email (solo admin)
// @Tags         organizations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddMemberRequest  true  "email y rol"
// @Success      200   {object}  dto.OrganizationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/organizations/members [post]
func (h *OrganizationHandler) AddMember(c *fiber.Ctx) error {
	var in dto.AddMemberRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email es requerido"})
	}
	out, err := h.uc.AddMember(c.Context(), GetOrgID(c), in)
	if err != nil {
		switch err {
		case domain.ErrInvalidInput:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rol inválido"})
		case domain.ErrUserNotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "no hay usuario registrado con ese email"})
		case domain.ErrDuplicate:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_MEMBER", Message: "el usuario ya es miembro"})
		case domain.ErrConflict:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "OTHER_ORGANIZATION", Message: "el usuario pertenece a otra organización"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// RemoveMember godoc
// @Summary      Quitar miembro (solo admin; el último admin no puede salir)
// @Tags         organizations
// @Security     Bearer
// @Produce      json
// @Param        userID  path  string  true  "ID del usuario"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/organizations/members/{userID} [delete]
func (h *OrganizationHandler) RemoveMember(c *fiber.Ctx) error {
	userID := c.Params("userID")
	err := h.uc.RemoveMember(c.Context(), GetOrgID(c), userID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "el usuario no es miembro de la organización"})
		}
		if err == domain.ErrConflict {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "LAST_ADMIN", Message: "la organización no puede quedar sin admin"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.MessageResponse{Message: "miembro eliminado"})
}

// ChangeMemberRole godoc
// @Summary      Cambiar rol de un miembro (solo admin)
// @Tags         organizations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        userID  path  string  true  "ID del usuario"
// @Param        body    body  dto.ChangeMemberRoleRequest  true  "Nuevo rol"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/organizations/members/{userID}/role [patch]
func (h *OrganizationHandler) ChangeMemberRole(c *fiber.Ctx) error {
	userID := c.Params("userID")
	var in dto.ChangeMemberRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.ChangeMemberRole(c.Context(), GetOrgID(c), userID, in.Role)
	if err != nil {
		switch err {
		case domain.ErrInvalidInput:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rol inválido"})
		case domain.ErrUserNotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "el usuario no es miembro de la organización"})
		case domain.ErrConflict:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "LAST_ADMIN", Message: "la organización no puede quedar sin admin"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.MessageResponse{Message: "rol actualizado"})
}
