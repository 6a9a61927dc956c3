package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stockmaster-api/internal/application/dto"
	"github.com/tu-usuario/stockmaster-api/internal/application/identity"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/pkg/jwt"
)

// Locals keys en Fiber.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
	LocalRole   = "role"
	LocalOrgID  = "organization_id"
)

// AuthMiddleware valida el Bearer Token JWT y extrae user_id, email y role a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, email, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalEmail, email)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// TenantMiddleware resuelve la organización del usuario autenticado por
// petición (el token no la lleva) y la deja en c.Locals. Un usuario sin
// organización recibe 403: puede autenticarse pero no operar inventario.
func TenantMiddleware(resolver *identity.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id requerido"})
		}
		orgID, err := resolver.OrganizationID(c.Context(), userID)
		if err != nil {
			if err == domain.ErrTenantNotFound {
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "NO_ORGANIZATION", Message: "el usuario no pertenece a ninguna organización"})
			}
			if err == domain.ErrUserNotFound {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario no encontrado"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
		c.Locals(LocalOrgID, orgID)
		return c.Next()
	}
}

// RequireAdmin exige rol admin (después de AuthMiddleware).
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetRole(c) != entity.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "se requiere rol admin"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el user_id del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetEmail devuelve el email del contexto.
func GetEmail(c *fiber.Ctx) string {
	return localString(c, LocalEmail)
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}

// GetOrgID devuelve la organización resuelta (después de TenantMiddleware).
func GetOrgID(c *fiber.Ctx) string {
	return localString(c, LocalOrgID)
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
