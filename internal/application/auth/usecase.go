package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tu-usuario/stockmaster-api/internal/application/dto"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
	"github.com/tu-usuario/stockmaster-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// EmailSender puerto de salida para correo transaccional. SMTP vive en
// infraestructura; aquí solo importa el contrato.
type EmailSender interface {
	SendWelcome(to, fullName string) error
}

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase casos de uso de autenticación: registro y login.
type UseCase struct {
	userRepo repository.UserRepository
	mailer   EmailSender // puede ser nil: el correo de bienvenida es opcional
	jwtCfg   JWTConfig
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(userRepo repository.UserRepository, mailer EmailSender, jwtCfg JWTConfig, log zerolog.Logger) *UseCase {
	return &UseCase{userRepo: userRepo, mailer: mailer, jwtCfg: jwtCfg, log: log}
}

// Signup crea un usuario global (todavía sin organización): hashea el password
// con bcrypt y persiste. El correo de bienvenida es best-effort: si el SMTP
// falla, el registro igual queda hecho.
func (uc *UseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") || len(in.Password) < 8 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	fullName := in.FullName
	if fullName == "" {
		fullName = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	if uc.mailer != nil {
		if err := uc.mailer.SendWelcome(user.Email, user.FullName); err != nil {
			uc.log.Warn().Err(err).Str("email", user.Email).Msg("correo de bienvenida no enviado")
		}
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:             u.ID,
		OrganizationID: u.OrganizationID,
		Email:          u.Email,
		FullName:       u.FullName,
		Role:           u.Role,
		Status:         u.Status,
		CreatedAt:      u.CreatedAt,
	}
}
