package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stockmaster-api/internal/application/dto"
	"github.com/tu-usuario/stockmaster-api/internal/domain"
	"github.com/tu-usuario/stockmaster-api/internal/domain/entity"
	"github.com/tu-usuario/stockmaster-api/internal/domain/repository"
)

// OrganizationUseCase alta de organizaciones y gestión de membresía.
type OrganizationUseCase struct {
	orgRepo  repository.OrganizationRepository
	userRepo repository.UserRepository
}

// NewOrganizationUseCase construye el caso de uso.
func NewOrganizationUseCase(orgRepo repository.OrganizationRepository, userRepo repository.UserRepository) *OrganizationUseCase {
	return &OrganizationUseCase{orgRepo: orgRepo, userRepo: userRepo}
}

// Create crea una organización y vincula al creador como admin. Un usuario que
// ya pertenece a una organización no puede crear otra.
func (uc *OrganizationUseCase) Create(ctx context.Context, userID string, in dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.OrganizationID != "" {
		return nil, domain.ErrConflict
	}

	org := &entity.Organization{
		ID:        uuid.New().String(),
		Name:      in.Name,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
		CreatedBy: userID,
	}
	if err := uc.orgRepo.Create(ctx, org); err != nil {
		return nil, err
	}
	if err := uc.userRepo.SetOrganization(ctx, userID, org.ID, entity.RoleAdmin); err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, org)
}

// Get devuelve la organización con sus miembros.
func (uc *OrganizationUseCase) Get(ctx context.Context, orgID string) (*dto.OrganizationResponse, error) {
	org, err := uc.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrTenantNotFound
	}
	return uc.toResponse(ctx, org)
}

// AddMember vincula por email a un usuario ya registrado. El usuario no puede
// pertenecer a dos organizaciones a la vez.
func (uc *OrganizationUseCase) AddMember(ctx context.Context, orgID string, in dto.AddMemberRequest) (*dto.OrganizationResponse, error) {
	role := in.Role
	if role == "" {
		role = entity.RoleMember
	}
	if role != entity.RoleAdmin && role != entity.RoleMember {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.OrganizationID == orgID {
		return nil, domain.ErrDuplicate
	}
	if user.OrganizationID != "" {
		return nil, domain.ErrConflict
	}
	if err := uc.userRepo.SetOrganization(ctx, user.ID, orgID, role); err != nil {
		return nil, err
	}
	return uc.Get(ctx, orgID)
}

// RemoveMember desvincula a un miembro. El último admin no puede salir: la
// organización quedaría sin administración.
func (uc *OrganizationUseCase) RemoveMember(ctx context.Context, orgID, userID string) error {
	member, err := uc.memberOf(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if member.Role == entity.RoleAdmin {
		admins, err := uc.countAdmins(ctx, orgID)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return domain.ErrConflict
		}
	}
	return uc.userRepo.RemoveFromOrganization(ctx, userID, orgID)
}

// ChangeMemberRole cambia el rol de un miembro, protegiendo al último admin.
func (uc *OrganizationUseCase) ChangeMemberRole(ctx context.Context, orgID, userID, role string) error {
	if role != entity.RoleAdmin && role != entity.RoleMember {
		return domain.ErrInvalidInput
	}
	member, err := uc.memberOf(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if member.Role == entity.RoleAdmin && role == entity.RoleMember {
		admins, err := uc.countAdmins(ctx, orgID)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return domain.ErrConflict
		}
	}
	return uc.userRepo.UpdateRole(ctx, userID, orgID, role)
}

func (uc *OrganizationUseCase) memberOf(ctx context.Context, orgID, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.OrganizationID != orgID {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (uc *OrganizationUseCase) countAdmins(ctx context.Context, orgID string) (int, error) {
	members, err := uc.userRepo.ListByOrganization(ctx, orgID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, m := range members {
		if m.Role == entity.RoleAdmin {
			n++
		}
	}
	return n, nil
}

func (uc *OrganizationUseCase) toResponse(ctx context.Context, org *entity.Organization) (*dto.OrganizationResponse, error) {
	members, err := uc.userRepo.ListByOrganization(ctx, org.ID)
	if err != nil {
		return nil, err
	}
	resp := &dto.OrganizationResponse{
		ID:        org.ID,
		Name:      org.Name,
		Members:   make([]dto.OrganizationMemberDTO, 0, len(members)),
		CreatedAt: org.CreatedAt,
	}
	for _, m := range members {
		resp.Members = append(resp.Members, dto.OrganizationMemberDTO{
			UserID:   m.ID,
			Email:    m.Email,
			FullName: m.FullName,
			Role:     m.Role,
		})
	}
	return resp, nil
}
