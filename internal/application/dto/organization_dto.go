package dto

import "time"

// CreateOrganizationRequest body para POST /api/v1/organizations.
type CreateOrganizationRequest struct {
	Name string `json:"name"`
}

// OrganizationMemberDTO miembro de la organización con su rol.
type OrganizationMemberDTO struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// OrganizationResponse organización con sus miembros.
type OrganizationResponse struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Members   []OrganizationMemberDTO `json:"members"`
	CreatedAt time.Time               `json:"created_at"`
}

// AddMemberRequest body para POST /api/v1/organizations/:id/members.
type AddMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"` // member | admin
}

// ChangeMemberRoleRequest body para PATCH .../members/:userID/role.
type ChangeMemberRoleRequest struct {
	Role string `json:"role"`
}
