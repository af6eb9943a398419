package entitlements

import (
	"fmt"
	"strings"
)

type Role string

const (
	RolePlatformAdmin     Role = "platform_admin"
	RolePlatformModerator Role = "platform_moderator"
	RolePartnerAdmin      Role = "partner_admin"
	RoleOrgOwner          Role = "org_owner"
	RoleOrgAdmin          Role = "org_admin"
	RoleOrgEditor         Role = "org_editor"
	RoleOrgViewer         Role = "org_viewer"
	RoleUser              Role = "user"
)

type Permission string

const (
	PermissionManagePlatform        Permission = "manage_platform"
	PermissionVerifyPartners        Permission = "verify_partners"
	PermissionManageAnyOrganization Permission = "manage_any_organization"
	PermissionManageOwnOrganization Permission = "manage_own_organization"
	PermissionEditOrganizationData  Permission = "edit_organization_data"
	PermissionViewOrganizationData  Permission = "view_organization_data"
)

// RolePermissions holds the platform-wide grants of a role. They do not
// depend on the plan tier.
type RolePermissions struct {
	ManagePlatform        bool `json:"manage_platform"`
	VerifyPartners        bool `json:"verify_partners"`
	ManageAnyOrganization bool `json:"manage_any_organization"`
	ManageOwnOrganization bool `json:"manage_own_organization"`
	EditOrganizationData  bool `json:"edit_organization_data"`
	ViewOrganizationData  bool `json:"view_organization_data"`
}

// Allows reports whether the permission is granted. Unknown permissions are not.
func (p RolePermissions) Allows(perm Permission) bool {
	switch perm {
	case PermissionManagePlatform:
		return p.ManagePlatform
	case PermissionVerifyPartners:
		return p.VerifyPartners
	case PermissionManageAnyOrganization:
		return p.ManageAnyOrganization
	case PermissionManageOwnOrganization:
		return p.ManageOwnOrganization
	case PermissionEditOrganizationData:
		return p.EditOrganizationData
	case PermissionViewOrganizationData:
		return p.ViewOrganizationData
	default:
		return false
	}
}

var roleOrder = []Role{
	RolePlatformAdmin,
	RolePlatformModerator,
	RolePartnerAdmin,
	RoleOrgOwner,
	RoleOrgAdmin,
	RoleOrgEditor,
	RoleOrgViewer,
	RoleUser,
}

var roleCatalog = map[Role]RolePermissions{
	RolePlatformAdmin: {
		ManagePlatform:        true,
		VerifyPartners:        true,
		ManageAnyOrganization: true,
		ManageOwnOrganization: true,
		EditOrganizationData:  true,
		ViewOrganizationData:  true,
	},
	RolePlatformModerator: {
		VerifyPartners:       true,
		ViewOrganizationData: true,
	},
	RolePartnerAdmin: {
		ManageOwnOrganization: true,
		EditOrganizationData:  true,
		ViewOrganizationData:  true,
	},
	RoleOrgOwner: {
		ManageOwnOrganization: true,
		EditOrganizationData:  true,
		ViewOrganizationData:  true,
	},
	RoleOrgAdmin: {
		ManageOwnOrganization: true,
		EditOrganizationData:  true,
		ViewOrganizationData:  true,
	},
	RoleOrgEditor: {
		EditOrganizationData: true,
		ViewOrganizationData: true,
	},
	RoleOrgViewer: {
		ViewOrganizationData: true,
	},
	RoleUser: {},
}

// Roles returns every role, most privileged first.
func Roles() []Role {
	out := make([]Role, len(roleOrder))
	copy(out, roleOrder)
	return out
}

func (r Role) Valid() bool {
	_, ok := roleCatalog[r]
	return ok
}

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// NormalizeRole maps empty or unknown roles to a plain user.
func NormalizeRole(s string) Role {
	r, err := ParseRole(s)
	if err != nil {
		return RoleUser
	}
	return r
}

func RolePermissionsFor(r Role) (RolePermissions, error) {
	p, ok := roleCatalog[r]
	if !ok {
		return RolePermissions{}, fmt.Errorf("%w: %q", ErrUnknownRole, string(r))
	}
	return p, nil
}

// MustRolePermissions panics when the role has no catalog entry.
func MustRolePermissions(r Role) RolePermissions {
	p, err := RolePermissionsFor(r)
	if err != nil {
		panic(err)
	}
	return p
}
