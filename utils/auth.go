package utils

import (
	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
)

// Permission levels
const (
	AdminPermission    = "admin"
	ApproverPermission = "approver"
	GuestPermission    = "guest"
)

// CheckPermission returns the highest permission level granted by the member's roles.
// Guild administrators are always admins.
func CheckPermission(member *discordgo.Member, adminRoleIDs, approverRoleIDs []string) string {
	if member == nil {
		return GuestPermission
	}
	if member.Permissions&discordgo.PermissionAdministrator != 0 {
		return AdminPermission
	}
	if lo.Some(member.Roles, adminRoleIDs) {
		return AdminPermission
	}
	if lo.Some(member.Roles, approverRoleIDs) {
		return ApproverPermission
	}
	return GuestPermission
}

// CanApprove reports whether a permission level may decide absence requests.
func CanApprove(level string) bool {
	return level == AdminPermission || level == ApproverPermission
}
