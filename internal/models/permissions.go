package models

// Permission constants
const (
	// Wallet permissions
	PermissionWalletRead = "wallet:read"

	// Transaction permissions
	PermissionTransactionRead  = "transaction:read"
	PermissionTransactionWrite = "transaction:write"

	// Notification permissions
	PermissionNotificationRead = "notification:read"

	// Admin permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	// User management permissions
	PermissionUserRead  = "user:read"
	PermissionUserWrite = "user:write"
)

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionReadAdmin,
			PermissionWriteAdmin,
			PermissionWalletRead,
			PermissionTransactionRead,
			PermissionTransactionWrite,
			PermissionNotificationRead,
			PermissionUserRead,
			PermissionUserWrite,
		}
	case RoleUser:
		return []string{
			PermissionWalletRead,
			PermissionTransactionRead,
			PermissionTransactionWrite,
			PermissionNotificationRead,
			PermissionUserRead,
			PermissionUserWrite,
		}
	default:
		return []string{}
	}
}
