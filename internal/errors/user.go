package errors

var (
	ErrUserNotFound       = New(KindNotFound, "USER_NOT_FOUND", "User not found")
	ErrEmailTaken         = New(KindConflict, "EMAIL_TAKEN", "Email is already registered")
	ErrInvalidCredentials = New(KindUnauthenticated, "INVALID_CREDENTIALS", "Invalid email or password")
	ErrAccountSuspended   = New(KindAccessDenied, "ACCOUNT_SUSPENDED", "Account is suspended")
	ErrInvalidToken       = New(KindUnauthenticated, "INVALID_TOKEN", "Invalid or expired token")
	ErrWrongPassword      = New(KindValidation, "INVALID_PASSWORD", "Current password is incorrect")

	ErrNotificationNotFound = New(KindNotFound, "NOTIFICATION_NOT_FOUND", "Notification not found")
)
