package validation

const (
	// Password requirements
	MinPasswordLength = 8
	MaxPasswordLength = 72

	// String lengths
	MinNameLength        = 2
	MaxDescriptionLength = 500
	MaxReasonLength      = 255
)
