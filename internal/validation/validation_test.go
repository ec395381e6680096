package validation

import (
	"testing"

	apperrors "vetopay/internal/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		wantErr  bool
		field    string
	}{
		{"two decimals usd", "40.00", "USD", false, ""},
		{"trailing zeros ok", "40.1000", "USD", false, ""},
		{"too precise usd", "40.001", "USD", true, "amount"},
		{"yen has no minor unit", "100.5", "JPY", true, "amount"},
		{"dinar allows three", "1.125", "KWD", false, ""},
		{"zero", "0", "USD", true, "amount"},
		{"negative", "-1", "USD", true, "amount"},
		{"unknown currency", "1", "XYZ", true, "currency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(decimal.RequireFromString(tt.amount), tt.currency)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var de *apperrors.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, apperrors.KindValidation, de.Kind)
			require.Len(t, de.Fields, 1)
			assert.Equal(t, tt.field, de.Fields[0].Field)
		})
	}
}

func TestValidator_Password(t *testing.T) {
	v := New()
	v.Password("password", "Str0ng!pass")
	assert.True(t, v.Valid())

	v = New()
	v.Password("password", "weak")
	require.False(t, v.Valid())
	assert.Len(t, v.Errors, 1, "one message per field")
}

type sampleRequest struct {
	Email       string `json:"receiverEmail" validate:"required,email"`
	Description string `json:"description" validate:"max=5"`
	Currency    string `json:"currency" validate:"omitempty,len=3"`
}

func TestStruct_UsesJSONFieldNames(t *testing.T) {
	err := Struct(sampleRequest{Email: "nope", Description: "too long", Currency: "US"})

	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	fields := map[string]string{}
	for _, f := range de.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "must be a valid email address", fields["receiverEmail"])
	assert.Equal(t, "must not be more than 5 characters long", fields["description"])
	assert.Equal(t, "must be exactly 3 characters long", fields["currency"])

	assert.NoError(t, Struct(sampleRequest{Email: "a@example.com"}))
}
