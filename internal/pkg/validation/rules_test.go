package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventDateAndTime(t *testing.T) {
	assert.True(t, IsEventDate("2025-09-10"))
	assert.False(t, IsEventDate("2025-13-01"))
	assert.False(t, IsEventDate("09/10/2025"))
	assert.False(t, IsEventDate(""))

	assert.True(t, IsEventTime("09:30"))
	assert.True(t, IsEventTime("23:59"))
	assert.False(t, IsEventTime("24:00"))
	assert.False(t, IsEventTime("9:30"))
}

func TestIsPhone(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"(916) 555-0100", true},
		{"+1 916.555.0100", true},
		{"555010", false},
		{"call me", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPhone(tt.in))
		})
	}
}

func TestRegister(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	type payload struct {
		StartsOn string `json:"startsOn" validate:"eventdate"`
		At       string `json:"at" validate:"omitempty,eventtime"`
		Phone    string `json:"phone" validate:"omitempty,phone"`
	}

	assert.NoError(t, v.Struct(payload{StartsOn: "2025-09-10", At: "18:00"}))

	err := v.Struct(payload{StartsOn: "tomorrow", Phone: "12"})
	require.Error(t, err)
	verrs := err.(validator.ValidationErrors)
	require.Len(t, verrs, 2)
	assert.Equal(t, "startsOn", verrs[0].Field())
	assert.Equal(t, "eventdate", verrs[0].Tag())
	assert.Equal(t, "phone", verrs[1].Field())
}

func TestStringValidation(t *testing.T) {
	assert.False(t, NewStringValidation("   ").Validate())
	assert.True(t, NewStringValidation("").WithRequired(false).Validate())
	assert.True(t, NewStringValidation("Ada").WithMinLength(2).WithMaxLength(10).Validate())
	assert.False(t, NewStringValidation("A").WithMinLength(2).Validate())
	assert.False(t, NewStringValidation("abc").WithPattern(CompiledPatterns.Phone).Validate())
}
