package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorCollectsFailures(t *testing.T) {
	v := &Validator{}
	v.Required("", "email")
	v.MinLength("short", 8, "password")

	assert.False(t, v.Valid())
	require.Len(t, v.Errors, 2)

	assert.Equal(t, "email", v.Errors[0].Field)
	assert.Equal(t, RuleRequired, v.Errors[0].Rule)

	assert.Equal(t, "password", v.Errors[1].Field)
	assert.Equal(t, RuleMinLength, v.Errors[1].Rule)
	assert.Equal(t, 8, v.Errors[1].Params["min"])
}

func TestValidatorPasses(t *testing.T) {
	v := &Validator{}
	v.Required("value", "field")
	v.Email("user@example.com", "email")
	v.MinLength("long enough", 8, "password")
	v.MaxLength("short", 255, "name")

	assert.True(t, v.Valid())
}

func TestEmailRule(t *testing.T) {
	valid := []string{"a@b.co", "user.name+tag@example.com", "x@sub.domain.org"}
	invalid := []string{"", "plain", "@missing.local", "user@", "user @example.com"}

	for _, email := range valid {
		v := &Validator{}
		v.Email(email, "email")
		assert.True(t, v.Valid(), "expected %q to pass", email)
	}
	for _, email := range invalid {
		v := &Validator{}
		v.Email(email, "email")
		assert.False(t, v.Valid(), "expected %q to fail", email)
	}
}

func TestMinLengthCountsRunes(t *testing.T) {
	v := &Validator{}
	// 8 runes, more than 8 bytes.
	v.MinLength("пароль88", 8, "password")
	assert.True(t, v.Valid())
}
