package validator

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestValidate_Passes(t *testing.T) {
	assert.NoError(t, Validate(loginForm{Email: "dr@clinic.test", Password: "secret-pass"}))
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	err := Validate(loginForm{Email: "not-an-email", Password: "short"})
	require.Error(t, err)

	valErr, ok := err.(*ValidationError)
	require.True(t, ok)

	fields := valErr.Fields()
	assert.Contains(t, fields["Email"], "valid email")
	assert.Contains(t, fields["Password"], "at least 8")
	assert.Contains(t, err.Error(), "Email")
}

func TestDecodeAndValidate(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/login",
		strings.NewReader(`{"email":"dr@clinic.test","password":"secret-pass"}`))

	var form loginForm
	require.NoError(t, DecodeAndValidate(r, &form))
	assert.Equal(t, "dr@clinic.test", form.Email)
}

func TestDecodeAndValidate_BadJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/login", strings.NewReader(`{not json`))

	var form loginForm
	err := DecodeAndValidate(r, &form)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}
