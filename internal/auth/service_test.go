package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"dinarex/pkg/errors"
)

const testSecret = "test-jwt-secret"

func testCredentials(t *testing.T, totpSecret string) Credentials {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	return Credentials{
		Email:        "staff@dinarex.example",
		PasswordHash: string(hash),
		TOTPSecret:   totpSecret,
	}
}

func TestLogin_Success(t *testing.T) {
	service := NewService(testCredentials(t, ""), testSecret, time.Hour)

	resp, err := service.Login(&LoginRequest{
		Email:    "Staff@Dinarex.Example",
		Password: "correct horse",
	})

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, 5*time.Second)

	token, err := jwt.Parse(resp.AccessToken, func(tok *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "staff@dinarex.example", claims["email"])
	assert.Equal(t, "staff", claims["role"])
}

func TestLogin_WrongPassword(t *testing.T) {
	service := NewService(testCredentials(t, ""), testSecret, time.Hour)

	_, err := service.Login(&LoginRequest{
		Email:    "staff@dinarex.example",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	service := NewService(testCredentials(t, ""), testSecret, time.Hour)

	_, err := service.Login(&LoginRequest{
		Email:    "intruder@example.com",
		Password: "correct horse",
	})

	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
}

func TestLogin_TOTP(t *testing.T) {
	key, err := totp.Generate(totp.GenerateOpts{Issuer: "dinarex", AccountName: "staff"})
	require.NoError(t, err)

	service := NewService(testCredentials(t, key.Secret()), testSecret, time.Hour)

	// Missing code.
	_, err = service.Login(&LoginRequest{
		Email:    "staff@dinarex.example",
		Password: "correct horse",
	})
	assert.ErrorIs(t, err, errors.ErrTOTPRequired)

	code, err := totp.GenerateCode(key.Secret(), time.Now())
	require.NoError(t, err)

	// Wrong code.
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	_, err = service.Login(&LoginRequest{
		Email:    "staff@dinarex.example",
		Password: "correct horse",
		TOTPCode: wrong,
	})
	assert.ErrorIs(t, err, errors.ErrTOTPInvalid)

	// Current code.
	resp, err := service.Login(&LoginRequest{
		Email:    "staff@dinarex.example",
		Password: "correct horse",
		TOTPCode: code,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}
