package authclient_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	authclient "github.com/leyinvest/go-auth-client"
)

func validRegisterRequest() authclient.RegisterRequest {
	return authclient.RegisterRequest{
		Nom:                      "Doe",
		Prenom:                   "John",
		Age:                      30,
		Genre:                    "Homme",
		Email:                    "john@example.com",
		NumeroWhatsapp:           "+33612345678",
		PaysResidence:            "Côte d'Ivoire",
		SituationProfessionnelle: "Salarié",
		MotDePasse:               "correct-horse-battery",
	}
}

func TestLoginRequestValidation(t *testing.T) {
	valid := authclient.LoginRequest{Email: "test@example.com", Password: "secret123"}
	assert.NoError(t, valid.Validate())

	missing := authclient.LoginRequest{}
	assert.Error(t, missing.Validate())

	badEmail := authclient.LoginRequest{Email: "not-an-email", Password: "secret123"}
	assert.Error(t, badEmail.Validate())
}

func TestRegisterRequestValidation(t *testing.T) {
	assert.NoError(t, validRegisterRequest().Validate())

	tooYoung := validRegisterRequest()
	tooYoung.Age = 16
	assert.Error(t, tooYoung.Validate())

	badGenre := validRegisterRequest()
	badGenre.Genre = "Autre"
	assert.Error(t, badGenre.Validate())

	badPhone := validRegisterRequest()
	badPhone.NumeroWhatsapp = "12"
	assert.Error(t, badPhone.Validate())

	shortPassword := validRegisterRequest()
	shortPassword.MotDePasse = "short"
	assert.Error(t, shortPassword.Validate())
}

func TestVerifyEmailRequestValidation(t *testing.T) {
	valid := authclient.VerifyEmailRequest{Email: "test@example.com", VerificationCode: "123456"}
	assert.NoError(t, valid.Validate())

	nonDigit := authclient.VerifyEmailRequest{Email: "test@example.com", VerificationCode: "abc123"}
	assert.Error(t, nonDigit.Validate())

	tooShort := authclient.VerifyEmailRequest{Email: "test@example.com", VerificationCode: "12"}
	assert.Error(t, tooShort.Validate())
}

func TestResendCodeRequestValidation(t *testing.T) {
	assert.NoError(t, authclient.ResendCodeRequest{Email: "test@example.com"}.Validate())
	assert.Error(t, authclient.ResendCodeRequest{}.Validate())
}

func TestChangePasswordRequestValidation(t *testing.T) {
	valid := authclient.ChangePasswordRequest{OldPassword: "old-secret", NewPassword: "new-secret-123"}
	assert.NoError(t, valid.Validate())

	short := authclient.ChangePasswordRequest{OldPassword: "old-secret", NewPassword: "short"}
	assert.Error(t, short.Validate())
}

func TestConfirmResetPasswordRequestValidation(t *testing.T) {
	valid := authclient.ConfirmResetPasswordRequest{
		Token:           "reset-token",
		Password:        "new-secret-123",
		ConfirmPassword: "new-secret-123",
	}
	assert.NoError(t, valid.Validate())

	mismatch := authclient.ConfirmResetPasswordRequest{
		Token:           "reset-token",
		Password:        "new-secret-123",
		ConfirmPassword: "different",
	}
	assert.Error(t, mismatch.Validate())
}

func TestValidateStringEquals(t *testing.T) {
	rule := authclient.ValidateStringEquals("expected")
	assert.NoError(t, rule("expected"))
	assert.Error(t, rule("other"))
	assert.Error(t, rule(42))
}
