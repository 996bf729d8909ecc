package authclient

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

// Payload validation runs before any network I/O so obviously malformed
// requests never consume a round-trip. Server-side validation remains
// authoritative; 422 responses flow through the classifier.

// defaultPhoneRegion is used when the WhatsApp number omits the country
// prefix. The backend serves the BRVM market; Côte d'Ivoire is the home
// region.
const defaultPhoneRegion = "CI"

// ValidateStringEquals builds a rule asserting the field equals expected
// (password confirmation).
func ValidateStringEquals(expected string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != expected {
			return errors.New("values do not match")
		}
		return nil
	}
}

func validatePhoneNumber(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	num, err := phonenumbers.Parse(s, defaultPhoneRegion)
	if err != nil {
		return errors.New("must be a valid phone number")
	}
	if !phonenumbers.IsValidNumber(num) {
		return errors.New("must be a valid phone number")
	}
	return nil
}

// Validate runs validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// Validate runs validation rules
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nom, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Prenom, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Age, validation.Required, validation.Min(18), validation.Max(120)),
		validation.Field(&r.Genre, validation.Required, validation.In("Homme", "Femme")),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.NumeroWhatsapp, validation.Required, validation.By(validatePhoneNumber)),
		validation.Field(&r.PaysResidence, validation.Required),
		validation.Field(&r.SituationProfessionnelle, validation.Required),
		validation.Field(&r.MotDePasse, validation.Required, validation.Length(8, 100)),
	)
}

// Validate runs validation rules
func (r VerifyEmailRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.VerificationCode, validation.Required, validation.Length(4, 8), is.Digit),
	)
}

// Validate runs validation rules
func (r ResendCodeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// Validate runs validation rules
func (r CompleteProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.NumeroWhatsapp, validation.By(validatePhoneNumber)),
		validation.Field(&r.Password, validation.Length(8, 100)),
	)
}

// Validate runs validation rules
func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OldPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(8, 100)),
	)
}

// Validate runs validation rules
func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// Validate runs validation rules
func (r ConfirmResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.ConfirmPassword,
			validation.Required,
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}
