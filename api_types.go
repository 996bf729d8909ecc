package authclient

// Wire types for the LeyInvest backend. Field names follow the backend
// contract; the French names are part of the wire format.

type RegisterRequest struct {
	Nom                      string `json:"nom"`
	Prenom                   string `json:"prenom"`
	Age                      int    `json:"age"`
	Genre                    string `json:"genre"`
	Email                    string `json:"email"`
	NumeroWhatsapp           string `json:"numero_whatsapp"`
	PaysResidence            string `json:"pays_residence"`
	SituationProfessionnelle string `json:"situation_professionnelle"`
	MotDePasse               string `json:"mot_de_passe"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  int    `json:"user_id"`
	Email   string `json:"email"`
}

type VerifyEmailRequest struct {
	Email            string `json:"email"`
	VerificationCode string `json:"verification_code"`
}

type VerifyEmailResponse struct {
	Message string `json:"message"`
	UserID  int    `json:"user_id"`
}

type ResendCodeRequest struct {
	Email string `json:"email"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// CompleteProfileRequest finalizes onboarding after email verification.
type CompleteProfileRequest struct {
	Email                    string `json:"email"`
	Age                      int    `json:"age,omitempty"`
	Genre                    string `json:"genre,omitempty"`
	NumeroWhatsapp           string `json:"numero_whatsapp,omitempty"`
	PaysResidence            string `json:"pays_residence,omitempty"`
	SituationProfessionnelle string `json:"situation_professionnelle,omitempty"`
	Password                 string `json:"password,omitempty"`
}

// CompleteProfileResponse may or may not carry a session token depending on
// the flow variant; callers treat Token as optional.
type CompleteProfileResponse struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me,omitempty"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      int    `json:"user_id"`
	Email       string `json:"email"`
	Nom         string `json:"nom"`
	Prenom      string `json:"prenom"`
	IsVerified  bool   `json:"is_verified"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type ResetPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordResponse carries the short-lived reset token consumed by the
// confirmation call.
type ResetPasswordResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type ConfirmResetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type GoogleLoginResponse struct {
	RedirectURL string `json:"redirect_url"`
}

// GoogleCallbackResponse is the flat-field shape; the backend answers the
// callback with the same envelope convention as login plus the profile
// completion flag.
type GoogleCallbackResponse struct {
	AccessToken            string `json:"access_token"`
	TokenType              string `json:"token_type"`
	UserID                 int    `json:"user_id"`
	Email                  string `json:"email"`
	Nom                    string `json:"nom"`
	Prenom                 string `json:"prenom"`
	IsVerified             bool   `json:"is_verified"`
	NeedsProfileCompletion bool   `json:"needs_profile_completion"`
	IsNewUser              bool   `json:"is_new_user"`
}
