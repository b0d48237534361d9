package dto

type MFASetupResponse struct {
	Secret       string   `json:"secret"`
	QRCodeBase64 string   `json:"qr_code_base64"`
	OTPAuthURL   string   `json:"otp_auth_url"`
	BackupCodes  []string `json:"backup_codes,omitempty"`
}

type MFAStatusResponse struct {
	Enabled bool `json:"enabled"`
}

type VerifyMFARequest struct {
	Code string `json:"code" binding:"required"`
}

type DisableMFARequest struct {
	Password string `json:"password" binding:"required"`
}

// ValidateMFARequest carries the temporary login token together with
// the TOTP or backup code that completes the second factor.
type ValidateMFARequest struct {
	TempToken string `json:"temp_token" binding:"required"`
	Code      string `json:"code" binding:"required"`
}

// MFARequiredResponse is returned from login when the password checked
// out but the account still needs its second factor.
type MFARequiredResponse struct {
	MFARequired bool   `json:"mfa_required"`
	UserID      string `json:"user_id"`
	TempToken   string `json:"temp_token"`
	Message     string `json:"message"`
	TTL         int    `json:"ttl"`
}
