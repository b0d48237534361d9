package mfa

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

var (
	ErrGeneratingSecret = errors.New("error generating TOTP secret")
	ErrInvalidCode      = errors.New("invalid verification code")
)

const (
	secretSize    = 20
	qrImageSize   = 200
	backupCodeLen = 8
	backupCodeNum = 10
)

// SetupResult carries everything the client needs to enroll an
// authenticator app.
type SetupResult struct {
	Secret    string
	QRCode    []byte // PNG bytes
	URI       string // otpauth:// URI for manual entry
	CreatedAt time.Time
}

// Service issues and validates TOTP credentials.
type Service interface {
	Setup(accountName string) (*SetupResult, error)
	Validate(secret, code string) (bool, error)
	GenerateBackupCodes() ([]string, error)
}

type service struct {
	issuer string
}

func NewService(issuer string) Service {
	return &service{issuer: issuer}
}

func (s *service) Setup(accountName string) (*SetupResult, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: accountName,
		SecretSize:  secretSize,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
		Period:      30,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneratingSecret, err)
	}

	img, err := key.Image(qrImageSize, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("error rendering QR code: %v", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("error encoding QR code: %v", err)
	}

	return &SetupResult{
		Secret:    key.Secret(),
		QRCode:    buf.Bytes(),
		URI:       key.URL(),
		CreatedAt: time.Now(),
	}, nil
}

func (s *service) Validate(secret, code string) (bool, error) {
	if secret == "" || code == "" {
		return false, fmt.Errorf("secret and code cannot be empty")
	}
	if !totp.Validate(code, secret) {
		return false, ErrInvalidCode
	}
	return true, nil
}

// GenerateBackupCodes returns single-use numeric recovery codes in
// NNNN-NNNN form.
func (s *service) GenerateBackupCodes() ([]string, error) {
	codes := make([]string, backupCodeNum)
	for i := range codes {
		raw := make([]byte, backupCodeLen)
		if _, err := rand.Read(raw); err != nil {
			return nil, fmt.Errorf("failed to generate random bytes: %v", err)
		}
		digits := make([]byte, backupCodeLen)
		for j, b := range raw {
			digits[j] = '0' + b%10
		}
		codes[i] = fmt.Sprintf("%s-%s", digits[:backupCodeLen/2], digits[backupCodeLen/2:])
	}
	return codes, nil
}
