package notification

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/certzilla/auth-server/internal/model"
)

// Purpose selects the wording of an OTP email.
type Purpose int

const (
	PurposePasswordReset Purpose = iota
	PurposeVerification
)

const (
	SubjectPasswordReset = "Reset Your Password - Certzilla"
	SubjectVerification  = "Verify Your Email - Certzilla"
)

var otpTemplate = template.Must(template.New("otp").Parse(
	`<h3>Your OTP: <b>{{.Code}}</b></h3><p>Expires in {{.Minutes}} minutes</p>`,
))

// Subject returns the email subject for p.
func (p Purpose) Subject() string {
	if p == PurposeVerification {
		return SubjectVerification
	}
	return SubjectPasswordReset
}

// OTPMessage renders the email carrying code to recipient.
func OTPMessage(p Purpose, to, code string) (model.Message, error) {
	var body bytes.Buffer
	err := otpTemplate.Execute(&body, struct {
		Code    string
		Minutes int
	}{
		Code:    code,
		Minutes: int(model.OTPTTL.Minutes()),
	})
	if err != nil {
		return model.Message{}, fmt.Errorf("failed to render otp email: %w", err)
	}

	return model.Message{
		To:      to,
		Subject: p.Subject(),
		HTML:    body.String(),
	}, nil
}
