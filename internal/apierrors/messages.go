package apierrors

// Client-facing messages.
const (
	MsgAllFieldsRequired    = "All fields are required."
	MsgPasswordsMismatch    = "Passwords do not match."
	MsgUserExists           = "User already exists with this email."
	MsgLoginFieldsRequired  = "Email and password are required."
	MsgUserNotFound         = "User not found."
	MsgBadCredentials       = "Email or Password Incorrect"
	MsgEmailRequired        = "Email is required."
	MsgNoUserWithEmail      = "No user found with this email."
	MsgOTPFieldsRequired    = "Email and OTP are required."
	MsgInvalidOTP           = "Invalid OTP"
	MsgOTPExpired           = "OTP expired"
	MsgResetFieldsRequired  = "Email, new password, and reset token are required."
	MsgPasswordTooLong      = "Password must be at most 72 bytes long."
	MsgInvalidResetToken    = "invalid or expired reset token"
	MsgResetTokenExpired    = "reset token has expired"
	MsgMissingAuthorization = "Authorization token is required."
	MsgInvalidAuthorization = "Authorization token is invalid."
	MsgMalformedRequest     = "Request body must be valid JSON."
)

func NewErrInvalidOTP() *APIError        { return NewValidation(MsgInvalidOTP) }
func NewErrOTPExpired() *APIError        { return NewValidation(MsgOTPExpired) }
func NewErrInvalidResetToken() *APIError { return NewValidation(MsgInvalidResetToken) }
func NewErrResetTokenExpired() *APIError { return NewValidation(MsgResetTokenExpired) }
func NewErrUserNotFound() *APIError      { return NewNotFound(MsgUserNotFound) }
func NewErrUserExists() *APIError        { return NewConflict(MsgUserExists) }
func NewErrBadCredentials() *APIError    { return NewAuth(MsgBadCredentials) }
