package entities

// LoginState tracks the email + verification code flow
type LoginState string

const (
	LoginUnauthenticated LoginState = "unauthenticated"
	LoginEmailEntered    LoginState = "email_entered"
	LoginCodeEntered     LoginState = "code_entered"
	LoginAuthenticated   LoginState = "authenticated"
	LoginInvalidCode     LoginState = "invalid_code"
)

// AuthMode selects which of the two login contracts the target application uses
type AuthMode string

const (
	AuthEmail       AuthMode = "email"
	AuthCredentials AuthMode = "credentials"
)
