package pages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"iso2_automation/domain/entities"
	"iso2_automation/domain/errs"
	"iso2_automation/domain/interfaces"
	"iso2_automation/infrastructure/config"
)

const (
	LogoutPath      = "/logout"
	CredentialPath  = "/login"
	LoginURLPattern = "**/login"

	// how long a rejected code gets to prove it does not redirect
	invalidCodeWindow = 2 * time.Second
)

// Email + verification code screens
var (
	WelcomeHeading    = entities.L("welcome heading", `h1:has-text("Welcome to Bodega Ai")`)
	EmailInput        = entities.L("email input", `input[type="email"]`)
	ContinueButton    = entities.L("continue button", `button[type="submit"]`)
	CheckEmailHeading = entities.L("check email heading", `h1:has-text("Check your email")`)
	CodeInput         = entities.L("verification code input", `input[name="code"]`)
	SignInButton      = entities.L("sign in button", `button:has-text("Sign in")`)

	sentToEmail = entities.T("sent to email", `:text({email})`)
)

// Username + password screen
var (
	UsernameInput = entities.L("username input", "#username")
	PasswordInput = entities.L("password input", "#password")
	LoginButton   = entities.L("login button", "button[type='submit']")
	ErrorMessage  = entities.L("error message", ".error-message")
)

// Authenticator signs a session in with the configured admin account
type Authenticator interface {
	Authenticate(ctx context.Context) error
	Logout(ctx context.Context) error
}

// NewAuthenticator picks the login contract named by cfg.AuthMode. An application
// supports exactly one of them.
func NewAuthenticator(driver interfaces.Driver, cfg *config.Config, logger *logrus.Logger) (Authenticator, error) {
	switch cfg.AuthMode {
	case entities.AuthEmail:
		return NewEmailLogin(driver, cfg, logger), nil
	case entities.AuthCredentials:
		return NewCredentialLogin(driver, cfg, logger), nil
	default:
		return nil, errs.New(errs.InvalidArgument, "new authenticator", string(cfg.AuthMode), "unknown auth mode")
	}
}

// EmailLogin drives the email + verification code flow:
// Unauthenticated -> EmailEntered -> CodeEntered -> Authenticated, with InvalidCode
// returning to a state where another code can be entered.
type EmailLogin struct {
	*Base
	state entities.LoginState
}

func NewEmailLogin(driver interfaces.Driver, cfg *config.Config, logger *logrus.Logger) *EmailLogin {
	return &EmailLogin{
		Base:  NewBase(driver, cfg, logger, "login"),
		state: entities.LoginUnauthenticated,
	}
}

// State returns where the flow currently is
func (p *EmailLogin) State() entities.LoginState {
	return p.state
}

// Open navigates to the landing page that hosts the email form
func (p *EmailLogin) Open(ctx context.Context) error {
	p.state = entities.LoginUnauthenticated
	return p.NavigateTo(ctx, "/")
}

// VerifyLoginPage asserts the welcome screen is rendered
func (p *EmailLogin) VerifyLoginPage(ctx context.Context) error {
	for _, loc := range []entities.Locator{WelcomeHeading, EmailInput, ContinueButton} {
		if err := p.ExpectVisible(ctx, loc, 0); err != nil {
			return fmt.Errorf("verify login page: %w", err)
		}
	}
	return nil
}

// EnterEmail submits email and waits for the verification prompt
func (p *EmailLogin) EnterEmail(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return errs.New(errs.InvalidArgument, "enter email", EmailInput.String(), "email is empty")
	}
	p.log.Infof("entering email %s", email)

	if err := p.FillInput(ctx, EmailInput, email); err != nil {
		return fmt.Errorf("enter email: %w", err)
	}
	if err := p.ClickElement(ctx, ContinueButton); err != nil {
		return fmt.Errorf("enter email: %w", err)
	}
	if err := p.WaitForElement(ctx, CheckEmailHeading, 0); err != nil {
		return fmt.Errorf("verification prompt did not appear for %s: %w", email, err)
	}
	p.state = entities.LoginEmailEntered
	return nil
}

// VerifyVerificationPage asserts the code prompt is shown, naming email when given
func (p *EmailLogin) VerifyVerificationPage(ctx context.Context, email string) error {
	for _, loc := range []entities.Locator{CheckEmailHeading, CodeInput, SignInButton} {
		if err := p.ExpectVisible(ctx, loc, 0); err != nil {
			return fmt.Errorf("verify verification page: %w", err)
		}
	}
	if email == "" {
		return nil
	}
	loc, err := sentToEmail.Bind1(email)
	if err != nil {
		return err
	}
	if err := p.ExpectVisible(ctx, loc, 0); err != nil {
		return fmt.Errorf("verify verification page: %w", err)
	}
	return nil
}

// EnterVerificationCode fills and submits code. It does not wait for an outcome;
// follow with ConfirmAuthenticated or ConfirmInvalidCode.
func (p *EmailLogin) EnterVerificationCode(ctx context.Context, code string) error {
	if p.state != entities.LoginEmailEntered && p.state != entities.LoginInvalidCode {
		return errs.New(errs.InvalidArgument, "enter verification code", "",
			fmt.Sprintf("no code prompt in state %s", p.state))
	}
	if strings.TrimSpace(code) == "" {
		return errs.New(errs.InvalidArgument, "enter verification code", CodeInput.String(), "code is empty")
	}

	if err := p.FillInput(ctx, CodeInput, code); err != nil {
		return fmt.Errorf("enter verification code: %w", err)
	}
	if err := p.ClickElement(ctx, SignInButton); err != nil {
		return fmt.Errorf("enter verification code: %w", err)
	}
	p.state = entities.LoginCodeEntered
	return nil
}

// ConfirmAuthenticated waits for the authenticated landing URL
func (p *EmailLogin) ConfirmAuthenticated(ctx context.Context) error {
	if err := p.WaitForURL(ctx, p.cfg.AuthenticatedURL, p.cfg.NavigationTimeout); err != nil {
		return fmt.Errorf("authentication did not complete: %w", err)
	}
	p.state = entities.LoginAuthenticated
	p.log.Info("authenticated")
	return nil
}

// ConfirmInvalidCode asserts a rejected code left the prompt on screen. The
// authenticated URL must not show up within a short window after submitting.
func (p *EmailLogin) ConfirmInvalidCode(ctx context.Context) error {
	window := min(invalidCodeWindow, p.signalTimeout())
	err := p.WaitForURL(ctx, p.cfg.AuthenticatedURL, window)
	if err == nil {
		return errs.Assertf("confirm invalid code", p.CurrentURL(), "rejected code still reached %s", p.cfg.AuthenticatedURL)
	}
	if !errs.Is(err, errs.Timeout) {
		return fmt.Errorf("confirm invalid code: %w", err)
	}

	if err := p.ExpectVisible(ctx, CheckEmailHeading, p.signalTimeout()); err != nil {
		return fmt.Errorf("confirm invalid code: %w", err)
	}
	p.state = entities.LoginInvalidCode
	return nil
}

// LoginWithEmailVerification runs the whole flow and waits for the authenticated URL
func (p *EmailLogin) LoginWithEmailVerification(ctx context.Context, email, code string) error {
	if err := p.EnterEmail(ctx, email); err != nil {
		return fmt.Errorf("login with email verification: %w", err)
	}
	if err := p.EnterVerificationCode(ctx, code); err != nil {
		return fmt.Errorf("login with email verification: %w", err)
	}
	if err := p.ConfirmAuthenticated(ctx); err != nil {
		return fmt.Errorf("login with email verification: %w", err)
	}
	return nil
}

// Authenticate signs in with the configured admin email and code. A session
// that lands on the authenticated URL is already signed in and is left alone.
func (p *EmailLogin) Authenticate(ctx context.Context) error {
	if err := p.Open(ctx); err != nil {
		return err
	}
	if p.signedIn() {
		p.state = entities.LoginAuthenticated
		p.log.Info("already authenticated")
		return nil
	}
	return p.LoginWithEmailVerification(ctx, p.cfg.AdminEmail, p.cfg.VerificationCode)
}

// Logout ends the session and waits for the login redirect
func (p *EmailLogin) Logout(ctx context.Context) error {
	if err := logout(ctx, p.Base); err != nil {
		return err
	}
	p.state = entities.LoginUnauthenticated
	return nil
}

// CredentialLogin drives the single-step username and password form
type CredentialLogin struct {
	*Base
}

func NewCredentialLogin(driver interfaces.Driver, cfg *config.Config, logger *logrus.Logger) *CredentialLogin {
	return &CredentialLogin{Base: NewBase(driver, cfg, logger, "login")}
}

// Open navigates to the login form
func (p *CredentialLogin) Open(ctx context.Context) error {
	return p.NavigateTo(ctx, CredentialPath)
}

// Login fills both fields and submits, the outcome is left to the caller
func (p *CredentialLogin) Login(ctx context.Context, username, password string) error {
	if err := p.FillInput(ctx, UsernameInput, username); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := p.FillInput(ctx, PasswordInput, password); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := p.ClickElement(ctx, LoginButton); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return nil
}

// GetErrorMessage waits for the error banner and returns its text
func (p *CredentialLogin) GetErrorMessage(ctx context.Context) (string, error) {
	if err := p.WaitForElement(ctx, ErrorMessage, p.signalTimeout()); err != nil {
		return "", fmt.Errorf("get error message: %w", err)
	}
	return p.GetText(ctx, ErrorMessage)
}

func (p *CredentialLogin) IsLoginButtonVisible(ctx context.Context) bool {
	return p.IsVisible(ctx, LoginButton)
}

// VerifyLoginPage asserts the form is rendered
func (p *CredentialLogin) VerifyLoginPage(ctx context.Context) error {
	for _, loc := range []entities.Locator{UsernameInput, PasswordInput, LoginButton} {
		if err := p.ExpectVisible(ctx, loc, 0); err != nil {
			return fmt.Errorf("verify login page: %w", err)
		}
	}
	return nil
}

// Authenticate signs in with the configured admin username and password
func (p *CredentialLogin) Authenticate(ctx context.Context) error {
	if err := p.Open(ctx); err != nil {
		return err
	}
	if p.signedIn() {
		p.log.Info("already authenticated")
		return nil
	}
	if err := p.Login(ctx, p.cfg.AdminUsername, p.cfg.AdminPassword); err != nil {
		return err
	}
	if err := p.WaitForURL(ctx, p.cfg.AuthenticatedURL, p.cfg.NavigationTimeout); err != nil {
		return fmt.Errorf("authentication did not complete: %w", err)
	}
	return nil
}

func (p *CredentialLogin) Logout(ctx context.Context) error {
	return logout(ctx, p.Base)
}

// signedIn reports whether opening the login page redirected to the authenticated URL
func (b *Base) signedIn() bool {
	url := b.CurrentURL()
	return MatchURL(b.cfg.AuthenticatedURL, url) && !MatchURL(LoginURLPattern, url)
}

func logout(ctx context.Context, b *Base) error {
	if err := b.NavigateTo(ctx, LogoutPath); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if err := b.WaitForURL(ctx, LoginURLPattern, b.signalTimeout()); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	b.log.Info("logged out")
	return nil
}
