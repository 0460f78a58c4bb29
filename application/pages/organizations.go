package pages

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"iso2_automation/domain/entities"
	"iso2_automation/domain/errs"
	"iso2_automation/domain/interfaces"
	"iso2_automation/infrastructure/config"
)

const (
	OrganizationsPath         = "/organizations"
	OrganizationDetailPattern = "**/organizations/*"
	AddUserModalTitle         = "Add User"
	SuccessToastText          = "success"
)

var (
	OrganizationsGrid = entities.L("organizations grid", "#organizations-grid, table")
	OrganizationTitle = entities.L("organization title", ".organization-title, h1")
	FirstOrganization = entities.L("first organization row", "table tbody tr >> nth=0")
	AddUserButton     = entities.L("add user button", `button:has-text("Add")`)
	UsersGrid         = entities.L("users grid", "#organization-users-grid")

	AddUserModal         = entities.L("add user modal", "#addIsoUserModal")
	FirstNameInput       = entities.L("first name input", `input[name="FirstName"]`)
	LastNameInput        = entities.L("last name input", `input[name="LastName"]`)
	UserEmailInput       = entities.L("email input", `input[name="Email"]`)
	PhoneInput           = entities.L("phone input", `input[name="Phone"]`)
	NotificationsToggle  = entities.L("notifications checkbox", `input[name="NotificationsEnabled"]`)
	IsOwnerToggle        = entities.L("owner checkbox", `input[name="IsOwner"]`)
	SubmitUserButton     = entities.L("submit button", `button:has-text("Submit")`)
	CancelUserButton     = entities.L("cancel button", `button:has-text("Cancel")`)
	ModalTitle           = entities.L("modal title", ".modal-title")
	Toast                = entities.L("toast", ".toast, [data-testid='toast']")
	addUserModalControls = []entities.Locator{
		FirstNameInput, LastNameInput, UserEmailInput, PhoneInput,
		NotificationsToggle, IsOwnerToggle, SubmitUserButton, CancelUserButton,
	}

	userRow = entities.T("user row", "tr:has-text({email})")
)

// Organizations covers the organization list, the detail page and the Add User modal
type Organizations struct {
	*Base
}

func NewOrganizations(driver interfaces.Driver, cfg *config.Config, logger *logrus.Logger) *Organizations {
	return &Organizations{Base: NewBase(driver, cfg, logger, "organizations")}
}

func (p *Organizations) NavigateToOrganizations(ctx context.Context) error {
	return p.NavigateTo(ctx, OrganizationsPath)
}

func (p *Organizations) NavigateToOrganizationDetail(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errs.New(errs.InvalidArgument, "navigate to organization", "", "organization id is empty")
	}
	return p.NavigateTo(ctx, OrganizationsPath+"/"+url.PathEscape(id))
}

// OpenFirstOrganization clicks the first grid row and waits for its detail page
func (p *Organizations) OpenFirstOrganization(ctx context.Context) error {
	if err := p.WaitForElement(ctx, FirstOrganization, 0); err != nil {
		return fmt.Errorf("open first organization: %w", err)
	}
	if err := p.ClickElement(ctx, FirstOrganization); err != nil {
		return fmt.Errorf("open first organization: %w", err)
	}
	if err := p.WaitForURL(ctx, OrganizationDetailPattern, p.cfg.NavigationTimeout); err != nil {
		return fmt.Errorf("open first organization: %w", err)
	}
	return nil
}

func (p *Organizations) VerifyOrganizationsPage(ctx context.Context) error {
	return p.ExpectVisible(ctx, OrganizationsGrid, 0)
}

// VerifyOrganizationDetailPage asserts the detail title, containing name when given
func (p *Organizations) VerifyOrganizationDetailPage(ctx context.Context, name string) error {
	if err := p.ExpectVisible(ctx, OrganizationTitle, 0); err != nil {
		return err
	}
	if name == "" {
		return nil
	}
	return p.ExpectText(ctx, OrganizationTitle, name, 0)
}

// OpenAddUserModal clicks Add and waits for the modal titled "Add User"
func (p *Organizations) OpenAddUserModal(ctx context.Context) error {
	if err := p.ClickElement(ctx, AddUserButton); err != nil {
		return fmt.Errorf("open add user modal: %w", err)
	}
	if err := p.WaitForElement(ctx, AddUserModal, p.signalTimeout()); err != nil {
		return fmt.Errorf("open add user modal: %w", err)
	}
	if err := p.ExpectText(ctx, ModalTitle, AddUserModalTitle, p.signalTimeout()); err != nil {
		return fmt.Errorf("open add user modal: %w", err)
	}
	return nil
}

// FillUserForm fills the required fields and any optional field that is set.
// Checkboxes are only clicked when their state differs from the requested one.
func (p *Organizations) FillUserForm(ctx context.Context, user entities.AdminUser) error {
	if err := user.Validate(); err != nil {
		return err
	}

	type field struct {
		loc   entities.Locator
		value string
	}
	fields := []field{
		{FirstNameInput, user.FirstName},
		{LastNameInput, user.LastName},
		{UserEmailInput, user.Email},
	}
	if user.Phone != nil {
		fields = append(fields, field{PhoneInput, *user.Phone})
	}
	for _, f := range fields {
		if err := p.FillInput(ctx, f.loc, f.value); err != nil {
			return fmt.Errorf("fill user form: %w", err)
		}
	}

	if user.NotificationsEnabled != nil {
		if err := p.SetToggle(ctx, NotificationsToggle, *user.NotificationsEnabled); err != nil {
			return fmt.Errorf("fill user form: %w", err)
		}
	}
	if user.IsOwner != nil {
		if err := p.SetToggle(ctx, IsOwnerToggle, *user.IsOwner); err != nil {
			return fmt.Errorf("fill user form: %w", err)
		}
	}
	return nil
}

func (p *Organizations) SubmitUserForm(ctx context.Context) error {
	return p.ClickElement(ctx, SubmitUserButton)
}

func (p *Organizations) CancelUserForm(ctx context.Context) error {
	return p.ClickElement(ctx, CancelUserButton)
}

// CreateAdminUser opens the modal, fills and submits it, then waits for the success
// toast and for the modal to close. Both must happen, in that order. A toast without
// the success text fails straight away with the text it shows.
func (p *Organizations) CreateAdminUser(ctx context.Context, user entities.AdminUser) error {
	if err := user.Validate(); err != nil {
		return err
	}
	p.log.Infof("creating admin user %s", user.Email)

	if err := p.OpenAddUserModal(ctx); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	if err := p.FillUserForm(ctx, user); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	if err := p.SubmitUserForm(ctx); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	if err := p.AwaitSignal(ctx, entities.SuccessSignal(Toast, ""), p.signalTimeout()); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	toast, err := p.GetText(ctx, Toast)
	if err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	if !strings.Contains(strings.ToLower(toast), SuccessToastText) {
		return errs.Assertf("create admin user", Toast.String(), "submit was rejected: %q", strings.TrimSpace(toast))
	}
	if err := p.ExpectHidden(ctx, AddUserModal, p.signalTimeout()); err != nil {
		return fmt.Errorf("create admin user: modal stayed open after toast %q: %w", strings.TrimSpace(toast), err)
	}
	return nil
}

// VerifyUserInGrid waits for a users grid row containing email
func (p *Organizations) VerifyUserInGrid(ctx context.Context, email string) error {
	row, err := p.userRow(email)
	if err != nil {
		return err
	}
	return p.ExpectVisible(ctx, row, 0)
}

// VerifyUserNotInGrid waits until no users grid row contains email
func (p *Organizations) VerifyUserNotInGrid(ctx context.Context, email string) error {
	row, err := p.userRow(email)
	if err != nil {
		return err
	}
	return p.ExpectHidden(ctx, row, p.signalTimeout())
}

// UserRowText returns the text of the users grid row containing email
func (p *Organizations) UserRowText(ctx context.Context, email string) (string, error) {
	row, err := p.userRow(email)
	if err != nil {
		return "", err
	}
	if err := p.WaitForElement(ctx, row, 0); err != nil {
		return "", err
	}
	return p.GetText(ctx, row)
}

func (p *Organizations) VerifyAddUserModalFields(ctx context.Context) error {
	for _, loc := range addUserModalControls {
		if err := p.ExpectVisible(ctx, loc, 0); err != nil {
			return fmt.Errorf("verify add user modal: %w", err)
		}
	}
	return nil
}

func (p *Organizations) VerifySuccessToast(ctx context.Context) error {
	err := p.AwaitSignal(ctx, entities.SuccessSignal(Toast, SuccessToastText), p.signalTimeout())
	return errs.Wrap(errs.Assertion, "verify success toast", Toast.String(), err)
}

// VerifyErrorToast asserts the toast shows text. Success and error are the two
// exclusive outcomes of one submit, so callers pick the one they expect.
func (p *Organizations) VerifyErrorToast(ctx context.Context, text string) error {
	err := p.AwaitSignal(ctx, entities.ErrorSignal(Toast, text), p.signalTimeout())
	return errs.Wrap(errs.Assertion, "verify error toast", Toast.String(), err)
}

func (p *Organizations) IsModalVisible(ctx context.Context) bool {
	return p.IsVisible(ctx, AddUserModal)
}

// IsFieldInvalid reports whether the browser flags loc as failing its constraints
func (p *Organizations) IsFieldInvalid(ctx context.Context, loc entities.Locator) (bool, error) {
	valid, err := p.IsValid(ctx, loc)
	if err != nil {
		return false, err
	}
	return !valid, nil
}

func (p *Organizations) userRow(email string) (entities.Locator, error) {
	row, err := userRow.Bind1(email)
	if err != nil {
		return entities.Locator{}, err
	}
	return UsersGrid.Within(row), nil
}
