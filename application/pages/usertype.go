package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"iso2_automation/domain/entities"
	"iso2_automation/domain/errs"
	"iso2_automation/domain/interfaces"
	"iso2_automation/infrastructure/config"
)

const UserTypesPath = "/user-types"

var (
	CreateUserTypeButton     = entities.L("create user type button", "button[data-action='create']")
	UserTypeNameInput        = entities.L("user type name input", "#userTypeName")
	UserTypeDescriptionInput = entities.L("user type description input", "#userTypeDescription")
	SaveButton               = entities.L("save button", "button[data-action='save']")
	CancelButton             = entities.L("cancel button", "button[data-action='cancel']")
	DeleteButton             = entities.L("delete button", "button[data-action='delete']")
	EditButton               = entities.L("edit button", "button[data-action='edit']")
	UserTypeTable            = entities.L("user type table", "table.user-types")

	userTypeRow = entities.T("user type row", "tr:has-text({name})")
)

// UserType manages the user type table: create, edit, delete, lookup
type UserType struct {
	*Base
}

func NewUserType(driver interfaces.Driver, cfg *config.Config, logger *logrus.Logger) *UserType {
	return &UserType{Base: NewBase(driver, cfg, logger, "user_type")}
}

func (p *UserType) Open(ctx context.Context) error {
	return p.NavigateTo(ctx, UserTypesPath)
}

func (p *UserType) ClickCreateUserType(ctx context.Context) error {
	return p.ClickElement(ctx, CreateUserTypeButton)
}

// FillUserTypeForm overwrites both form fields
func (p *UserType) FillUserTypeForm(ctx context.Context, name, description string) error {
	if strings.TrimSpace(name) == "" {
		return errs.New(errs.InvalidArgument, "fill user type form", UserTypeNameInput.String(), "name is empty")
	}
	if err := p.FillInput(ctx, UserTypeNameInput, name); err != nil {
		return fmt.Errorf("fill user type form: %w", err)
	}
	if err := p.FillInput(ctx, UserTypeDescriptionInput, description); err != nil {
		return fmt.Errorf("fill user type form: %w", err)
	}
	return nil
}

func (p *UserType) ClickSave(ctx context.Context) error {
	return p.ClickElement(ctx, SaveButton)
}

func (p *UserType) ClickCancel(ctx context.Context) error {
	return p.ClickElement(ctx, CancelButton)
}

// CreateUserType opens the form, fills it and saves. Done when the form closes.
func (p *UserType) CreateUserType(ctx context.Context, name, description string) error {
	if err := p.ClickCreateUserType(ctx); err != nil {
		return fmt.Errorf("create user type %q: %w", name, err)
	}
	if err := p.WaitForElement(ctx, UserTypeNameInput, p.signalTimeout()); err != nil {
		return fmt.Errorf("create user type %q: %w", name, err)
	}
	if err := p.saveForm(ctx, name, description); err != nil {
		return fmt.Errorf("create user type %q: %w", name, err)
	}
	p.log.Infof("created user type %s", name)
	return nil
}

// EditUserType opens the edit form of the row named name and overwrites it
func (p *UserType) EditUserType(ctx context.Context, name, newName, newDescription string) error {
	edit, err := p.rowAction(name, EditButton)
	if err != nil {
		return err
	}
	if err := p.ClickElement(ctx, edit); err != nil {
		return fmt.Errorf("edit user type %q: %w", name, err)
	}
	if err := p.WaitForElement(ctx, UserTypeNameInput, p.signalTimeout()); err != nil {
		return fmt.Errorf("edit user type %q: %w", name, err)
	}
	if err := p.saveForm(ctx, newName, newDescription); err != nil {
		return fmt.Errorf("edit user type %q: %w", name, err)
	}
	p.log.Infof("renamed user type %s to %s", name, newName)
	return nil
}

// DeleteUserType deletes the row named name. Done when the row is gone; the
// confirm dialog is accepted by the driver.
func (p *UserType) DeleteUserType(ctx context.Context, name string) error {
	del, err := p.rowAction(name, DeleteButton)
	if err != nil {
		return err
	}
	row, err := p.row(name)
	if err != nil {
		return err
	}
	if err := p.ClickElement(ctx, del); err != nil {
		return fmt.Errorf("delete user type %q: %w", name, err)
	}
	if err := p.ExpectHidden(ctx, row, p.signalTimeout()); err != nil {
		return fmt.Errorf("delete user type %q: %w", name, err)
	}
	p.log.Infof("deleted user type %s", name)
	return nil
}

// IsUserTypeVisible reports whether the table has a row named name right now
func (p *UserType) IsUserTypeVisible(ctx context.Context, name string) bool {
	row, err := p.row(name)
	if err != nil {
		return false
	}
	return p.IsVisible(ctx, row)
}

// VerifyUserTypeInTable waits for a row named name
func (p *UserType) VerifyUserTypeInTable(ctx context.Context, name string) error {
	row, err := p.row(name)
	if err != nil {
		return err
	}
	return p.ExpectVisible(ctx, row, 0)
}

// VerifyUserTypeNotInTable waits until no row named name is shown
func (p *UserType) VerifyUserTypeNotInTable(ctx context.Context, name string) error {
	row, err := p.row(name)
	if err != nil {
		return err
	}
	return p.ExpectHidden(ctx, row, p.signalTimeout())
}

func (p *UserType) GetSuccessMessage(ctx context.Context) (string, error) {
	if err := p.WaitForElement(ctx, SuccessMessage, p.signalTimeout()); err != nil {
		return "", fmt.Errorf("success message: %w", err)
	}
	return p.GetText(ctx, SuccessMessage)
}

func (p *UserType) saveForm(ctx context.Context, name, description string) error {
	if err := p.FillUserTypeForm(ctx, name, description); err != nil {
		return err
	}
	if err := p.ClickSave(ctx); err != nil {
		return err
	}
	return p.ExpectHidden(ctx, UserTypeNameInput, p.signalTimeout())
}

func (p *UserType) row(name string) (entities.Locator, error) {
	row, err := userTypeRow.Bind1(name)
	if err != nil {
		return entities.Locator{}, err
	}
	return UserTypeTable.Within(row), nil
}

func (p *UserType) rowAction(name string, action entities.Locator) (entities.Locator, error) {
	row, err := p.row(name)
	if err != nil {
		return entities.Locator{}, err
	}
	return row.Within(action), nil
}
