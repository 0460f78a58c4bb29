package pages

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"iso2_automation/domain/entities"
	"iso2_automation/domain/interfaces"
	"iso2_automation/infrastructure/config"
)

const PermissionsPath = "/permissions"

var (
	PermissionCheckboxes  = entities.L("permission checkboxes", "input[type='checkbox'][data-permission]")
	SavePermissionsButton = entities.L("save permissions button", "button[data-action='save-permissions']")
	ResetButton           = entities.L("reset button", "button[data-action='reset']")

	permissionCheckbox = entities.T("permission checkbox", "input[data-permission={name}]")
)

// Permissions configures what each user type is allowed to do
type Permissions struct {
	scopedSettings
}

func NewPermissions(driver interfaces.Driver, cfg *config.Config, logger *logrus.Logger) *Permissions {
	return &Permissions{scopedSettings{
		Base:   NewBase(driver, cfg, logger, "permissions"),
		toggle: permissionCheckbox,
		save:   SavePermissionsButton,
	}}
}

func (p *Permissions) Open(ctx context.Context) error {
	return p.NavigateTo(ctx, PermissionsPath)
}

func (p *Permissions) SelectUserType(ctx context.Context, userType string) error {
	return p.selectScope(ctx, userType)
}

// SetPermission checks or unchecks one permission, leaving it alone when it already matches
func (p *Permissions) SetPermission(ctx context.Context, name string, enabled bool) error {
	return p.set(ctx, name, enabled)
}

func (p *Permissions) SavePermissions(ctx context.Context) error {
	return p.submit(ctx)
}

// ResetPermissions restores the defaults of the selected user type
func (p *Permissions) ResetPermissions(ctx context.Context) error {
	if err := p.ClickElement(ctx, ResetButton); err != nil {
		return fmt.Errorf("reset permissions: %w", err)
	}
	return nil
}

func (p *Permissions) IsPermissionEnabled(ctx context.Context, name string) (bool, error) {
	return p.isOn(ctx, name)
}

// ConfigurePermissions selects userType, applies permissions and saves
func (p *Permissions) ConfigurePermissions(ctx context.Context, userType string, permissions entities.Toggles) error {
	if err := p.apply(ctx, userType, permissions); err != nil {
		return fmt.Errorf("configure permissions: %w", err)
	}
	return nil
}

func (p *Permissions) GetSuccessMessage(ctx context.Context) (string, error) {
	return p.successMessage(ctx)
}
