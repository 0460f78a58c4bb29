package pages

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"iso2_automation/domain/entities"
	"iso2_automation/domain/interfaces"
	"iso2_automation/infrastructure/config"
)

const VisualizationPath = "/visualization"

var (
	VisibilityToggles  = entities.L("visibility toggles", "input[type='checkbox'][data-visibility]")
	DisplayOptions     = entities.L("display options", "input[type='radio'][data-display]")
	SaveSettingsButton = entities.L("save settings button", "button[data-action='save-settings']")

	visibilityToggle = entities.T("visibility toggle", "input[data-visibility={name}]")
	displayOption    = entities.T("display option", "input[data-display={name}]")
)

// Visualization controls which UI elements each user type sees
type Visualization struct {
	scopedSettings
}

func NewVisualization(driver interfaces.Driver, cfg *config.Config, logger *logrus.Logger) *Visualization {
	return &Visualization{scopedSettings{
		Base:   NewBase(driver, cfg, logger, "visualization"),
		toggle: visibilityToggle,
		save:   SaveSettingsButton,
	}}
}

func (p *Visualization) Open(ctx context.Context) error {
	return p.NavigateTo(ctx, VisualizationPath)
}

func (p *Visualization) SelectUserType(ctx context.Context, userType string) error {
	return p.selectScope(ctx, userType)
}

// SetVisibility shows or hides one element, leaving it alone when it already matches
func (p *Visualization) SetVisibility(ctx context.Context, element string, visible bool) error {
	return p.set(ctx, element, visible)
}

// SelectDisplayOption picks a display radio
func (p *Visualization) SelectDisplayOption(ctx context.Context, option string) error {
	loc, err := displayOption.Bind1(option)
	if err != nil {
		return err
	}
	if err := p.SetToggle(ctx, loc, true); err != nil {
		return fmt.Errorf("select display option %q: %w", option, err)
	}
	return nil
}

func (p *Visualization) SaveSettings(ctx context.Context) error {
	return p.submit(ctx)
}

// IsElementVisibleForUserType reads the toggle of element for the selected user type
func (p *Visualization) IsElementVisibleForUserType(ctx context.Context, element string) (bool, error) {
	return p.isOn(ctx, element)
}

// IsDisplayOptionSelected reads a display radio
func (p *Visualization) IsDisplayOptionSelected(ctx context.Context, option string) (bool, error) {
	loc, err := displayOption.Bind1(option)
	if err != nil {
		return false, err
	}
	return p.IsChecked(ctx, loc)
}

// ConfigureVisualization selects userType, applies settings and saves
func (p *Visualization) ConfigureVisualization(ctx context.Context, userType string, settings entities.Toggles) error {
	if err := p.apply(ctx, userType, settings); err != nil {
		return fmt.Errorf("configure visualization: %w", err)
	}
	return nil
}

func (p *Visualization) GetSuccessMessage(ctx context.Context) (string, error) {
	return p.successMessage(ctx)
}
