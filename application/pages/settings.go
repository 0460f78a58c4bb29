package pages

import (
	"context"
	"fmt"

	"iso2_automation/domain/entities"
)

// Shared by the permissions and visualization screens
var (
	UserTypeSelector = entities.L("user type selector", "select#userType")
	SuccessMessage   = entities.L("success message", ".success-message")
)

// scopedSettings is the select-scope, set-toggles, save pattern behind the
// permissions and visualization screens.
type scopedSettings struct {
	*Base
	toggle entities.LocatorTemplate
	save   entities.Locator
}

func (s scopedSettings) selectScope(ctx context.Context, userType string) error {
	if err := s.SelectOption(ctx, UserTypeSelector, userType); err != nil {
		return fmt.Errorf("select user type %q: %w", userType, err)
	}
	return nil
}

func (s scopedSettings) set(ctx context.Context, key string, want bool) error {
	loc, err := s.toggle.Bind1(key)
	if err != nil {
		return err
	}
	if err := s.SetToggle(ctx, loc, want); err != nil {
		return fmt.Errorf("set %s %q: %w", s.toggle.Name, key, err)
	}
	return nil
}

func (s scopedSettings) isOn(ctx context.Context, key string) (bool, error) {
	loc, err := s.toggle.Bind1(key)
	if err != nil {
		return false, err
	}
	return s.IsChecked(ctx, loc)
}

func (s scopedSettings) submit(ctx context.Context) error {
	if err := s.ClickElement(ctx, s.save); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// apply selects userType, drives every toggle in key order and saves
func (s scopedSettings) apply(ctx context.Context, userType string, toggles entities.Toggles) error {
	if err := s.selectScope(ctx, userType); err != nil {
		return err
	}
	for _, key := range toggles.Keys() {
		if err := s.set(ctx, key, toggles[key]); err != nil {
			return err
		}
	}
	s.log.Infof("applying %d settings for %s", len(toggles), userType)
	return s.submit(ctx)
}

func (s scopedSettings) successMessage(ctx context.Context) (string, error) {
	if err := s.WaitForElement(ctx, SuccessMessage, s.signalTimeout()); err != nil {
		return "", fmt.Errorf("success message: %w", err)
	}
	return s.GetText(ctx, SuccessMessage)
}
