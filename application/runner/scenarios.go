package runner

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"iso2_automation/application/pages"
	"iso2_automation/domain/interfaces"
	"iso2_automation/infrastructure/config"
)

// Builtin returns the smoke scenarios keyed by name
func Builtin(cfg *config.Config, logger *logrus.Logger) map[string]Scenario {
	login := Step{
		Name: "login",
		Run: func(ctx context.Context, d interfaces.Driver) error {
			auth, err := pages.NewAuthenticator(d, cfg, logger)
			if err != nil {
				return err
			}
			return auth.Authenticate(ctx)
		},
		SignIn: true,
	}

	return map[string]Scenario{
		"login": {
			Name:        "login",
			Description: "sign in and keep the session for later runs",
			Steps:       []Step{login},
			SaveState:   true,
		},
		"logout": {
			Name:        "logout",
			Description: "sign in then sign out",
			Steps: []Step{login, {
				Name: "logout",
				Run: func(ctx context.Context, d interfaces.Driver) error {
					auth, err := pages.NewAuthenticator(d, cfg, logger)
					if err != nil {
						return err
					}
					return auth.Logout(ctx)
				},
			}},
		},
		"organizations": {
			Name:        "organizations",
			Description: "open the organization list and the first organization",
			Steps: []Step{login, {
				Name: "organization list",
				Run: func(ctx context.Context, d interfaces.Driver) error {
					p := pages.NewOrganizations(d, cfg, logger)
					if err := p.NavigateToOrganizations(ctx); err != nil {
						return err
					}
					return p.VerifyOrganizationsPage(ctx)
				},
			}, {
				Name: "organization detail",
				Run: func(ctx context.Context, d interfaces.Driver) error {
					p := pages.NewOrganizations(d, cfg, logger)
					if err := p.OpenFirstOrganization(ctx); err != nil {
						return err
					}
					return p.VerifyOrganizationDetailPage(ctx, "")
				},
			}, {
				Name: "add user modal",
				Run: func(ctx context.Context, d interfaces.Driver) error {
					p := pages.NewOrganizations(d, cfg, logger)
					if err := p.OpenAddUserModal(ctx); err != nil {
						return err
					}
					if err := p.VerifyAddUserModalFields(ctx); err != nil {
						return err
					}
					return p.CancelUserForm(ctx)
				},
			}},
		},
		"user-types": {
			Name:        "user-types",
			Description: "open the user type table",
			Steps: []Step{login, {
				Name: "user type table",
				Run: func(ctx context.Context, d interfaces.Driver) error {
					p := pages.NewUserType(d, cfg, logger)
					if err := p.Open(ctx); err != nil {
						return err
					}
					return p.ExpectVisible(ctx, pages.UserTypeTable, 0)
				},
			}},
		},
		"permissions": {
			Name:        "permissions",
			Description: "open the permission settings",
			Steps: []Step{login, {
				Name: "permission settings",
				Run: func(ctx context.Context, d interfaces.Driver) error {
					p := pages.NewPermissions(d, cfg, logger)
					if err := p.Open(ctx); err != nil {
						return err
					}
					return p.ExpectVisible(ctx, pages.UserTypeSelector, 0)
				},
			}},
		},
		"visualization": {
			Name:        "visualization",
			Description: "open the visualization settings",
			Steps: []Step{login, {
				Name: "visualization settings",
				Run: func(ctx context.Context, d interfaces.Driver) error {
					p := pages.NewVisualization(d, cfg, logger)
					if err := p.Open(ctx); err != nil {
						return err
					}
					return p.ExpectVisible(ctx, pages.UserTypeSelector, 0)
				},
			}},
		},
	}
}

// Names returns the scenario names sorted
func Names(scenarios map[string]Scenario) []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select picks scenarios by name; no names selects all of them in name order
func Select(scenarios map[string]Scenario, names []string) ([]Scenario, error) {
	if len(names) == 0 {
		names = Names(scenarios)
	}
	selected := make([]Scenario, 0, len(names))
	for _, name := range names {
		sc, ok := scenarios[name]
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q (available: %v)", name, Names(scenarios))
		}
		selected = append(selected, sc)
	}
	return selected, nil
}
