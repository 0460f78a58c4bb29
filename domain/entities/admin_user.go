package entities

import (
	"strings"

	"iso2_automation/domain/errs"
)

// AdminUser is the Add User form data bag. The three strings are required;
// nil optional fields leave the matching control in its current state.
type AdminUser struct {
	FirstName            string  `json:"first_name"`
	LastName             string  `json:"last_name"`
	Email                string  `json:"email"`
	Phone                *string `json:"phone,omitempty"`
	NotificationsEnabled *bool   `json:"notifications_enabled,omitempty"`
	IsOwner              *bool   `json:"is_owner,omitempty"`
}

// Validate checks required fields are present
func (u AdminUser) Validate() error {
	var missing []string
	if strings.TrimSpace(u.FirstName) == "" {
		missing = append(missing, "first_name")
	}
	if strings.TrimSpace(u.LastName) == "" {
		missing = append(missing, "last_name")
	}
	if strings.TrimSpace(u.Email) == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return errs.New(errs.InvalidArgument, "validate admin user", "", "missing "+strings.Join(missing, ", "))
	}
	return nil
}

// FullName is how the users grid renders the name
func (u AdminUser) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Ptr returns a pointer to v, for optional form fields
func Ptr[T any](v T) *T {
	return &v
}
