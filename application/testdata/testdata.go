// Package testdata generates the unique names and emails tests use to stay out of
// each other's way on a shared backend.
package testdata

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"iso2_automation/domain/entities"
)

const (
	alphabet      = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	stampLayout   = "20060102_150405"
	DefaultDomain = "test.com"
)

// RandomString returns n random letters and digits
func RandomString(n int) string {
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		sb.WriteByte(alphabet[rand.Intn(len(alphabet))])
	}
	return sb.String()
}

// UniqueName returns prefix_<timestamp>_<suffix>. The suffix keeps names distinct
// between parallel tests started in the same second.
func UniqueName(prefix string) string {
	if prefix == "" {
		prefix = "test"
	}
	return fmt.Sprintf("%s_%s_%s", prefix, time.Now().Format(stampLayout), shortID())
}

// UniqueEmail returns prefix.<unix>.<suffix>@domain
func UniqueEmail(prefix, domain string) string {
	if prefix == "" {
		prefix = "test"
	}
	if domain == "" {
		domain = DefaultDomain
	}
	return fmt.Sprintf("%s.%d.%s@%s", strings.ToLower(prefix), time.Now().Unix(), shortID(), domain)
}

// Email returns username@test.com, with a random username when empty
func Email(username string) string {
	if username == "" {
		username = RandomString(8)
	}
	return username + "@" + DefaultDomain
}

// FormatDate formats now with layout, "2006-01-02" when empty
func FormatDate(layout string) string {
	if layout == "" {
		layout = time.DateOnly
	}
	return time.Now().Format(layout)
}

// FormatDateTime formats now with layout, "2006-01-02 15:04:05" when empty
func FormatDateTime(layout string) string {
	if layout == "" {
		layout = time.DateTime
	}
	return time.Now().Format(layout)
}

// AdminUser is the standard Add User form: Test Admin with a phone, notifications on
// and no ownership, under a fresh email.
func AdminUser(prefix, domain string) entities.AdminUser {
	return entities.AdminUser{
		FirstName:            "Test",
		LastName:             "Admin",
		Email:                UniqueEmail(prefix, domain),
		Phone:                entities.Ptr("(555) 123-4567"),
		NotificationsEnabled: entities.Ptr(true),
		IsOwner:              entities.Ptr(false),
	}
}

// MinimalAdminUser fills only the required fields
func MinimalAdminUser(prefix, domain string) entities.AdminUser {
	return entities.AdminUser{
		FirstName: "Minimal",
		LastName:  "User",
		Email:     UniqueEmail(prefix, domain),
	}
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
