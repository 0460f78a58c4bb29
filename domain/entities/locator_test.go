package entities

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"iso2_automation/domain/errs"
)

func TestLocatorTemplate_Bind(t *testing.T) {
	tbl := []struct {
		name    string
		tmpl    LocatorTemplate
		params  map[string]string
		want    string
		wantErr bool
	}{
		{name: "single hole", tmpl: T("row", "#organization-users-grid tr:has-text({email})"),
			params: map[string]string{"email": "a@b.com"}, want: `#organization-users-grid tr:has-text("a@b.com")`},
		{name: "apostrophe survives", tmpl: T("row", "tr:has-text({name})"),
			params: map[string]string{"name": "O'Brien"}, want: `tr:has-text("O'Brien")`},
		{name: "attribute", tmpl: T("perm", "input[data-permission={key}]"),
			params: map[string]string{"key": "create_user"}, want: `input[data-permission="create_user"]`},
		{name: "two holes", tmpl: T("cell", "tr:has-text({row}) td:has-text({col})"),
			params: map[string]string{"row": "r", "col": "c"}, want: `tr:has-text("r") td:has-text("c")`},
		{name: "no holes", tmpl: T("static", "table.user-types"), params: nil, want: "table.user-types"},
		{name: "missing", tmpl: T("row", "tr:has-text({name})"), params: map[string]string{}, wantErr: true},
		{name: "blank", tmpl: T("row", "tr:has-text({name})"), params: map[string]string{"name": "  "}, wantErr: true},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := tt.tmpl.Bind(tt.params)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errs.Is(err, errs.InvalidArgument))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, loc.Selector)
			assert.Equal(t, tt.tmpl.Name, loc.Name)
		})
	}
}

func TestLocatorTemplate_Bind1(t *testing.T) {
	loc, err := T("row", "tr:has-text({name})").Bind1("Manager")
	require.NoError(t, err)
	assert.Equal(t, `tr:has-text("Manager")`, loc.Selector)

	_, err = T("cell", "{a} {b}").Bind1("x")
	assert.Error(t, err)
}

func TestLocator_Within(t *testing.T) {
	row := L("row", `tr:has-text("x")`)
	btn := row.Within(L("edit", "button[data-action='edit']"))
	assert.Equal(t, `tr:has-text("x") button[data-action='edit']`, btn.Selector)
	assert.Equal(t, "edit", btn.Name)
}

func TestLocatorTemplate_Bind_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		value := rapid.StringMatching(`[A-Za-z0-9 '@._-]{1,30}`).Draw(rt, "value")
		loc, err := T("row", "tr:has-text({v})").Bind1(value)
		if strings.TrimSpace(value) == "" {
			if err == nil {
				rt.Fatalf("blank value %q must be rejected", value)
			}
			return
		}
		if err != nil {
			rt.Fatalf("bind %q: %v", value, err)
		}
		quoted := strings.TrimSuffix(strings.TrimPrefix(loc.Selector, "tr:has-text("), ")")
		got, err := strconv.Unquote(quoted)
		if err != nil || got != value {
			rt.Fatalf("value %q did not round-trip through %q", value, loc.Selector)
		}
	})
}

func TestAdminUser_Validate(t *testing.T) {
	ok := AdminUser{FirstName: "Test", LastName: "Admin", Email: "t@bodegaai.com"}
	require.NoError(t, ok.Validate())
	assert.Equal(t, "Test Admin", ok.FullName())

	err := AdminUser{FirstName: "Test"}.Validate()
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.InvalidArgument))
	assert.Contains(t, err.Error(), "last_name, email")
}

func TestToggles_KeysSorted(t *testing.T) {
	tg := Toggles{"publish_content": false, "create_content": true, "edit_content": true}
	assert.Equal(t, []string{"create_content", "edit_content", "publish_content"}, tg.Keys())
}
