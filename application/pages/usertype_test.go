package pages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iso2_automation/domain/entities"
	"iso2_automation/domain/errs"
	"iso2_automation/infrastructure/logging"
)

// userTypeApp keeps a table of user types behind the fake page
type userTypeApp struct {
	t       *testing.T
	d       *fakeDriver
	p       *UserType
	editing string
}

func newUserTypeApp(t *testing.T) *userTypeApp {
	t.Helper()
	d := newFakeDriver()
	a := &userTypeApp{t: t, d: d, p: NewUserType(d, testConfig(), logging.Discard())}
	d.show(CreateUserTypeButton.Selector)
	d.show(UserTypeTable.Selector)
	d.on("click", CreateUserTypeButton.Selector, func() {
		a.editing = ""
		a.openForm()
	})
	d.on("click", SaveButton.Selector, func() {
		name := d.node(UserTypeNameInput.Selector).value
		if name == "" {
			return
		}
		if a.editing != "" {
			a.removeRow(a.editing)
		}
		a.addRow(name)
		a.closeForm()
		d.show(SuccessMessage.Selector).text = "User type saved successfully"
	})
	d.on("click", CancelButton.Selector, a.closeForm)
	return a
}

func (a *userTypeApp) locators(name string) (row, edit, del entities.Locator) {
	var err error
	row, err = a.p.row(name)
	require.NoError(a.t, err)
	edit, err = a.p.rowAction(name, EditButton)
	require.NoError(a.t, err)
	del, err = a.p.rowAction(name, DeleteButton)
	require.NoError(a.t, err)
	return row, edit, del
}

func (a *userTypeApp) addRow(name string) {
	row, edit, del := a.locators(name)
	a.d.show(row.Selector).text = name
	a.d.show(edit.Selector)
	a.d.show(del.Selector)
	a.d.on("click", edit.Selector, func() {
		a.editing = name
		a.openForm()
	})
	a.d.on("click", del.Selector, func() { a.removeRow(name) })
}

func (a *userTypeApp) removeRow(name string) {
	row, edit, del := a.locators(name)
	delete(a.d.nodes, row.Selector)
	delete(a.d.nodes, edit.Selector)
	delete(a.d.nodes, del.Selector)
}

func (a *userTypeApp) openForm() {
	for _, loc := range []entities.Locator{UserTypeNameInput, UserTypeDescriptionInput, SaveButton, CancelButton} {
		a.d.show(loc.Selector)
	}
}

func (a *userTypeApp) closeForm() {
	a.d.hide(UserTypeNameInput.Selector)
	a.d.hide(UserTypeDescriptionInput.Selector)
}

func TestUserType_CRUDRoundTrip(t *testing.T) {
	app := newUserTypeApp(t)
	p := app.p
	ctx := context.Background()

	require.NoError(t, p.CreateUserType(ctx, "Regional Manager", "Manages one region"))
	assert.True(t, p.IsUserTypeVisible(ctx, "Regional Manager"))
	require.NoError(t, p.VerifyUserTypeInTable(ctx, "Regional Manager"))
	msg, err := p.GetSuccessMessage(ctx)
	require.NoError(t, err)
	assert.Contains(t, msg, "success")

	require.NoError(t, p.EditUserType(ctx, "Regional Manager", "Area Lead", "Leads one area"))
	assert.False(t, p.IsUserTypeVisible(ctx, "Regional Manager"))
	assert.True(t, p.IsUserTypeVisible(ctx, "Area Lead"))
	assert.Contains(t, app.d.recorded("fill"), "fill "+UserTypeDescriptionInput.Selector+"=Leads one area")

	require.NoError(t, p.DeleteUserType(ctx, "Area Lead"))
	assert.False(t, p.IsUserTypeVisible(ctx, "Area Lead"))
	require.NoError(t, p.VerifyUserTypeNotInTable(ctx, "Area Lead"))
}

func TestUserType_Cancel(t *testing.T) {
	app := newUserTypeApp(t)
	p := app.p
	ctx := context.Background()

	require.NoError(t, p.ClickCreateUserType(ctx))
	require.NoError(t, p.FillUserTypeForm(ctx, "Discarded", "never saved"))
	require.NoError(t, p.ClickCancel(ctx))
	assert.False(t, p.IsUserTypeVisible(ctx, "Discarded"))
	assert.False(t, p.IsVisible(ctx, UserTypeNameInput))
}

func TestUserType_Errors(t *testing.T) {
	app := newUserTypeApp(t)
	p := app.p
	ctx := context.Background()

	err := p.DeleteUserType(ctx, "Ghost")
	assert.True(t, errs.Is(err, errs.Interaction), "no row, nothing to click")

	err = p.EditUserType(ctx, "", "x", "y")
	assert.True(t, errs.Is(err, errs.InvalidArgument))
	assert.False(t, p.IsUserTypeVisible(ctx, ""))

	require.NoError(t, p.ClickCreateUserType(ctx))
	err = p.FillUserTypeForm(ctx, " ", "blank name")
	assert.True(t, errs.Is(err, errs.InvalidArgument))

	app.d.on("click", SaveButton.Selector, func() {})
	err = p.CreateUserType(ctx, "Stuck", "form never closes")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.Timeout))
	assert.Contains(t, err.Error(), `create user type "Stuck"`)
}
