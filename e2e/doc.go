// Package e2e drives the admin application through a real browser. The tests are behind the
// e2e build tag and read the same settings as the CLI (.env, CONFIG_FILE, environment):
//
//	go test -tags e2e ./e2e/...
//
// Tests are organized by feature:
//   - main_test.go: TestMain, the per-test suite and shared helpers
//   - login_test.go: email + code and credential sign in, logout
//   - admin_users_test.go: the Add User modal inside an organization
//   - settings_test.go: permissions and visualization per user type
//   - user_types_test.go: user type create, edit and delete
package e2e
