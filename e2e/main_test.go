//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"iso2_automation/application/pages"
	"iso2_automation/domain/entities"
	"iso2_automation/domain/interfaces"
	"iso2_automation/infrastructure/browser"
	"iso2_automation/infrastructure/config"
	"iso2_automation/infrastructure/logging"
	"iso2_automation/infrastructure/storage"
)

var (
	cfg      *config.Config
	logger   *logrus.Logger
	launcher *browser.Launcher // single browser, each test gets its own context
	startErr error

	// authenticated storage state shared by tests that only need a signed in user
	authState struct {
		sync.Mutex
		path string
	}
)

func TestMain(m *testing.M) {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	var closeLog func() error
	logger, closeLog, err = logging.New(cfg)
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	launcher = browser.NewLauncher(cfg, logger)
	if startErr = launcher.Start(); startErr != nil {
		logger.Warnf("browser tests will be skipped: %v", startErr)
	}

	code := m.Run()

	_ = launcher.Close()
	_ = os.Remove(sharedStatePath())
	_ = closeLog()
	os.Exit(code)
}

// suite is the per-test context: one browser session plus the settings the pages need
type suite struct {
	t       *testing.T
	ctx     context.Context
	cfg     *config.Config
	driver  interfaces.Driver
	session interfaces.Session
}

// newSuite opens a fresh, signed out session. Teardown hands the test outcome to the
// session, which keeps a screenshot and trace only when the test failed.
func newSuite(t *testing.T) *suite {
	return openSuite(t, "")
}

// newAuthedSuite opens a signed in session. The first caller signs in and saves the
// storage state, later callers start from it.
func newAuthedSuite(t *testing.T) *suite {
	authState.Lock()
	path := authState.path
	authState.Unlock()
	if path != "" {
		return openSuite(t, path)
	}

	s := openSuite(t, "")
	s.signIn()

	authState.Lock()
	defer authState.Unlock()
	if authState.path == "" {
		saver, ok := s.session.(interface{ SaveState(string) error })
		if ok {
			if err := saver.SaveState(sharedStatePath()); err != nil {
				t.Logf("signed in state not shared: %v", err)
			} else {
				authState.path = sharedStatePath()
			}
		}
	}
	return s
}

func openSuite(t *testing.T, statePath string) *suite {
	t.Helper()
	if startErr != nil {
		t.Skipf("playwright not available: %v", startErr)
	}

	started := time.Now()
	var (
		sess interfaces.Session
		err  error
	)
	if statePath != "" {
		sess, err = launcher.NewSessionFromState(t.Context(), t.Name(), statePath)
	} else {
		sess, err = launcher.NewSession(t.Context(), t.Name())
	}
	require.NoError(t, err, "open browser session")

	t.Cleanup(func() {
		artifacts, err := sess.Close(entities.TestResult{
			Name:       t.Name(),
			Failed:     t.Failed(),
			StartedAt:  started,
			FinishedAt: time.Now(),
		})
		if err != nil {
			t.Logf("session teardown: %v", err)
		}
		if !artifacts.Empty() {
			t.Logf("failure artifacts: screenshot=%q trace=%q video=%q", artifacts.Screenshot, artifacts.Trace, artifacts.Video)
		}
	})

	return &suite{t: t, ctx: t.Context(), cfg: cfg, driver: sess.Driver(), session: sess}
}

func sharedStatePath() string {
	return storage.StatePath(filepath.Join(cfg.StateDir, "e2e"))
}

// requireAuthMode skips tests written for the other login contract
func (s *suite) requireAuthMode(mode entities.AuthMode) {
	s.t.Helper()
	if s.cfg.AuthMode != mode {
		s.t.Skipf("AUTH_MODE is %s, test needs %s", s.cfg.AuthMode, mode)
	}
}

func (s *suite) signIn() {
	s.t.Helper()
	auth, err := pages.NewAuthenticator(s.driver, s.cfg, logger)
	require.NoError(s.t, err)
	require.NoError(s.t, auth.Authenticate(s.ctx), "sign in")
}

func (s *suite) authenticator() pages.Authenticator {
	auth, err := pages.NewAuthenticator(s.driver, s.cfg, logger)
	require.NoError(s.t, err)
	return auth
}

func (s *suite) emailLogin() *pages.EmailLogin {
	return pages.NewEmailLogin(s.driver, s.cfg, logger)
}

func (s *suite) credentialLogin() *pages.CredentialLogin {
	return pages.NewCredentialLogin(s.driver, s.cfg, logger)
}

func (s *suite) organizations() *pages.Organizations {
	return pages.NewOrganizations(s.driver, s.cfg, logger)
}

func (s *suite) permissions() *pages.Permissions {
	return pages.NewPermissions(s.driver, s.cfg, logger)
}

func (s *suite) visualization() *pages.Visualization {
	return pages.NewVisualization(s.driver, s.cfg, logger)
}

func (s *suite) userTypes() *pages.UserType {
	return pages.NewUserType(s.driver, s.cfg, logger)
}

// openFirstOrganization lands on the detail page of the first organization in the list
func (s *suite) openFirstOrganization() *pages.Organizations {
	s.t.Helper()
	p := s.organizations()
	require.NoError(s.t, p.NavigateToOrganizations(s.ctx))
	require.NoError(s.t, p.VerifyOrganizationsPage(s.ctx))
	require.NoError(s.t, p.OpenFirstOrganization(s.ctx))
	return p
}
