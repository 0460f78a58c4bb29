package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"iso2_automation/domain/entities"
	"iso2_automation/domain/errs"
	"iso2_automation/domain/interfaces"
	"iso2_automation/infrastructure/config"
	"iso2_automation/infrastructure/storage"
)

// Step is one named action of a scenario
type Step struct {
	Name string
	Run  func(ctx context.Context, d interfaces.Driver) error
	// SignIn steps are skipped when the session provider hands out signed in sessions
	SignIn bool
}

// Scenario is an ordered list of steps run in one browser session
type Scenario struct {
	Name        string
	Description string
	Steps       []Step
	// SaveState keeps the session cookies after a pass, for NewSessionFromState
	SaveState bool
}

// stateSaver is implemented by sessions that can persist their storage state
type stateSaver interface {
	SaveState(path string) error
}

// signedInProvider is implemented by providers whose sessions start authenticated
type signedInProvider interface {
	SignedIn() bool
}

type Runner struct {
	sessions interfaces.SessionProvider
	store    interfaces.ReportStore
	cfg      *config.Config
	logger   *logrus.Logger
}

// NewRunner - creates a smoke runner
func NewRunner(sessions interfaces.SessionProvider, store interfaces.ReportStore, cfg *config.Config, logger *logrus.Logger) *Runner {
	return &Runner{sessions: sessions, store: store, cfg: cfg, logger: logger}
}

// Run - runs the steps of sc in order, stopping at the first failure. The
// report is stored whatever the outcome.
func (r *Runner) Run(ctx context.Context, sc Scenario) (entities.Report, error) {
	log := r.logger.WithField("scenario", sc.Name)
	report := entities.Report{
		ID:        uuid.NewString(),
		Scenario:  sc.Name,
		Status:    entities.RunRunning,
		Steps:     make([]entities.StepResult, 0, len(sc.Steps)),
		StartedAt: time.Now(),
	}
	sessionName := "smoke_" + sc.Name
	log.Infof("starting run %s", report.ID)

	sess, err := r.sessions.NewSession(ctx, sessionName)
	if err != nil {
		report.Steps = append(report.Steps, failedStep("open session", err, 0))
		r.finish(&report, log)
		return report, fmt.Errorf("failed to open session: %w", err)
	}

	runErr := r.runSteps(ctx, sc, sess.Driver(), &report, log)

	d := sess.Driver()
	title, err := d.Title(context.WithoutCancel(ctx))
	if err != nil {
		log.Debugf("failed to read page title: %v", err)
	}
	report.Page = &entities.PageInfo{URL: d.URL(), Title: title}

	if runErr == nil && sc.SaveState {
		if saver, ok := sess.(stateSaver); ok {
			path := storage.StatePath(r.cfg.StateDir)
			if err := saver.SaveState(path); err != nil {
				log.Warnf("failed to save browser state: %v", err)
			} else {
				log.Infof("browser state saved to %s", path)
			}
		}
	}

	artifacts, closeErr := sess.Close(entities.TestResult{
		Name:       sessionName,
		Failed:     runErr != nil,
		StartedAt:  report.StartedAt,
		FinishedAt: time.Now(),
	})
	report.Artifacts = artifacts
	if runErr != nil {
		report.Status = entities.RunFailed
	}
	r.finish(&report, log)
	return report, errors.Join(runErr, closeErr)
}

func (r *Runner) runSteps(ctx context.Context, sc Scenario, d interfaces.Driver, report *entities.Report, log *logrus.Entry) error {
	signedIn := false
	if p, ok := r.sessions.(signedInProvider); ok {
		signedIn = p.SignedIn()
	}

	for _, step := range sc.Steps {
		select {
		case <-ctx.Done():
			err := fmt.Errorf("run canceled: %w", ctx.Err())
			report.Steps = append(report.Steps, failedStep(step.Name, err, 0))
			return err
		default:
		}

		if step.SignIn && signedIn {
			report.Steps = append(report.Steps, entities.StepResult{Name: step.Name, Passed: true, Skipped: true})
			log.Infof("step %s skipped, session is already signed in", step.Name)
			continue
		}

		start := time.Now()
		err := step.Run(ctx, d)
		elapsed := time.Since(start)
		if err != nil {
			report.Steps = append(report.Steps, failedStep(step.Name, err, elapsed))
			log.Errorf("step %s failed after %s: %v", step.Name, elapsed.Round(time.Millisecond), err)
			return fmt.Errorf("step %s: %w", step.Name, err)
		}
		report.Steps = append(report.Steps, entities.StepResult{Name: step.Name, Passed: true, Duration: elapsed})
		log.Infof("step %s passed in %s", step.Name, elapsed.Round(time.Millisecond))
	}
	return nil
}

func (r *Runner) finish(report *entities.Report, log *logrus.Entry) {
	report.FinishedAt = time.Now()
	if report.Status != entities.RunFailed {
		report.Status = entities.RunPassed
		for _, s := range report.Steps {
			if !s.Passed {
				report.Status = entities.RunFailed
				break
			}
		}
	}
	if err := r.store.SaveReport(*report); err != nil {
		log.Warnf("failed to save run history: %v", err)
	}
	log.Infof("run %s %s in %s", report.ID, report.Status, report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
}

func failedStep(name string, err error, elapsed time.Duration) entities.StepResult {
	return entities.StepResult{
		Name:     name,
		Error:    err.Error(),
		Code:     string(errs.CodeOf(err)),
		Duration: elapsed,
	}
}
