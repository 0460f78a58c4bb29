package interfaces

import "iso2_automation/domain/entities"

// ReportStore keeps the history of smoke runs
type ReportStore interface {
	// SaveReport appends a run report
	SaveReport(report entities.Report) error

	// LoadReports returns stored reports, oldest first
	LoadReports() ([]entities.Report, error)
}
