package services

import (
	"welldata/internal/operations"
)

// Session errors. Validation errors leave the session untouched and start
// no job.
var (
	// ErrBusy is returned when a job is started while another one runs
	ErrBusy = operations.ErrJobRunning

	ErrEmptyPath   = operations.NewValidationError("no file selected")
	ErrNoDataset   = operations.NewValidationError("no workbook loaded")
	ErrNoStartYear = operations.NewValidationError("choose a start year")
	ErrNoWells     = operations.NewValidationError("choose at least one well")
	ErrUnknownYear = operations.NewValidationError("year is not in the loaded workbook")
	ErrUnknownWell = operations.NewValidationError("well is not in the loaded workbook")
)
