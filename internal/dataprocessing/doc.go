// Package dataprocessing turns field workbooks into typed well records and
// selects the records to export.
//
// # Architecture
//
// The package is organized into four parts:
//
// 1. Workbook: a read-only view of an xlsx file that classifies every cell
// into a closed set of kinds (see Cell)
// 2. Columns: resolves header text to column positions per sheet
// 3. Parser: walks the year sheets and builds the Dataset
// 4. Transform: filters by start year and wells, then orders by well and time
//
// # Usage
//
//	parser := dataprocessing.NewParser(cfg.Ingest, logger)
//	msg, err := parser.Parse(ctx, "field.xlsx", sink)
//	if err != nil {
//	    return err
//	}
//	sel := dataprocessing.Filter(msg.Dataset.Records, 2021, dataprocessing.WellSet(wells))
//
// # Year sheets
//
// Only sheets whose name is a base-10 integer are read. The first row holding
// a non-empty cell is the header; the well name and date columns are
// required, the rest are optional. A sheet without the required columns is
// skipped. A year sheet without any non-empty cell fails the whole ingestion.
//
// # Error Handling
//
// Fatal conditions are returned as *operations.OperationError of type
// fatal. Cells that cannot be coerced never fail: the row is dropped when
// the well name is unusable, and other fields become nil.
package dataprocessing
