// Package exporter writes selected well records back to disk.
//
// WorkbookExporter produces an xlsx file with one worksheet per well. Sheet
// names come from SanitizeSheetName; the header row repeats the ingestion
// headers so the output can be loaded again. Timestamps are written as text
// in the configured layout and missing values leave the cell blank.
//
// CSVWriter produces a single flat CSV file with the same columns plus the
// sheet year.
//
// Example usage:
//
//	exp := exporter.NewWorkbookExporter(cfg.Export, parser.Columns(), logger)
//	sel := dataprocessing.Filter(ds.Records, 2021, dataprocessing.WellSet(wells))
//	msg, err := exp.Export(ctx, "wells.xlsx", sel, sink)
package exporter
