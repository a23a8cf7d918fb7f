// Package files finds workbooks and exports on disk.
//
// Discovery lists the .xlsx workbooks a user can load and the .xlsx and .csv
// files previously exported, newest first. Relative directories are resolved
// against the discovery's base path.
//
//	discovery := files.NewDiscovery(paths.ExecutableDir)
//	workbooks, err := discovery.FindWorkbooks("/data/field")
//	latest, ok := files.GetLatestFile(workbooks)
package files
