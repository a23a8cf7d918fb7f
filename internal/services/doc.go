// Package services holds the observer side of the application.
//
// A Session owns the loaded dataset, the user's start year and well
// selection, and the single background job that may be running. It starts
// jobs through an operations.Runner and learns about their progress only by
// draining the job mailbox in Tick, which never blocks:
//
//	session := services.NewSession(runner, parser, workbookExporter, logger)
//	session.Load(ctx, "field.xlsx")
//	for session.Busy() {
//	    time.Sleep(cfg.Jobs.PollInterval)
//	    for _, msg := range session.Tick() {
//	        render(msg)
//	    }
//	}
//
// Both the CLI and the HTTP server drive the same Session; the server also
// subscribes its WebSocket hub to the applied messages.
package services
