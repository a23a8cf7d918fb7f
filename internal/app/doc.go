// Package app wires the welldata server together and runs it.
//
// NewApplication builds every component from a config.Config: the ingest
// parser, the workbook and CSV exporters, the session that owns the loaded
// dataset, the websocket hub that streams job progress, and the chi router.
// Serve runs the hub, the session poller and the HTTP server in one errgroup;
// cancelling the context shuts all three down.
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	a, err := app.NewApplication(cfg, nil, nil)
//	if err != nil {
//	    return err
//	}
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	return a.Run(ctx)
//
// NewSession is shared with the command line, which drives the same session
// without a server.
package app
