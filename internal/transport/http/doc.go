// Package http exposes the workbook session over a JSON API built on chi.
//
// Handlers stay thin: they decode and validate the request body, call the
// session and render the result. Failures are rendered as RFC 7807 problem
// documents by the shared error handler.
//
// # Routes
//
//	GET    /api/state            session snapshot
//	POST   /api/load             {"path": "field.xlsx", "replace": false} -> 202 {"job_id"}
//	PUT    /api/selection        {"start_year": 2020, "wells": ["A7"]}
//	POST   /api/selection/all    select every loaded well
//	DELETE /api/selection        clear the well selection
//	POST   /api/export           {"path": "wells.xlsx"} -> 202 {"job_id"}
//	GET    /api/workbooks?dir=   .xlsx files that can be loaded
//	GET    /api/exports          files in the exports directory
//	POST   /api/client-log       browser log forwarding
//	GET    /api/ws               job progress stream
//	GET    /healthz, /livez      health
//	GET    /metrics              Prometheus scrape endpoint
//
// Submitting a job while another is running answers 409; job progress and
// the terminal outcome arrive over the websocket or in /api/state.
package http
