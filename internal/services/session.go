package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"welldata/internal/dataprocessing"
	"welldata/internal/infrastructure"
	"welldata/internal/operations"
	"welldata/pkg/contracts/domain"
	"welldata/pkg/contracts/events"
)

// Status texts shown to the user.
const (
	StatusIdle       = "No file selected"
	StatusStarting   = "Starting..."
	StatusNoYear     = "Choose a year!"
	StatusNoWells    = "Choose wells!"
	statusLoadedFmt  = "Done. Loaded %d records"
	statusSavedFmt   = "Success! File saved: %s"
	statusFailureFmt = "ERROR: %s"
)

// Loader reads a workbook into a Loaded message.
type Loader interface {
	Parse(ctx context.Context, path string, sink events.Sink) (events.Message, error)
}

// Exporter writes a selection and returns a Saved message.
type Exporter interface {
	Export(ctx context.Context, dest string, sel dataprocessing.Selection, sink events.Sink) (events.Message, error)
}

// Listener receives every message the session applies, in order.
type Listener func(events.Message)

// State is a read-only copy of the session for renderers.
type State struct {
	SourcePath    string   `json:"source_path,omitempty"`
	Years         []int    `json:"years"`
	Wells         []string `json:"wells"`
	Records       int      `json:"records"`
	Loaded        bool     `json:"loaded"`
	StartYear     *int     `json:"start_year,omitempty"`
	SelectedWells []string `json:"selected_wells"`
	Busy          bool     `json:"busy"`
	JobID         string   `json:"job_id,omitempty"`
	JobKind       string   `json:"job_kind,omitempty"`
	Global        float64  `json:"global"`
	Local         float64  `json:"local"`
	Status        string   `json:"status"`
	LastError     string   `json:"last_error,omitempty"`
}

// Session is the observer of background jobs and the single owner of the
// loaded dataset and the user's selection. It never blocks on a job: Tick
// drains whatever the current job has produced so far.
type Session struct {
	runner    *operations.Runner
	loader    Loader
	exporters map[string]Exporter
	logger    *slog.Logger

	mu        sync.Mutex
	dataset   *domain.Dataset
	source    string
	startYear *int
	selected  map[string]struct{}
	job       *operations.Job
	jobPath   string
	global    float64
	local     float64
	status    string
	lastError string

	lmu          sync.Mutex
	listeners    map[int]Listener
	nextListener int
}

// NewSession creates an idle session. exporter handles every destination
// unless a more specific one is registered for its extension.
func NewSession(runner *operations.Runner, loader Loader, exporter Exporter, logger *slog.Logger) *Session {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Session{
		runner:    runner,
		loader:    loader,
		exporters: map[string]Exporter{"": exporter},
		logger:    infrastructure.WithComponent(logger, "session"),
		selected:  make(map[string]struct{}),
		status:    StatusIdle,
		listeners: make(map[int]Listener),
	}
}

// RegisterExporter routes destinations ending in ext (for example ".csv")
// to e.
func (s *Session) RegisterExporter(ext string, e Exporter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exporters[strings.ToLower(ext)] = e
}

// Load starts ingesting path. It fails with ErrBusy while another job runs.
func (s *Session) Load(ctx context.Context, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrEmptyPath
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.job != nil {
		return "", ErrBusy
	}
	return s.startLocked(ctx, operations.JobKindLoad, path, LoadTask(s.loader, path)), nil
}

// Replace starts ingesting path even when a job is running. The running job
// is abandoned: its worker runs to completion but nothing it sends is seen.
func (s *Session) Replace(ctx context.Context, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrEmptyPath
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.job != nil {
		s.job.Mailbox().Detach()
		s.logger.InfoContext(ctx, "abandoning running job",
			slog.String("job_id", s.job.ID),
			slog.String("kind", string(s.job.Kind)))
		s.job = nil
	}
	return s.startLocked(ctx, operations.JobKindLoad, path, LoadTask(s.loader, path)), nil
}

// Export starts writing the current selection to dest. A dataset, a start
// year and at least one well are required; the worker gets its own copy of
// the data.
func (s *Session) Export(ctx context.Context, dest string) (string, error) {
	if strings.TrimSpace(dest) == "" {
		return "", ErrEmptyPath
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.job != nil {
		return "", ErrBusy
	}
	if s.dataset == nil {
		s.status = StatusIdle
		return "", ErrNoDataset
	}
	if s.startYear == nil {
		s.status = StatusNoYear
		return "", ErrNoStartYear
	}
	if len(s.selected) == 0 {
		s.status = StatusNoWells
		return "", ErrNoWells
	}

	wells := make(map[string]struct{}, len(s.selected))
	for w := range s.selected {
		wells[w] = struct{}{}
	}
	task := ExportTask(s.exporterFor(dest), s.dataset.Clone(), *s.startYear, wells, dest, s.runner.Tracer())
	return s.startLocked(ctx, operations.JobKindExport, dest, task), nil
}

func (s *Session) exporterFor(dest string) Exporter {
	if e, ok := s.exporters[strings.ToLower(filepath.Ext(dest))]; ok && e != nil {
		return e
	}
	return s.exporters[""]
}

func (s *Session) startLocked(ctx context.Context, kind operations.JobKind, path string, task operations.Task) string {
	job := s.runner.Start(ctx, kind, task)
	s.job = job
	s.jobPath = path
	s.global, s.local = 0, 0
	s.status = StatusStarting
	s.lastError = ""

	s.logger.InfoContext(ctx, "job submitted",
		slog.String("job_id", job.ID),
		slog.String("kind", string(kind)),
		slog.String("path", path))
	return job.ID
}

// Tick drains the current job's mailbox without blocking and applies every
// message in order. After the terminal message the job is forgotten and the
// session becomes idle. The applied messages are returned and forwarded to
// listeners.
func (s *Session) Tick() []events.Message {
	s.mu.Lock()
	if s.job == nil {
		s.mu.Unlock()
		return nil
	}
	job := s.job
	msgs := job.Mailbox().Drain()
	for _, m := range msgs {
		s.applyLocked(m)
		if m.Terminal() {
			job.Mailbox().Detach()
			s.job = nil
			break
		}
	}
	s.mu.Unlock()

	if len(msgs) > 0 {
		s.notify(msgs)
	}
	return msgs
}

func (s *Session) applyLocked(m events.Message) {
	switch m.Type {
	case events.TypeProgress:
		s.global, s.local = m.Global, m.Local
		s.status = m.Text
	case events.TypeLoaded:
		if m.Dataset == nil {
			return
		}
		s.dataset = m.Dataset
		s.source = s.jobPath
		s.global, s.local = 1, 1
		s.status = fmt.Sprintf(statusLoadedFmt, len(m.Dataset.Records))
		s.startYear = nil
		if len(m.Dataset.Years) > 0 {
			y := m.Dataset.Years[0]
			s.startYear = &y
		}
		s.pruneSelectionLocked()
	case events.TypeSaved:
		s.global, s.local = 1, 1
		s.status = fmt.Sprintf(statusSavedFmt, m.Path)
	case events.TypeError:
		s.status = fmt.Sprintf(statusFailureFmt, m.Text)
		s.lastError = m.Text
	}
}

// pruneSelectionLocked drops selected wells absent from the new dataset.
func (s *Session) pruneSelectionLocked() {
	present := dataprocessing.WellSet(s.dataset.Wells)
	for w := range s.selected {
		if _, ok := present[w]; !ok {
			delete(s.selected, w)
		}
	}
}

// SetStartYear selects the first year to export. The year must be one of
// the loaded workbook's years.
func (s *Session) SetStartYear(year int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkYearLocked(year); err != nil {
		return err
	}
	s.startYear = &year
	return nil
}

// ToggleWell adds or removes one well from the selection.
func (s *Session) ToggleWell(well string, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !on {
		delete(s.selected, well)
		return nil
	}
	if err := s.checkWellsLocked([]string{well}); err != nil {
		return err
	}
	s.selected[well] = struct{}{}
	return nil
}

// SetSelection replaces the start year and the selected wells at once.
// Nothing changes when either is invalid.
func (s *Session) SetSelection(startYear int, wells []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkYearLocked(startYear); err != nil {
		return err
	}
	if err := s.checkWellsLocked(wells); err != nil {
		return err
	}
	s.startYear = &startYear
	s.selected = dataprocessing.WellSet(wells)
	return nil
}

// SelectAllWells selects every well of the loaded workbook.
func (s *Session) SelectAllWells() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dataset == nil {
		return ErrNoDataset
	}
	s.selected = dataprocessing.WellSet(s.dataset.Wells)
	return nil
}

// ClearWells empties the selection.
func (s *Session) ClearWells() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{})
}

func (s *Session) checkYearLocked(year int) error {
	if s.dataset == nil {
		return ErrNoDataset
	}
	for _, y := range s.dataset.Years {
		if y == year {
			return nil
		}
	}
	return ErrUnknownYear
}

func (s *Session) checkWellsLocked(wells []string) error {
	if s.dataset == nil {
		return ErrNoDataset
	}
	present := dataprocessing.WellSet(s.dataset.Wells)
	for _, w := range wells {
		if _, ok := present[w]; !ok {
			return ErrUnknownWell
		}
	}
	return nil
}

// Busy reports whether a job is running.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.job != nil
}

// Snapshot copies the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		SourcePath:    s.source,
		Years:         []int{},
		Wells:         []string{},
		SelectedWells: make([]string, 0, len(s.selected)),
		Busy:          s.job != nil,
		Global:        s.global,
		Local:         s.local,
		Status:        s.status,
		LastError:     s.lastError,
	}
	if s.dataset != nil {
		st.Loaded = true
		st.Years = append(st.Years, s.dataset.Years...)
		st.Wells = append(st.Wells, s.dataset.Wells...)
		st.Records = len(s.dataset.Records)
	}
	if s.startYear != nil {
		y := *s.startYear
		st.StartYear = &y
	}
	for w := range s.selected {
		st.SelectedWells = append(st.SelectedWells, w)
	}
	sort.Strings(st.SelectedWells)
	if s.job != nil {
		st.JobID = s.job.ID
		st.JobKind = string(s.job.Kind)
	}
	return st
}

// Subscribe registers fn for every applied message and returns a function
// that removes it. Listeners run on the ticking goroutine and must not
// block.
func (s *Session) Subscribe(fn Listener) func() {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	return func() {
		s.lmu.Lock()
		defer s.lmu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Session) notify(msgs []events.Message) {
	s.lmu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.lmu.Unlock()

	for _, m := range msgs {
		for _, fn := range fns {
			fn(m)
		}
	}
}

// Run ticks every interval until ctx ends.
func (s *Session) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Tick()
		}
	}
}
