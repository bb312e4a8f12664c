package handlers

import (
	"context"
	"io"
	"time"

	"tamper_monitor/internal/models"
	"tamper_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockEventLog struct {
	events     []models.Event
	rows       []service.TableRow
	addErr     error
	resolveOK  bool
	resolveErr error
	deleteErr  error

	lastFilter  service.TableFilter
	lastEntry   service.ManualEntry
	lastResolve string
	lastDelete  string
	addCalls    int
}

func (m *mockEventLog) List(ctx context.Context, f service.TableFilter) []models.Event {
	m.lastFilter = f
	return m.events
}
func (m *mockEventLog) Rows(ctx context.Context, f service.TableFilter) []service.TableRow {
	m.lastFilter = f
	return m.rows
}
func (m *mockEventLog) Resolve(ctx context.Context, id string) (bool, error) {
	m.lastResolve = id
	return m.resolveOK, m.resolveErr
}
func (m *mockEventLog) Delete(ctx context.Context, id string) error {
	m.lastDelete = id
	return m.deleteErr
}
func (m *mockEventLog) AddManual(ctx context.Context, in service.ManualEntry, onAdded func(models.Event)) (models.Event, error) {
	m.addCalls++
	m.lastEntry = in
	if m.addErr != nil {
		return models.Event{}, m.addErr
	}
	ev := models.Event{ID: "ev_manual", Ts: "2024-01-01T00:00:00.000Z", Status: in.Status, Value: in.Value, Note: in.Note}
	if onAdded != nil {
		onAdded(ev)
	}
	return ev, nil
}

type mockSimulator struct {
	running      bool
	genErr       error
	lastInterval time.Duration
	startCalls   int
	stopCalls    int
	genCalls     int
}

func (m *mockSimulator) GenerateOne(ctx context.Context) (models.Event, error) {
	m.genCalls++
	if m.genErr != nil {
		return models.Event{}, m.genErr
	}
	return models.Event{ID: "ev_sim", Status: "OK", Value: "1.0"}, nil
}
func (m *mockSimulator) Start(interval time.Duration) bool {
	m.startCalls++
	m.lastInterval = interval
	if m.running {
		return false
	}
	m.running = true
	return true
}
func (m *mockSimulator) Stop() bool {
	m.stopCalls++
	if !m.running {
		return false
	}
	m.running = false
	return true
}
func (m *mockSimulator) Running() bool { return m.running }

type mockCharts struct {
	data service.ChartData
}

func (m *mockCharts) Chart(ctx context.Context) service.ChartData { return m.data }

type mockExporter struct {
	csv string
	err error
}

func (m *mockExporter) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	_, err := io.WriteString(w, m.csv)
	return 1, err
}

// ---- Shared Test Helpers ----

type mocks struct {
	log      *mockEventLog
	sim      *mockSimulator
	charts   *mockCharts
	export   *mockExporter
	notifier *service.Notifier
}

func newMocks() *mocks {
	return &mocks{
		log:      &mockEventLog{},
		sim:      &mockSimulator{},
		charts:   &mockCharts{},
		export:   &mockExporter{},
		notifier: service.NewNotifier(),
	}
}

func (m *mocks) service() *service.Service {
	return &service.Service{
		EventLog:      m.log,
		Simulator:     m.sim,
		Charts:        m.charts,
		Exporter:      m.export,
		Notifications: m.notifier,
	}
}

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil)
	return h.InitRoutes()
}
