package tamper_monitor

// Statuses produced by the simulator. The manual form accepts any other text too.
const (
	StatusOK     = "OK"
	StatusWarn   = "WARNING"
	StatusTamper = "TAMPER DETECTED"
)

const (
	// HistoryCap is the maximum number of events kept in the history.
	HistoryCap = 200

	// DefaultStorageKey is the key the history blob is stored under.
	DefaultStorageKey = "tamper_history_v1"

	// ExportFileName is the name offered for CSV downloads.
	ExportFileName = "tamper_history.csv"

	// TamperNote is attached to simulated TAMPER DETECTED events.
	TamperNote = "Tamper pattern detected"
)

// Severity maps a status to the chart score: OK 0, WARNING 1, TAMPER DETECTED 2.
// Unknown statuses score 0.
func Severity(status string) int {
	switch status {
	case StatusTamper:
		return 2
	case StatusWarn:
		return 1
	default:
		return 0
	}
}
