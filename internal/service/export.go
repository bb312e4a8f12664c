package service

import (
	"context"
	"encoding/csv"
	"errors"
	"io"

	"tamper_monitor/internal/repository"
)

// ErrEmptyHistory is returned when there is nothing to export.
var ErrEmptyHistory = errors.New("no records to export")

var csvHeader = []string{"timestamp", "status", "value", "note", "resolved"}

type ExportService struct {
	history repository.HistoryRepo
}

func NewExportService(history repository.HistoryRepo) *ExportService {
	return &ExportService{history: history}
}

// ExportCSV writes the full, unfiltered history and returns the number of
// data rows written.
func (s *ExportService) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	all := s.history.Load(ctx)
	if len(all) == 0 {
		return 0, ErrEmptyHistory
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, err
	}
	for i, e := range all {
		resolved := "0"
		if e.Resolved {
			resolved = "1"
		}
		if err := cw.Write([]string{e.Ts, e.Status, e.Value, e.Note, resolved}); err != nil {
			return i, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}
	return len(all), nil
}
