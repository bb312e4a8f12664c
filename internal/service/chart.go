package service

import (
	"context"
	"time"

	"tamper_monitor"
	"tamper_monitor/internal/repository"
)

const (
	chartWindow       = 30
	chartDatasetLabel = "Event severity (0=OK,1=Warn,2=Tamper)"
)

// ChartData is the {labels, datasets} payload a bar-chart widget consumes.
type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

type ChartDataset struct {
	Label string `json:"label"`
	Data  []int  `json:"data"`
}

type ChartService struct {
	history repository.HistoryRepo
	loc     *time.Location
}

func NewChartService(history repository.HistoryRepo, loc *time.Location) *ChartService {
	if loc == nil {
		loc = time.Local
	}
	return &ChartService{history: history, loc: loc}
}

// Chart returns the severity of the newest 30 events, oldest first.
func (s *ChartService) Chart(ctx context.Context) ChartData {
	all := s.history.Load(ctx)
	n := min(len(all), chartWindow)

	labels := make([]string, n)
	values := make([]int, n)
	for i := 0; i < n; i++ {
		e := all[n-1-i]
		labels[i] = displayTimeOfDay(e, s.loc)
		values[i] = tamper_monitor.Severity(e.Status)
	}

	return ChartData{
		Labels:   labels,
		Datasets: []ChartDataset{{Label: chartDatasetLabel, Data: values}},
	}
}
