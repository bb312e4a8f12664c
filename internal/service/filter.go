package service

// TableFilter narrows the history table. Zero values disable each stage.
type TableFilter struct {
	Q      string // case-insensitive substring of status+value+note+timestamp
	Status string // exact status match
	Limit  int    // max rows; 0 means all
}

// ManualEntry is the payload of the manual-add form.
type ManualEntry struct {
	Status string
	Value  string // blank → random 0–100
	Note   string
}

// TableRow is one rendered line of the history table.
type TableRow struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
	Value     string `json:"value"`
	Note      string `json:"note"`
	Resolved  bool   `json:"resolved"`
	Severity  int    `json:"severity"`
}
