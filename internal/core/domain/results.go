package domain

// ListResult is one ranked row of the aggregate tally.
type ListResult struct {
	List       string   `json:"list"`
	Category   Category `json:"category"`
	Votes      int64    `json:"votes"`
	Percentage float64  `json:"percentage"`
}

// ResultSet is the ranked per-list totals for one category filter (or
// the whole election). Percentages are shares of TotalVotes and sum to
// 100 whenever TotalVotes is positive.
type ResultSet struct {
	Results    []ListResult `json:"results"`
	TotalVotes int64        `json:"total_votes"`
}

// SystemStats is the system-wide progress and participation snapshot,
// recomputed from stored state on every read.
type SystemStats struct {
	TablesTotal     int     `json:"tables_total"`
	TablesSubmitted int     `json:"tables_submitted"`
	TablesPending   int     `json:"tables_pending"`
	ProgressPercent float64 `json:"progress_percent"`
	VotesTotal      int64   `json:"votes_total"`
	// EstimatedElectorate comes from system config and may be stale;
	// participation is therefore surfaced uncapped and can exceed 100.
	EstimatedElectorate           int64   `json:"estimated_electorate"`
	EstimatedParticipationPercent float64 `json:"estimated_participation_percent"`
}

// StoredValidation is the consistency re-check of an already submitted
// table against its stored acta and vote lines.
type StoredValidation struct {
	TableNumber int           `json:"table_number"`
	Valid       bool          `json:"valid"`
	Errors      []ErrorKind   `json:"errors"`
	Warnings    []WarningKind `json:"warnings"`
	Stats       StoredStats   `json:"stats"`
}

type StoredStats struct {
	EnvelopesReceived          int     `json:"envelopes_received"`
	LocalVotes                 int     `json:"local_votes"`
	ProvincialVotes            int     `json:"provincial_votes"`
	LocalParticipationPct      float64 `json:"local_participation_pct"`
	ProvincialParticipationPct float64 `json:"provincial_participation_pct"`
}
