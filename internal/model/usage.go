package model

import "time"

// UsageWindow is one {start,end} interval in the usage ledger. Participant is
// empty for space-level windows. A nil EndedAt means the window is still open.
type UsageWindow struct {
	ID          int64      `json:"id,string"`
	Space       string     `json:"space"`
	Participant string     `json:"participant,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
}

// UsageLedger groups a space's windows for the API surface. The ledger is
// persisted independently of the live space record, so it survives deletion.
type UsageLedger struct {
	Space        string                   `json:"space"`
	Windows      []UsageWindow            `json:"windows"`
	Participants map[string][]UsageWindow `json:"participants"`
}
