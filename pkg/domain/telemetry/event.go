package telemetry

import "time"

const (
	EventTypeReconcileRun = "reconcile.run"
	EventTypeDispatch     = "firewall.dispatch"
)

// Event is the unit handed to exporters. Exactly one of the payload
// pointers is set, selected by Type.
type Event struct {
	Type      string         `json:"type"`
	CreatedAt time.Time      `json:"created_at"`
	Run       *RunEvent      `json:"run,omitempty"`
	Dispatch  *DispatchEvent `json:"dispatch,omitempty"`
}

// RunEvent summarizes one reconciliation run.
type RunEvent struct {
	RunID            string `json:"run_id"`
	Status           string `json:"status"`
	RangesAdded      int    `json:"ranges_added"`
	RangesRemoved    int    `json:"ranges_removed"`
	GroupsDispatched int    `json:"groups_dispatched"`
	GroupsFailed     int    `json:"groups_failed"`
	Unmatched        int    `json:"unmatched"`
	DurationMs       int64  `json:"duration_ms"`
}

// DispatchEvent describes one outbound firewall mutation attempt.
type DispatchEvent struct {
	RunID          string `json:"run_id,omitempty"`
	OfferingType   string `json:"offering_type"`
	OfferingName   string `json:"offering_name"`
	SubscriptionID string `json:"subscription_id"`
	ResourceGroup  string `json:"resource_group"`
	Action         string `json:"action"`
	RuleCount      int    `json:"rule_count"`
	Succeeded      bool   `json:"succeeded"`
	DurationMs     int64  `json:"duration_ms"`
}

func NewRunEvent(run RunEvent) Event {
	return Event{Type: EventTypeReconcileRun, CreatedAt: time.Now(), Run: &run}
}

func NewDispatchEvent(dispatch DispatchEvent) Event {
	return Event{Type: EventTypeDispatch, CreatedAt: time.Now(), Dispatch: &dispatch}
}
