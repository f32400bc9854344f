package common

import "time"

const (
	RunLockKey = "reconcile:lock"
	LastRunKey = "reconcile:last_run"
	LastRunTTL = 7 * 24 * time.Hour
)
