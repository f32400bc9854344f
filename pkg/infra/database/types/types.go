package types

import (
	"database/sql/driver"
	"fmt"

	"github.com/lib/pq"
)

// IPRuleArray stores the exact rule strings of a dispatch as a postgres
// text[] column, so the audit trail keeps what was sent rather than a
// re-rendering of it.
type IPRuleArray []string

func (a IPRuleArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return nil, nil
	}
	return pq.Array([]string(a)).Value()
}

func (a *IPRuleArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}

	var strs []string
	if err := pq.Array(&strs).Scan(value); err != nil {
		return fmt.Errorf("failed to scan ip rule array: %w", err)
	}

	*a = strs
	return nil
}
