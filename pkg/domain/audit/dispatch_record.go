package audit

import (
	"time"

	"github.com/autoshield/autoshield/pkg/infra/database/types"
	"github.com/google/uuid"
)

// DispatchRecord is one immutable audit row per dispatch attempt. It is
// written whether the attempt succeeded or not and is never updated.
type DispatchRecord struct {
	ID             uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	RunID          *uuid.UUID        `json:"run_id,omitempty" gorm:"type:uuid;index"`
	OfferingType   string            `json:"offering_type"`
	OfferingName   string            `json:"offering_name"`
	SubscriptionID string            `json:"subscription_id" gorm:"index"`
	ResourceGroup  string            `json:"resource_group"`
	Action         string            `json:"action"`
	IPRules        types.IPRuleArray `json:"ip_rules" gorm:"type:text[]"`
	Succeeded      bool              `json:"succeeded"`
	Response       string            `json:"response"`
	CreatedAt      time.Time         `json:"created_at"`
}

func (r DispatchRecord) TableName() string {
	return "public.dispatch_records"
}
