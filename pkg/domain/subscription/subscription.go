package subscription

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OfferingType selects which firewall family the mutation endpoint
// drives for a subscribed resource.
type OfferingType string

const (
	OfferingSQL     OfferingType = "sql"
	OfferingStorage OfferingType = "storage"
)

func (t OfferingType) Valid() bool {
	return t == OfferingSQL || t == OfferingStorage
}

// Entry subscribes one downstream firewall to the ranges of a
// (component, region) scope. The four identity fields name the firewall;
// several entries may share the same scope and one firewall may appear
// under several scopes.
type Entry struct {
	ID             uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	OfferingType   OfferingType `json:"offering_type" gorm:"index:idx_subscription_identity,unique"`
	OfferingName   string       `json:"offering_name" gorm:"index:idx_subscription_identity,unique"`
	SubscriptionID string       `json:"subscription_id" gorm:"index:idx_subscription_identity,unique"`
	ResourceGroup  string       `json:"resource_group" gorm:"index:idx_subscription_identity,unique"`
	Component      string       `json:"component" gorm:"index:idx_subscription_scope;index:idx_subscription_identity,unique"`
	Region         string       `json:"region" gorm:"index:idx_subscription_scope;index:idx_subscription_identity,unique"`
	CreatedAt      time.Time    `json:"created_at"`
}

func (e Entry) TableName() string {
	return "public.firewall_subscriptions"
}

// Scope is the (component, region) pair ranges are matched on.
type Scope struct {
	Component string `json:"component"`
	Region    string `json:"region"`
}

func (e Entry) Scope() Scope {
	return Scope{Component: e.Component, Region: e.Region}
}

func (e Entry) Validate() error {
	if !e.OfferingType.Valid() {
		return fmt.Errorf("offering_type %q: must be 'sql' or 'storage'", e.OfferingType)
	}
	if e.OfferingName == "" {
		return fmt.Errorf("offering_name is required")
	}
	if e.SubscriptionID == "" {
		return fmt.Errorf("subscription_id is required")
	}
	if e.ResourceGroup == "" {
		return fmt.Errorf("resource_group is required")
	}
	if e.Component == "" {
		return fmt.Errorf("component is required")
	}
	if e.Region == "" {
		return fmt.Errorf("region is required")
	}
	return nil
}
