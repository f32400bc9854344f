package request

import "fmt"

type RegisterSubscriptionRequest struct {
	OfferingType   string `json:"offering_type"`
	OfferingName   string `json:"offering_name"`
	SubscriptionID string `json:"subscription_id"`
	ResourceGroup  string `json:"resource_group"`
	Component      string `json:"component"`
	Region         string `json:"region"`
}

func (r *RegisterSubscriptionRequest) Validate() error {
	if r.OfferingType != "sql" && r.OfferingType != "storage" {
		return fmt.Errorf("offering_type must be 'sql' or 'storage'")
	}
	if r.OfferingName == "" {
		return fmt.Errorf("offering_name is required")
	}
	if r.SubscriptionID == "" {
		return fmt.Errorf("subscription_id is required")
	}
	if r.ResourceGroup == "" {
		return fmt.Errorf("resource_group is required")
	}
	if r.Component == "" {
		return fmt.Errorf("component is required")
	}
	if r.Region == "" {
		return fmt.Errorf("region is required")
	}
	return nil
}
