package firewall

// MutationRequest is the wire payload the mutation endpoint expects.
// Field names are part of the contract and must not change.
type MutationRequest struct {
	SubscriptionID string   `json:"subscriptionId"`
	ServiceType    string   `json:"serviceType"`
	ServiceName    string   `json:"serviceName"`
	ResourceGroup  string   `json:"resourceGroup"`
	Action         string   `json:"action"`
	IPRules        []string `json:"ipRules"`
}

// MutationResult captures what the endpoint answered. The body is kept
// as an opaque string; no schema is imposed on it beyond the status.
type MutationResult struct {
	StatusCode int
	Body       string
}
