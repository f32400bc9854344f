package firewall

import (
	"context"
)

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=firewall_client_mock.go --case=underscore --with-expecter
type Client interface {
	// ApplyRules performs one mutation call against the firewall
	// endpoint. The result carries the remote body verbatim whenever an
	// HTTP response arrived, even alongside a non-nil error.
	ApplyRules(ctx context.Context, request MutationRequest) (*MutationResult, error)
}
