package firewall

import "github.com/autoshield/autoshield/pkg/infra/httpx"

type AzureFunctionClientOption func(*AzureFunctionClient)

// WithHTTPClient swaps the transport. Tests inject an httptest-backed
// client here; the binary injects the shared fasthttp one.
func WithHTTPClient(client httpx.Client) AzureFunctionClientOption {
	return func(c *AzureFunctionClient) {
		if client != nil {
			c.client = client
		}
	}
}

// WithFunctionKey authenticates calls with the function host key. An
// empty key sends no header.
func WithFunctionKey(key string) AzureFunctionClientOption {
	return func(c *AzureFunctionClient) {
		c.functionKey = key
	}
}
