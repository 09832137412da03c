// Package coincap implements driven.AssetFeed over the CoinCap v2 REST API.
//
// Requests are rate limited client-side with a token bucket, retried on 429
// and 5xx responses, and tagged with an X-Request-Id. When an API key is
// configured it is sent as a bearer token.
package coincap
