// Package modeladapter defines the contract for single-prompt LLM completion
// clients and the shared pieces provider adapters build on.
//
// It contains:
//   - [Completer] interface and the embeddable [ModelAdapter] base with HTTP helpers, auth, and custom headers
//   - typed errors: [ErrMissingCredential], [RemoteCallError], [StatusError], [RateLimitError]
//   - rate limit header parsing for display
//   - [github.com/germanamz/anmd/pkg/modeladapter/usage] for token usage accounting
//
// Nothing in this package retries. A failed call is returned to the caller
// as-is, wrapped in a [RemoteCallError].
package modeladapter
