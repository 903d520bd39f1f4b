// Package integrations provides the shared HTTP layer for registry API clients.
//
// # Overview
//
// Each upstream registry has its own subpackage built on [Client]:
//
//   - [companieshouse]: the UK company-registry information API
//
// # Client Pattern
//
// Registry clients embed [*Client] and add their own decoding:
//
//	ch := companieshouse.NewClient(apiKey)
//	company, err := ch.LookupByID(ctx, "00000006")
//
// [Client] handles:
//   - Default request headers (authentication, content type)
//   - Optional response caching via [cache.Cache]
//   - Status classification: non-2xx answers become [errors.UpstreamError]
//     with the original status and body; transport failures match [ErrNetwork]
//
// Requests are never retried.
//
// [companieshouse]: github.com/matzehuels/chouse/pkg/integrations/companieshouse
// [cache.Cache]: github.com/matzehuels/chouse/pkg/cache.Cache
// [errors.UpstreamError]: github.com/matzehuels/chouse/pkg/errors.UpstreamError
package integrations
