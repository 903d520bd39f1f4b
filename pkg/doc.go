// Package pkg provides the libraries behind chouse, a client for the UK
// company registry information API.
//
// # Overview
//
// A lookup fetches a company profile and inlines every resource listed in
// its "links" member (officers, filing history, charges, ...) under the
// relation's name. The pkg directory is organized into these areas:
//
//  1. [integrations/companieshouse] - The registry client (lookup, search, fetch)
//  2. [integrations] - Shared authenticated HTTP client with response caching
//  3. [record] - Insertion-ordered JSON records
//  4. [cache] - Cache backends (null, file, redis)
//  5. [archive] - MongoDB persistence for looked-up records
//  6. [errors], [observability], [buildinfo] - Coded errors, hooks, version info
//
// # Data Flow
//
//	GET /company/{id}
//	         ↓
//	    [record] package (ordered decode)
//	         ↓
//	    links expanded via [integrations/companieshouse]
//	         ↓
//	    JSON output, or [archive] for storage
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/chouse/pkg/integrations/companieshouse"
//	)
//
//	client := companieshouse.NewClient(apiKey)
//	company, err := client.LookupByID(context.Background(), "00000006")
//	if err != nil {
//	    return err
//	}
//	if company.IsEmpty() {
//	    // unknown company
//	}
//
// Search runs a lookup for every hit, in API order:
//
//	results, err := client.SearchByName(ctx, "test ltd")
//
// # Caching
//
// Responses are not cached unless a backend is passed with
// [companieshouse.WithCache]. Keys are scoped by a fingerprint of the API
// key, so two keys sharing a backend never see each other's responses:
//
//	backend, _ := cache.NewFileCache(dir)
//	client := companieshouse.NewClient(apiKey,
//	    companieshouse.WithCache(backend, 24*time.Hour),
//	)
//
// # Errors
//
// Every failure carries an [errors.Code]. Upstream 4xx/5xx responses are
// [errors.UpstreamError] values that keep the status and body; use
// [integrations.IsStatus] or [errors.GetCode] to branch on them.
//
// [integrations/companieshouse]: https://pkg.go.dev/github.com/matzehuels/chouse/pkg/integrations/companieshouse
// [integrations]: https://pkg.go.dev/github.com/matzehuels/chouse/pkg/integrations
// [record]: https://pkg.go.dev/github.com/matzehuels/chouse/pkg/record
// [cache]: https://pkg.go.dev/github.com/matzehuels/chouse/pkg/cache
// [archive]: https://pkg.go.dev/github.com/matzehuels/chouse/pkg/archive
// [errors]: https://pkg.go.dev/github.com/matzehuels/chouse/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/chouse/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/chouse/pkg/buildinfo
// [companieshouse.WithCache]: https://pkg.go.dev/github.com/matzehuels/chouse/pkg/integrations/companieshouse#WithCache
// [errors.Code]: https://pkg.go.dev/github.com/matzehuels/chouse/pkg/errors#Code
// [errors.UpstreamError]: https://pkg.go.dev/github.com/matzehuels/chouse/pkg/errors#UpstreamError
// [integrations.IsStatus]: https://pkg.go.dev/github.com/matzehuels/chouse/pkg/integrations#IsStatus
// [errors.GetCode]: https://pkg.go.dev/github.com/matzehuels/chouse/pkg/errors#GetCode
package pkg
