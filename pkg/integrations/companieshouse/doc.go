// Package companieshouse provides a client for the UK company-registry
// information API.
//
// # Overview
//
// The client exposes three operations:
//
//   - [Client.LookupByID]: fetch a company profile and inline its linked
//     sub-resources (officers, filing history, charges, ...)
//   - [Client.SearchByName]: run a name search and look up every hit
//   - [Client.FetchURL]: fetch any registry resource as-is
//
// Responses are returned as [record.Map] values, which keep the key order
// the API used.
//
// # Authentication
//
// Every request carries "Authorization: Basic <base64(apiKey)>". The key is
// encoded on its own, without a "user:" separator, which is what the
// registry accepts.
//
// # Link Expansion
//
// A profile's "links" object maps relation names to resource URLs. Each
// relation other than "self" is fetched and stored under its own name, and
// "links" is removed:
//
//	{"company_name": "TEST LTD", "links": {"self": "/company/00000006", "officers": "/company/00000006/officers"}}
//
// becomes
//
//	{"company_name": "TEST LTD", "officers": {"items": []}}
//
// Expansion is one level deep unless [WithMaxDepth] says otherwise. Deeper
// expansion never follows a URL that is already on the current path.
//
// # Errors
//
// A 4xx answer whose first error code is "company-profile-not-found" makes
// [Client.LookupByID] return an empty record and no error. Every other
// failure is returned unchanged: upstream answers as
// [errors.UpstreamError] with the original status and body, transport
// failures matching [integrations.ErrNetwork]. Nothing is retried.
//
// # Caching
//
// Caching is off by default. [WithCache] enables it; entries are scoped by
// a fingerprint of the API key so different credentials never share them.
//
// [record.Map]: github.com/matzehuels/chouse/pkg/record.Map
// [errors.UpstreamError]: github.com/matzehuels/chouse/pkg/errors.UpstreamError
// [integrations.ErrNetwork]: github.com/matzehuels/chouse/pkg/integrations.ErrNetwork
package companieshouse
