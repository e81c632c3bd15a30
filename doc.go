// Package estate is the composition root of the listings store.
//
// It wires the record store (pkg/core), its storage media (pkg/adapters) and
// the agency catalog (pkg/listings) behind functional options.
//
// All state lives in a key-value medium: a directory of JSON files, an
// in-process shared memory or a Redis server. Three keys are used:
// "properties", "testimonials" and "siteContent". Reads never fail; missing or
// malformed values fall back to the embedded fixtures.
//
// Usage:
//
//	catalog, err := estate.OpenCatalog(ctx, "./.estate",
//		estate.WithLogger(logger),
//	)
//
//	// List the residential listings in Roma
//	homes := catalog.Search(ctx, listings.Filter{Term: "roma", Type: "residential"})
package estate
