// Package google provides shared infrastructure for Google API access.
//
// It builds authenticated Drive clients from either a service account key
// or an API key, classifies Google API errors (401, 403, 404, 429) and
// rate limits requests to stay within Drive quotas.
//
// # Credentials
//
// A service account reads any folder shared with it and yields web view
// links for each file. An API key can only read publicly shared folders.
// Both use the read-only scope:
//   - https://www.googleapis.com/auth/drive.readonly
package google
