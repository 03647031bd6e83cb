// Package scraper fetches production pages and extracts their details.
//
// HTTPFetcher performs bounded-time GET requests; FallbackFetcher serves a
// local snapshot file when the network is unavailable, which also makes
// offline runs against a saved feed and page possible. ExtractPage reads the
// date heading, synopsis and venue block of a production detail page.
package scraper
