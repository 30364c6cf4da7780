// Package fetcher retrieves raw page content over HTTP.
//
// The Fetcher interface is the single seam between the crawl engine and
// the network: the crawler depends only on it, production code plugs in
// HTTPFetcher, and tests plug in map-backed fakes.
//
// HTTPFetcher retries timeout-class failures with exponential backoff
// (1, 2, 4, 8 backoff units before attempts 2 through 5). Failures that
// are not timeouts, such as a malformed URL, a refused connection, or
// an error status, are returned immediately. Either way the caller
// receives a *FetchError wrapping the last cause.
package fetcher
