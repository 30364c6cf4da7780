// Package extractor finds candidate links in fetched page content.
//
// Link discovery is pattern-based: a regular expression scans anchor
// href attributes instead of building a DOM. Malformed markup yields
// fewer links, never an error.
//
// Candidates pass through three stages, in order:
//  1. resolution against the containing page's URL (relative references
//     become absolute; failures drop only that candidate)
//  2. exclusion of media/document/archive extensions and of URLs
//     containing "download", "upload", or "git"
//  3. the scope filter: the URL string must contain the crawl's domain
//     token as a substring
//
// The substring scope test is intentional and matches the tool's
// long-standing behavior: it admits subdomains (kids.orf.at for scope
// orf.at) but also admits any URL whose text happens to contain the
// token. Changing it to host-suffix matching would change which pages
// a crawl visits.
package extractor
