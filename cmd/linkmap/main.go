// Package main provides the entry point for the linkmap CLI.
//
// linkmap discovers all unique, reachable hyperlinks within a domain,
// starting from a seed URL, and prints the deduplicated inventory.
//
// Usage:
//
//	linkmap crawl <url>
//
// See --help for all available options.
package main

// main is the entry point for linkmap.
func main() {
	Execute()
}
