// Package main provides the entry point for the sitecrawl CLI.
//
// sitecrawl crawls a website from a seed URL, staying on the seed's host,
// and reports the pages, links and readable text it found. Free-text
// instructions such as "depth 1, pages 10, show headings" tune each crawl.
//
// Usage:
//
//	sitecrawl crawl <url> [-i instructions]
//	sitecrawl history
//	sitecrawl export <crawl-id> -f csv
//
// See --help for all available options.
package main

// main is the entry point for sitecrawl.
func main() {
	Execute()
}
