// Package scraper provides HTTP fetching and email extraction for place websites.
//
// The scraper package downloads a place's homepage with a bounded timeout and body size,
// decodes it to UTF-8 using the declared charset, and extracts contact email addresses
// from both mailto links and the raw page text.
package scraper
