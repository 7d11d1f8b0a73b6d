// Package pipeline implements the three stages that turn a saved-places export into
// a contact report.
//
// Resolver looks up each export row with the Place Details API and stores the result.
// Harvester visits each stored place's website and records the email addresses found.
// Aggregator reads every stored record back and builds report rows. Each stage works
// through the items one at a time, skips an item on failure and carries on, and returns
// a Summary with one Outcome per item.
package pipeline
