// Package cli implements the command-line interface for savedplaces.
//
// The cli package provides the Cobra-based CLI with one subcommand per pipeline
// stage (resolve, harvest-emails, export-contacts), loads configuration and the
// logger before each run, and prints a run summary (text/JSON/YAML) when a stage
// finishes. It wires the maps client, scraper, storage and report packages into
// the stages of the pipeline package.
package cli
