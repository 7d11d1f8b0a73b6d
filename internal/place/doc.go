// Package place provides the types shared by every stage of the saved-places pipeline.
//
// The place package handles saved-place rows read from a Takeout export, the slug and
// place id derived from each row, and the Record persisted per place. Records are kept
// as free-form JSON objects so that whatever the place-details API returns is stored
// verbatim. The package also defines the error kinds used to classify per-item failures.
package place
