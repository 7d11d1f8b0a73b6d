// Package maps provides a client for the Google Maps Place Details API.
//
// Places are looked up by their numeric customer id (cid), the value embedded in the
// URLs of a Takeout saved-places export. The client returns the API's "result" object
// verbatim so callers can persist every field the API provides.
package maps
