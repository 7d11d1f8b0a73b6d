// Package storage provides keyed persistence for place records.
//
// Records are stored under their slug. The default FileStore keeps one pretty-printed
// JSON file per place (<dir>/<slug>.json) so the store can be inspected and edited by
// hand; SQLiteStore keeps the same JSON payload in a single SQLite database. The
// default storage location is ~/.local/share/savedplaces/places.
package storage
