package place

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

var slugStrip = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// Slug derives the store key for a place title.
// The title is lower-cased, spaces become underscores and every character
// outside [A-Za-z0-9_-] is dropped. Distinct titles may share a slug.
func Slug(title string) string {
	s := strings.ToLower(title)
	s = strings.ReplaceAll(s, " ", "_")
	return slugStrip.ReplaceAllString(s, "")
}

// ParseCID extracts the numeric place id from a map URL.
// The id is the hexadecimal text after the last colon, e.g.
// "https://www.google.com/maps/place/...!1s0x89c2:0x4fd65b1".
func ParseCID(mapURL string) (uint64, error) {
	if strings.TrimSpace(mapURL) == "" {
		return 0, NewError(ErrMissingField, eris.New("url is empty"))
	}

	hex := mapURL
	if i := strings.LastIndex(mapURL, ":"); i >= 0 {
		hex = mapURL[i+1:]
	}
	hex = strings.TrimSpace(hex)
	hex = strings.TrimPrefix(strings.TrimPrefix(hex, "0x"), "0X")

	cid, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return 0, NewError(ErrInvalidPlaceID, eris.Wrapf(err, "parsing %q", hex))
	}
	return cid, nil
}
