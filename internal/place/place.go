package place

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
)

// SavedPlace is one row of a Takeout "Saved" list export
type SavedPlace struct {
	Title   string `csv:"Title"`
	Note    string `csv:"Note,omitempty"`
	URL     string `csv:"URL"`
	Comment string `csv:"Comment,omitempty"`
}

// Slug returns the store key for this row
func (p SavedPlace) Slug() string {
	return Slug(p.Title)
}

// CID returns the numeric place id embedded in the row's URL
func (p SavedPlace) CID() (uint64, error) {
	return ParseCID(p.URL)
}

var requiredColumns = []string{"Title", "URL"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadSavedPlaces decodes every data row of an export.
// Columns are matched by header name; unknown columns are ignored.
func ReadSavedPlaces(r io.Reader) ([]SavedPlace, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	dec, err := csvutil.NewDecoder(&raggedReader{r: cr})
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, NewError(ErrMissingField, eris.New("export has no header row"))
		}
		return nil, eris.Wrap(err, "reading export header")
	}

	if err := checkHeader(dec.Header()); err != nil {
		return nil, err
	}

	places := make([]SavedPlace, 0)
	for {
		var p SavedPlace
		if err := dec.Decode(&p); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, eris.Wrap(err, "decoding export row")
		}
		places = append(places, p)
	}

	return places, nil
}

// LoadSavedPlaces reads an export file from disk
func LoadSavedPlaces(path string) ([]SavedPlace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "opening export")
	}
	defer f.Close()

	return ReadSavedPlaces(f)
}

// raggedReader fits every data record to the header's width so one short or
// long row decodes with empty or dropped columns instead of failing the export
type raggedReader struct {
	r     *csv.Reader
	width int
}

func (rr *raggedReader) Read() ([]string, error) {
	rec, err := rr.r.Read()
	if err != nil {
		return nil, err
	}

	// First record is the header
	if rr.width == 0 {
		rr.width = len(rec)
		return rec, nil
	}

	switch {
	case len(rec) < rr.width:
		rec = append(rec, make([]string, rr.width-len(rec))...)
	case len(rec) > rr.width:
		rec = rec[:rr.width]
	}
	return rec, nil
}

// checkHeader ensures the columns the resolver depends on are present
func checkHeader(header []string) error {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	for _, col := range requiredColumns {
		if !present[col] {
			return NewError(ErrMissingField, eris.Errorf("export has no %q column", col))
		}
	}
	return nil
}
