package place

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

// Well-known record keys
const (
	KeyName    = "name"
	KeyWebsite = "website"
	KeyPhone   = "formatted_phone_number"
	KeyAddress = "adr_address"
	KeyEmail   = "email"
	KeyEmails  = "emails"
)

// Record is the persisted place-details object.
// It holds the API result verbatim plus the harvested "emails" list.
type Record map[string]any

// DecodeRecord parses a persisted record. Numbers are kept as json.Number
// so they are written back unchanged.
func DecodeRecord(data []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return nil, NewError(ErrDecode, err)
	}
	if rec == nil {
		return nil, NewError(ErrDecode, eris.New("record is null"))
	}
	return rec, nil
}

// EncodeRecord renders a record as indented JSON without HTML escaping,
// since adr_address holds markup.
func EncodeRecord(rec Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return nil, eris.Wrap(err, "encoding record")
	}
	return buf.Bytes(), nil
}

// String returns the value at key if it is a string or number, else ""
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// Name returns the place's display name
func (r Record) Name() string {
	return r.String(KeyName)
}

// Website returns the place's website URL
func (r Record) Website() string {
	return strings.TrimSpace(r.String(KeyWebsite))
}

// Phone returns the formatted phone number
func (r Record) Phone() string {
	return r.String(KeyPhone)
}

// Address returns adr_address with its markup stripped
func (r Record) Address() string {
	frag := r.String(KeyAddress)
	if frag == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(frag))
	if err != nil {
		return strings.Join(strings.Fields(frag), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Emails returns the harvested addresses
func (r Record) Emails() []string {
	switch v := r[KeyEmails].(type) {
	case []string:
		return v
	case []any:
		emails := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok && s != "" {
				emails = append(emails, s)
			}
		}
		return emails
	case string:
		if v != "" {
			return []string{v}
		}
	}
	return nil
}

// SetEmails stores the harvested addresses
func (r Record) SetEmails(emails []string) {
	r[KeyEmails] = emails
}

// HasEmails reports whether the record already carries email data
// in either the "email" or "emails" field.
func (r Record) HasEmails() bool {
	return present(r[KeyEmail]) || present(r[KeyEmails])
}

// present reports whether a JSON value is set and non-empty
func present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case []any:
		return len(x) > 0
	case []string:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	case bool:
		return x
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}
