package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/nao1215/markdown"
	"github.com/olekukonko/tablewriter"
	"github.com/rotisserie/eris"
)

// Format specifies the report format
type Format string

const (
	FormatCSV      Format = "csv"
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
)

// EmailSeparator joins multiple addresses in one cell
const EmailSeparator = ", "

// Contact is one report row
type Contact struct {
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Phone   string   `json:"phone"`
	Emails  []string `json:"emails"`
}

// EmailList returns the emails joined for display
func (c Contact) EmailList() string {
	return strings.Join(c.Emails, EmailSeparator)
}

// csvRow is the delimited-text shape of a Contact
type csvRow struct {
	Name    string `csv:"Name"`
	Address string `csv:"Address"`
	Phone   string `csv:"Phone"`
	Emails  string `csv:"Emails"`
}

// Write renders contacts in the given format
func Write(w io.Writer, format Format, contacts []Contact) error {
	switch Format(strings.ToLower(string(format))) {
	case FormatCSV:
		return WriteCSV(w, contacts)
	case FormatTable:
		return WriteTable(w, contacts)
	case FormatMarkdown:
		return WriteMarkdown(w, contacts)
	default:
		return eris.Errorf("report: unknown format %q", format)
	}
}

// WriteCSV writes a Name,Address,Phone,Emails table with a header row
func WriteCSV(w io.Writer, contacts []Contact) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	enc.AutoHeader = false

	if err := enc.EncodeHeader(csvRow{}); err != nil {
		return eris.Wrap(err, "report: writing csv header")
	}
	for _, c := range contacts {
		row := csvRow{
			Name:    c.Name,
			Address: c.Address,
			Phone:   c.Phone,
			Emails:  c.EmailList(),
		}
		if err := enc.Encode(row); err != nil {
			return eris.Wrapf(err, "report: writing csv row %s", c.Key)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flushing csv")
}

// WriteTable writes a Name/Phone/Emails console table
func WriteTable(w io.Writer, contacts []Contact) error {
	if len(contacts) == 0 {
		_, err := fmt.Fprintln(w, "No contacts found.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("Name", "Phone", "Emails")
	for _, c := range contacts {
		if err := table.Append([]string{c.Name, c.Phone, c.EmailList()}); err != nil {
			return eris.Wrapf(err, "report: table row %s", c.Key)
		}
	}
	return eris.Wrap(table.Render(), "report: rendering table")
}

// WriteMarkdown writes a Name/Phone/Emails Markdown document
func WriteMarkdown(w io.Writer, contacts []Contact) error {
	md := markdown.NewMarkdown(w)
	md.H1("Contacts")
	md.PlainText("")

	if len(contacts) == 0 {
		md.PlainText("No contacts found.")
		return eris.Wrap(md.Build(), "report: rendering markdown")
	}

	rows := make([][]string, 0, len(contacts))
	for _, c := range contacts {
		rows = append(rows, []string{c.Name, c.Phone, c.EmailList()})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Name", "Phone", "Emails"},
		Rows:   rows,
	})
	md.PlainText("")
	md.PlainText(fmt.Sprintf("Total: %d contacts", len(contacts)))

	return eris.Wrap(md.Build(), "report: rendering markdown")
}
