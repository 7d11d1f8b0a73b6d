// Package report renders contact reports.
//
// A report has one row per stored place. The delimited-text form (CSV) carries
// Name, Address, Phone and Emails; the rendered forms (console table, Markdown) carry
// Name, Phone and Emails. Multiple emails are joined with ", ".
package report
