package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleContacts() []Contact {
	return []Contact{
		{
			Key:    "my_restaurant",
			Name:   "My Restaurant",
			Emails: []string{"owner@example-biz.test"},
		},
		{
			Key:     "joes_caf_1",
			Name:    "Joe's Café #1",
			Address: "1 Main St, Springfield",
			Phone:   "(555) 010-0000",
			Emails:  []string{"a@b.com", "c@d.org"},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleContacts()))

	want := "Name,Address,Phone,Emails\n" +
		"My Restaurant,,,owner@example-biz.test\n" +
		"Joe's Café #1,\"1 Main St, Springfield\",(555) 010-0000,\"a@b.com, c@d.org\"\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "Name,Address,Phone,Emails\n", buf.String())
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleContacts()))

	out := buf.String()
	assert.Contains(t, strings.ToUpper(out), "NAME")
	assert.Contains(t, strings.ToUpper(out), "EMAILS")
	assert.Contains(t, out, "My Restaurant")
	assert.Contains(t, out, "owner@example-biz.test")
	assert.Contains(t, out, "(555) 010-0000")
	assert.NotContains(t, out, "Springfield", "table form has no address column")
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, sampleContacts()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Contacts"))
	assert.Contains(t, out, "My Restaurant")
	assert.Contains(t, out, "owner@example-biz.test")
	assert.Contains(t, out, "Total: 2 contacts")
}

func TestWrite_EmptyRendered(t *testing.T) {
	for _, format := range []Format{FormatTable, FormatMarkdown} {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, format, nil), format)
		assert.Contains(t, buf.String(), "No contacts found.", format)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, Format("xlsx"), sampleContacts())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xlsx")
}

func TestSort(t *testing.T) {
	base := []Contact{
		{Key: "c", Name: "beta", Emails: []string{"x@y.com"}},
		{Key: "a", Name: "Gamma"},
		{Key: "b", Name: "alpha", Emails: []string{"x@y.com", "z@y.com"}},
	}

	tests := []struct {
		name  string
		order SortOrder
		want  []string
	}{
		{"by key", SortByKey, []string{"a", "b", "c"}},
		{"by name ignores case", SortByName, []string{"b", "c", "a"}},
		{"by emails most first", SortByEmails, []string{"b", "c", "a"}},
		{"unknown order keeps input", SortOrder("phone"), []string{"c", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contacts := append([]Contact(nil), base...)
			Sort(contacts, tt.order)

			keys := make([]string, 0, len(contacts))
			for _, c := range contacts {
				keys = append(keys, c.Key)
			}
			assert.Equal(t, tt.want, keys)
		})
	}
}
