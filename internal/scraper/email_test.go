package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEmails(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []string
	}{
		{
			name: "mailto link plus free text",
			html: `<p>contact c@d.org</p><a href="mailto:a@b.com">Mail</a>`,
			want: []string{"a@b.com", "c@d.org"},
		},
		{
			name: "mailto with query and uppercase scheme",
			html: `<a href="MAILTO:Owner@Example-Biz.test?subject=Hello">Mail</a>`,
			want: []string{"Owner@Example-Biz.test"},
		},
		{
			name: "url-encoded mailto",
			html: `<a href="mailto:info%40cafe.test">Mail</a>`,
			want: []string{"info@cafe.test"},
		},
		{
			name: "duplicates collapse",
			html: `<a href="mailto:a@b.com">a@b.com</a> a@b.com`,
			want: []string{"a@b.com"},
		},
		{
			name: "malformed candidates excluded",
			html: `<a href="mailto:notanemail">x</a> notanemail user@localhost a@b.c`,
			want: []string{},
		},
		{
			name: "non-mailto links ignored",
			html: `<a href="https://example.org/contact">Contact</a>`,
			want: []string{},
		},
		{
			name: "empty page",
			html: "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractEmails(tt.html)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, ExtractEmails(tt.html), "ExtractEmails should be idempotent")
		})
	}
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("first.last+tag@sub.example.co.uk"))
	assert.True(t, IsEmail("UPPER@EXAMPLE.COM"))
	assert.False(t, IsEmail("notanemail"))
	assert.False(t, IsEmail("a@b"))
	assert.False(t, IsEmail("a b@c.com"))
	assert.False(t, IsEmail(""))
}
