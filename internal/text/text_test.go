package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplaceKeyword(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		keyword     string
		replacement string
		want        string
	}{
		{
			name:        "all three casings",
			input:       "station Station STATION",
			keyword:     "station",
			replacement: "channel",
			want:        "channel Channel CHANNEL",
		},
		{
			name:        "arguments are case-insensitive",
			input:       "Dear customer, our CUSTOMER policy",
			keyword:     "CuStOmEr",
			replacement: "CLIENT",
			want:        "Dear client, our CLIENT policy",
		},
		{
			name:        "mixed case occurrence is untouched",
			input:       "sTaTiOn",
			keyword:     "station",
			replacement: "channel",
			want:        "sTaTiOn",
		},
		{
			name:        "empty keyword",
			input:       "unchanged",
			keyword:     "",
			replacement: "x",
			want:        "unchanged",
		},
		{
			name:        "replacement may be empty",
			input:       "remove the Word",
			keyword:     "word",
			replacement: "",
			want:        "remove the ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReplaceKeyword(tt.input, tt.keyword, tt.replacement))
		})
	}
}

func TestFirstLetterToUpper(t *testing.T) {
	assert.Equal(t, "Hello", FirstLetterToUpper("hello"))
	assert.Equal(t, "ÉCOLE", FirstLetterToUpper("éCOLE"))
	assert.Equal(t, "", FirstLetterToUpper(""))
	assert.Equal(t, "   ", FirstLetterToUpper("   "))
	assert.Equal(t, "1abc", FirstLetterToUpper("1abc"))
}

func TestConvertToServerPath(t *testing.T) {
	tests := []struct {
		name  string
		local string
		root  string
		base  string
		want  string
	}{
		{"below root", "/srv/site/App_Data/123/report.pdf", "/srv/site", "https://cdn.example.com/files", "https://cdn.example.com/files/App_Data/123/report.pdf"},
		{"root with trailing slash", "/srv/site/a.txt", "/srv/site/", "https://x/", "https://x/a.txt"},
		{"windows separators", `C:\inetpub\site\\App_Data\a.txt`, `C:\inetpub\site\`, "/static", "/static/App_Data/a.txt"},
		{"outside root", "/tmp//other.txt", "/srv/site", "https://x", "/tmp/other.txt"},
		{"blank", "  ", "/srv/site", "https://x", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertToServerPath(tt.local, tt.root, tt.base))
		})
	}
}
