package normalise

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompany(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Acme", "acme"},
		{"suffix with punctuation", "Acme, Inc.", "acme"},
		{"suffix without punctuation", "Acme Inc", "acme"},
		{"leading article", "The Acme Company", "acme"},
		{"article and article again", "The A Team", "team"},
		{"stacked suffixes", "Acme Holdings Co Ltd", "acme holdings"},
		{"german entity", "Siemens GmbH", "siemens"},
		{"multi word survives", "Saudi Arabian Mining", "saudi arabian mining"},
		{"punctuation stripped", "O'Neill & Sons", "oneill sons"},
		{"whitespace collapsed", "  Acme    Widgets  ", "acme widgets"},
		{"suffix only keeps last token", "LLC", "llc"},
		{"article only keeps last token", "The", "the"},
		{"blank", "   ", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Company(tt.input))
		})
	}
}

func TestCompany_Idempotent(t *testing.T) {
	inputs := []string{
		"Acme, Inc.", "The Acme Company", "Siemens GmbH",
		"Acme Holdings Co Ltd", "O'Neill & Sons", "LLC", "",
	}
	for _, input := range inputs {
		once := Company(input)
		assert.Equal(t, once, Company(once), "input %q", input)
	}
}
