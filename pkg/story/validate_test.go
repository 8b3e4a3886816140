package story

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messages(issues []Issue) string {
	var b strings.Builder
	for _, i := range issues {
		b.WriteString(i.String())
		b.WriteString("\n")
	}
	return b.String()
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		contains string
		isError  bool
	}{
		{
			name:     "unknown page condition",
			doc:      `{"id":"s","pages":[{"id":"p","conditions":["ghost"]}]}`,
			contains: `page p: references unknown condition "ghost"`,
			isError:  true,
		},
		{
			name:     "duplicate page id",
			doc:      `{"id":"s","pages":[{"id":"p"},{"id":"p"}]}`,
			contains: "page p: duplicate page id",
			isError:  true,
		},
		{
			name:     "unknown logical child",
			doc:      `{"id":"s","conditions":[{"id":"l","type":"logical","operator":"and","children":["nope"]}]}`,
			contains: `condition l: references unknown condition "nope"`,
			isError:  true,
		},
		{
			name:     "unknown location reference",
			doc:      `{"id":"s","conditions":[{"id":"l","type":"location","location":"nowhere"}]}`,
			contains: `condition l: references unknown location "nowhere"`,
			isError:  true,
		},
		{
			name:     "self cycle",
			doc:      `{"id":"s","conditions":[{"id":"a","type":"logical","operator":"not","children":["a"]}]}`,
			contains: "cycle in logical conditions: a -> a",
			isError:  true,
		},
		{
			name: "mutual cycle",
			doc: `{"id":"s","conditions":[
				{"id":"a","type":"logical","operator":"and","children":["t","b"]},
				{"id":"b","type":"logical","operator":"or","children":["a"]},
				{"id":"t","type":"true"}]}`,
			contains: "cycle in logical conditions: a -> b -> a",
			isError:  true,
		},
		{
			name:     "bad location radius",
			doc:      `{"id":"s","locations":[{"id":"x","type":"circle","lat":0,"lon":0,"radius":0}]}`,
			contains: "location x: radius 0 must be positive",
			isError:  true,
		},
		{
			name:     "unknown condition type warns",
			doc:      `{"id":"s","conditions":[{"id":"x","type":"bogus"}]}`,
			contains: `condition x: unknown condition type "bogus" will never hold`,
			isError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(tt.doc))
			require.NoError(t, err)

			issues := s.Validate()
			assert.Contains(t, messages(issues), tt.contains)
			assert.Equal(t, tt.isError, HasErrors(issues))
		})
	}
}

func TestValidate_DiamondIsNotACycle(t *testing.T) {
	s, err := Parse([]byte(`{"id":"s","conditions":[
		{"id":"top","type":"logical","operator":"and","children":["l","r"]},
		{"id":"l","type":"logical","operator":"not","children":["leaf"]},
		{"id":"r","type":"logical","operator":"or","children":["leaf"]},
		{"id":"leaf","type":"false"}]}`))
	require.NoError(t, err)
	assert.Empty(t, s.Validate())
}
