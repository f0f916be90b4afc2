package leads

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", " Ada ", " Ada "},
		{"false", false, ""},
		{"true", true, "true"},
		{"zero", float64(0), ""},
		{"integer", float64(42), "42"},
		{"fraction", 1.5, "1.5"},
		{"object", map[string]any{"a": "b"}, `{"a":"b"}`},
		{"array", []any{"x"}, `["x"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, coerce(tt.in))
		})
	}
}

func TestBuildLeadDefaults(t *testing.T) {
	now := time.Date(2026, 10, 18, 14, 5, 6, 7_000_000, time.FixedZone("EST", -5*3600))
	lead := buildLead(map[string]any{"name": "Ada", "phone": " +14155552671 "}, now)

	assert.Equal(t, "2026-10-18T19:05:06.007Z", lead.Timestamp)
	assert.Equal(t, DefaultLanguage, lead.Language)
	assert.Equal(t, DefaultSource, lead.Source)
	assert.Equal(t, "", lead.Message)
	assert.Equal(t, " +14155552671 ", lead.Phone)
}

func TestRequiredFromPayloadTrims(t *testing.T) {
	fields := requiredFromPayload(map[string]any{"name": "  Ada  ", "need": "\t"})
	assert.Equal(t, "Ada", fields.Name)
	assert.Equal(t, "", fields.Need)
}
