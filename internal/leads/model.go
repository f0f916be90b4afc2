package leads

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultLanguage = "en"
	DefaultSource   = "inis-landing"

	// timestampLayout matches JavaScript's Date.toISOString.
	timestampLayout = "2006-01-02T15:04:05.000Z"
)

// Lead is the record forwarded to the Sheets web app. The ts and lang keys
// are what the sheet script reads.
type Lead struct {
	Timestamp string `json:"ts"`
	Language  string `json:"lang"`
	Name      string `json:"name"`
	Business  string `json:"business"`
	Location  string `json:"location"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Need      string `json:"need"`
	Message   string `json:"message"`
	Source    string `json:"source"`
}

// requiredFields is what the validator checks, in reporting order. Values
// are coerced and trimmed.
type requiredFields struct {
	Name     string `json:"name" validate:"required"`
	Business string `json:"business" validate:"required"`
	Location string `json:"location" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Phone    string `json:"phone" validate:"required,e164strict"`
	Need     string `json:"need" validate:"required"`
}

// SubmitResponse is returned after the sheet accepted the lead.
type SubmitResponse struct {
	OK     bool `json:"ok"`
	Sheets any  `json:"sheets"`
}

func requiredFromPayload(payload map[string]any) requiredFields {
	field := func(key string) string { return strings.TrimSpace(coerce(payload[key])) }
	return requiredFields{
		Name:     field("name"),
		Business: field("business"),
		Location: field("location"),
		Email:    field("email"),
		Phone:    field("phone"),
		Need:     field("need"),
	}
}

// buildLead copies caller values through and fills defaults for the optional
// fields.
func buildLead(payload map[string]any, now time.Time) Lead {
	return Lead{
		Timestamp: withDefault(firstValue(payload, "ts", "timestamp"), now.UTC().Format(timestampLayout)),
		Language:  withDefault(firstValue(payload, "lang", "language"), DefaultLanguage),
		Name:      coerce(payload["name"]),
		Business:  coerce(payload["business"]),
		Location:  coerce(payload["location"]),
		Email:     coerce(payload["email"]),
		Phone:     coerce(payload["phone"]),
		Need:      coerce(payload["need"]),
		Message:   coerce(payload["message"]),
		Source:    withDefault(coerce(payload["source"]), DefaultSource),
	}
}

func firstValue(payload map[string]any, keys ...string) string {
	for _, key := range keys {
		if v := coerce(payload[key]); v != "" {
			return v
		}
	}
	return ""
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// coerce renders a decoded JSON value as text. null, false, 0 and "" count
// as absent and come back empty.
func coerce(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if !val {
			return ""
		}
		return "true"
	case float64:
		if val == 0 {
			return ""
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		if f, err := val.Float64(); err == nil && f == 0 {
			return ""
		}
		return val.String()
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
