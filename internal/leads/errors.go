package leads

import "fmt"

const (
	// MsgMissingWebhook is returned when SHEETS_WEBAPP_URL is unset.
	MsgMissingWebhook = "Missing SHEETS_WEBAPP_URL"

	// MsgInvalidPhone is returned when the phone is not E.164.
	MsgInvalidPhone = "Invalid phone. Use E.164 like +14155552671"

	// MsgForwardFailed is returned for any failure writing to Sheets.
	MsgForwardFailed = "Failed to write lead to Sheets"
)

func missingFieldMessage(field string) string {
	return fmt.Sprintf("Missing field: %s", field)
}
