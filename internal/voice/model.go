package voice

// CallRequest is the Vapi outbound call payload.
type CallRequest struct {
	AssistantID   string   `json:"assistantId"`
	PhoneNumberID string   `json:"phoneNumberId"`
	Customer      Customer `json:"customer"`
}

// Customer is the party Vapi dials.
type Customer struct {
	Number string `json:"number"`
}

// CallResponse is returned once Vapi accepted the call.
type CallResponse struct {
	OK   bool `json:"ok"`
	Vapi any  `json:"vapi"`
}

const (
	MsgMissingConfig = "Missing Vapi config (VAPI_TOKEN / VAPI_ASSISTANT_ID / VAPI_PHONE_NUMBER_ID)"
	MsgInvalidPhone  = "Invalid phone. Use E.164 like +14155552671"
	MsgCallFailed    = "Vapi call failed"
	MsgServerError   = "Server error"
)
