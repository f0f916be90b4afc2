package voice

import (
	"context"
	"net/http"
	"strings"

	"github.com/wolfman30/inis-relay/internal/config"
	"github.com/wolfman30/inis-relay/internal/http/apierror"
	"github.com/wolfman30/inis-relay/internal/http/jsonbody"
	"github.com/wolfman30/inis-relay/internal/observability/metrics"
	"github.com/wolfman30/inis-relay/internal/phone"
	"github.com/wolfman30/inis-relay/internal/relay"
	"github.com/wolfman30/inis-relay/pkg/logging"
)

const target = "vapi"

// Forwarder posts JSON to an upstream and returns its reply.
type Forwarder interface {
	PostJSON(ctx context.Context, target, url string, payload any, opts ...relay.Option) (*relay.Response, error)
}

// Handler starts outbound "call me now" calls through Vapi.
type Handler struct {
	cfg       *config.Config
	forwarder Forwarder
	metrics   *metrics.RelayMetrics
	logger    *logging.Logger
}

// NewHandler creates a call-me handler.
func NewHandler(cfg *config.Config, forwarder Forwarder, m *metrics.RelayMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if forwarder == nil {
		panic("voice: forwarder cannot be nil")
	}
	return &Handler{cfg: cfg, forwarder: forwarder, metrics: m, logger: logger}
}

// CallMe handles POST /api/call-me requests.
func (h *Handler) CallMe(w http.ResponseWriter, r *http.Request) {
	out, err := h.dispatch(w, r)
	if err != nil {
		apiErr := apierror.As(err)
		switch apiErr.Kind {
		case apierror.KindConfigurationMissing, apierror.KindValidationFailed:
			h.metrics.ObserveRejected(target, string(apiErr.Kind))
		}
		apierror.Write(w, apiErr)
		return
	}
	apierror.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request) (*CallResponse, error) {
	if !h.cfg.HasVapi() {
		h.logger.Error("call rejected: vapi not configured")
		return nil, apierror.ConfigurationMissing(MsgMissingConfig)
	}

	payload, err := jsonbody.DecodeObject(w, r)
	if err != nil {
		return nil, err
	}

	raw := payload["phone"]
	if !phone.IsE164(raw) {
		h.logger.Info("call rejected", "reason", "invalid phone")
		return nil, apierror.ValidationFailed(MsgInvalidPhone)
	}
	number := strings.TrimSpace(raw.(string))

	call := CallRequest{
		AssistantID:   h.cfg.VapiAssistantID,
		PhoneNumberID: h.cfg.VapiPhoneNumberID,
		Customer:      Customer{Number: number},
	}
	callURL := h.cfg.VapiCallURL
	if callURL == "" {
		callURL = config.DefaultVapiCallURL
	}

	resp, err := h.forwarder.PostJSON(r.Context(), target, callURL, call, relay.WithBearerToken(h.cfg.VapiToken))
	if err != nil {
		h.logger.Error("vapi call errored", "error", err, "phone", logging.MaskPhone(number))
		return nil, apierror.UnexpectedServerError(MsgServerError, err)
	}
	if !resp.OK() {
		h.logger.Warn("vapi call failed", "status", resp.StatusCode, "phone", logging.MaskPhone(number))
		return nil, apierror.DownstreamFailure(resp.StatusCode, MsgCallFailed, resp.Body, resp.Err())
	}

	h.logger.Info("vapi call started", "status", resp.StatusCode, "phone", logging.MaskPhone(number))
	return &CallResponse{OK: true, Vapi: resp.Body}, nil
}
