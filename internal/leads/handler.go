package leads

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/wolfman30/inis-relay/internal/config"
	"github.com/wolfman30/inis-relay/internal/http/apierror"
	"github.com/wolfman30/inis-relay/internal/http/jsonbody"
	"github.com/wolfman30/inis-relay/internal/observability/metrics"
	"github.com/wolfman30/inis-relay/internal/phone"
	"github.com/wolfman30/inis-relay/internal/relay"
	"github.com/wolfman30/inis-relay/pkg/logging"
)

const target = "sheets"

// Forwarder posts JSON to an upstream and returns its reply.
type Forwarder interface {
	PostJSON(ctx context.Context, target, url string, payload any, opts ...relay.Option) (*relay.Response, error)
}

// Handler handles HTTP requests for leads
type Handler struct {
	cfg       *config.Config
	forwarder Forwarder
	validate  *validator.Validate
	metrics   *metrics.RelayMetrics
	logger    *logging.Logger
	now       func() time.Time
}

// NewHandler creates a new leads handler
func NewHandler(cfg *config.Config, forwarder Forwarder, m *metrics.RelayMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if forwarder == nil {
		panic("leads: forwarder cannot be nil")
	}
	return &Handler{
		cfg:       cfg,
		forwarder: forwarder,
		validate:  newValidator(),
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	if err := phone.RegisterValidation(v); err != nil {
		panic(fmt.Sprintf("leads: register phone validation: %v", err))
	}
	return v
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// SubmitLead handles POST /api/lead requests
func (h *Handler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	out, err := h.submit(w, r)
	if err != nil {
		apiErr := apierror.As(err)
		if apiErr.Kind != apierror.KindDownstreamFailure {
			h.metrics.ObserveRejected(target, string(apiErr.Kind))
		}
		apierror.Write(w, apiErr)
		return
	}
	apierror.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) (*SubmitResponse, error) {
	if !h.cfg.HasSheets() {
		h.logger.Error("lead rejected: sheets webhook not configured")
		return nil, apierror.ConfigurationMissing(MsgMissingWebhook)
	}

	payload, err := jsonbody.DecodeObject(w, r)
	if err != nil {
		return nil, err
	}

	if err := h.checkRequired(payload); err != nil {
		h.logger.Info("lead rejected", "reason", err.Error())
		return nil, err
	}

	lead := buildLead(payload, h.now())
	resp, err := h.forwarder.PostJSON(r.Context(), target, h.cfg.SheetsWebAppURL, lead)
	if err == nil {
		err = resp.Err()
	}
	if err != nil {
		h.logger.Warn("failed to write lead to sheets", "error", err, "phone", logging.MaskPhone(lead.Phone))
		return nil, apierror.DownstreamFailure(http.StatusInternalServerError, MsgForwardFailed, err.Error(), err)
	}

	h.logger.Info("lead written to sheets", "source", lead.Source, "lang", lead.Language, "phone", logging.MaskPhone(lead.Phone))
	return &SubmitResponse{OK: true, Sheets: resp.Body}, nil
}

// checkRequired reports the first missing required field, then an invalid
// phone.
func (h *Handler) checkRequired(payload map[string]any) error {
	err := h.validate.Struct(requiredFromPayload(payload))
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apierror.UnexpectedServerError("Server error", err)
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return apierror.ValidationFailed(missingFieldMessage(fe.Field()))
		}
	}
	return apierror.ValidationFailed(MsgInvalidPhone)
}
