package subscriptions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"signup-backend/metrics"
)

// Creator is the service operation behind POST /subscribe.
type Creator interface {
	Create(ctx context.Context, req CreateRequest) (*Subscription, error)
}

type Handler struct {
	svc     Creator
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewHandler builds the HTTP boundary. m may be nil.
func NewHandler(svc Creator, m *metrics.Metrics, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, metrics: m, log: log}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.root)
	r.GET("/health", h.health)
	r.POST("/subscribe", h.createSubscription)
}

func (h *Handler) root(c *gin.Context) {
	c.String(http.StatusOK, "Backend is running ✅")
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Backend running"})
}

func (h *Handler) createSubscription(c *gin.Context) {
	req, err := decodeCreateRequest(c)
	if err != nil {
		h.metrics.ObserveSubscribe(metrics.OutcomeInvalid)
		c.JSON(http.StatusBadRequest, gin.H{"message": MsgInvalidJSON})
		return
	}

	sub, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			h.metrics.ObserveSubscribe(metrics.OutcomeInvalid)
			c.JSON(http.StatusBadRequest, gin.H{"message": ve.Message})
			return
		}
		h.metrics.ObserveSubscribe(outcomeFor(err))
		h.log.Error("subscribe error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": MsgServerError})
		return
	}

	h.metrics.ObserveSubscribe(metrics.OutcomeCreated)
	h.log.Info("subscription created", "id", sub.ID, "plan", sub.PlanName)
	c.JSON(http.StatusCreated, gin.H{
		"message":      fmt.Sprintf("Subscription confirmed for %s", sub.UserName),
		"subscription": sub,
	})
}

// decodeCreateRequest accepts an empty body or any JSON value; only an object
// contributes fields. Malformed JSON is an error.
func decodeCreateRequest(c *gin.Context) (CreateRequest, error) {
	var req CreateRequest
	body, err := c.GetRawData()
	if err != nil {
		return req, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return req, err
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return req, nil
	}
	req.Email = obj["email"]
	req.UserName = obj["userName"]
	req.PlanName = obj["planName"]
	req.DurationMonths = obj["durationMonths"]
	return req, nil
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, ErrSchemaValidation):
		return metrics.OutcomeSchema
	case errors.Is(err, ErrDuplicateEmail):
		return metrics.OutcomeDuplicate
	default:
		return metrics.OutcomeError
	}
}
