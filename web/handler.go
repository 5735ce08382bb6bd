// Package web serves the sign-up screens: the landing page that collects an
// email and the plan selection page that submits the subscription.
package web

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"signup-backend/catalog"
	"signup-backend/subscribeclient"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	msgInvalidEmail = "Please enter a valid email address."
	// RedirectDelay is how long the success state stays on screen before the
	// browser leaves for the destination page.
	RedirectDelay = 1200 * time.Millisecond
)

// Subscriber sends the create-subscription request.
type Subscriber interface {
	Subscribe(ctx context.Context, req subscribeclient.Request) (*subscribeclient.Response, error)
}

type Handler struct {
	client      Subscriber
	apiBase     string
	redirectURL string
	tmpl        *template.Template
	log         *slog.Logger
}

// NewHandler builds the web client. apiBase is only used in the message
// shown when the API cannot be reached; redirectURL is where the browser
// goes after a successful subscription.
func NewHandler(client Subscriber, apiBase, redirectURL string, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	tmpl := template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))
	return &Handler{client: client, apiBase: apiBase, redirectURL: redirectURL, tmpl: tmpl, log: log}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.SetHTMLTemplate(h.tmpl)
	r.GET("/", h.landing)
	r.POST("/", h.getStarted)
	r.GET("/plans", h.plans)
	r.POST("/plans", h.subscribe)
}

type landingView struct {
	Email string
	Error string
}

func (h *Handler) landing(c *gin.Context) {
	c.HTML(http.StatusOK, "landing.html", landingView{})
}

func (h *Handler) getStarted(c *gin.Context) {
	email := c.PostForm("email")
	if !ValidEmail(email) {
		c.HTML(http.StatusOK, "landing.html", landingView{Email: email, Error: msgInvalidEmail})
		return
	}
	c.Redirect(http.StatusSeeOther, "/plans?email="+url.QueryEscape(trim(email)))
}

func (h *Handler) plans(c *gin.Context) {
	h.render(c, NewPlanScreen(c.Query("email"), c.Query("plan")))
}

func (h *Handler) subscribe(c *gin.Context) {
	screen := NewPlanScreen(c.PostForm("email"), "").Select(c.PostForm("plan"))

	screen, req := screen.Submit()
	if req != nil {
		resp, err := h.client.Subscribe(c.Request.Context(), *req)
		if err != nil {
			h.log.Warn("subscription service call failed", "error", err)
		}
		screen = screen.Resolve(resp, err, h.apiBase)
	}
	h.render(c, screen)
}

type planCard struct {
	catalog.Plan
	Selected  bool
	Dimmed    bool
	SelectURL string
}

type plansView struct {
	Screen          PlanScreen
	Cards           []planCard
	Selected        catalog.Plan
	HasSelected     bool
	ButtonLabel     string
	ButtonDisabled  bool
	Succeeded       bool
	RedirectURL     string
	RedirectMillis  int64
	RedirectSeconds string // meta refresh form of RedirectDelay
}

func (h *Handler) render(c *gin.Context, s PlanScreen) {
	selected, ok := s.SelectedPlan()
	view := plansView{
		Screen:          s,
		Selected:        selected,
		HasSelected:     ok,
		ButtonLabel:     s.ButtonLabel(),
		ButtonDisabled:  s.ButtonDisabled(),
		Succeeded:       s.Phase == PhaseSucceeded,
		RedirectURL:     h.redirectURL,
		RedirectMillis:  RedirectDelay.Milliseconds(),
		RedirectSeconds: strconv.FormatFloat(RedirectDelay.Seconds(), 'f', -1, 64),
	}
	for _, p := range catalog.Plans() {
		card := planCard{Plan: p, Selected: p.ID == s.SelectedPlanID}
		if s.CanSelect() {
			card.SelectURL = "/plans?" + url.Values{"email": {s.Email}, "plan": {p.ID}}.Encode()
		} else {
			card.Dimmed = !card.Selected
		}
		view.Cards = append(view.Cards, card)
	}
	c.HTML(http.StatusOK, "plans.html", view)
}
