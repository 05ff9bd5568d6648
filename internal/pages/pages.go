// Package pages renders the server-side HTML views and handles their form
// posts. Every page reads the browser's session through session.MustFrom,
// so the routes must run behind session.Provider.
package pages

import (
	"bytes"
	"errors"
	"hash/fnv"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mbd888/peerpay/internal/addressbook"
	"github.com/mbd888/peerpay/internal/chains"
	"github.com/mbd888/peerpay/internal/guard"
	"github.com/mbd888/peerpay/internal/logging"
	"github.com/mbd888/peerpay/internal/modals"
	"github.com/mbd888/peerpay/internal/requests"
	"github.com/mbd888/peerpay/internal/session"
	"github.com/mbd888/peerpay/internal/validation"
)

// Template names.
const (
	pageLanding   = "landing"
	pageDashboard = "dashboard"
	pageForm      = "form"
	pageReview    = "review"
	pageReceipt   = "receipt"
	pageList      = "list"
	pageSettings  = "settings"
	pageGiveaway  = "giveaway"
	pageNotFound  = "notfound"
)

var pageSources = map[string]string{
	pageLanding:   landingHTML,
	pageDashboard: dashboardHTML,
	pageForm:      requestFormHTML,
	pageReview:    reviewHTML,
	pageReceipt:   receiptHTML,
	pageList:      listHTML,
	pageSettings:  settingsHTML,
	pageGiveaway:  giveawayHTML,
	pageNotFound:  notFoundHTML,
}

var funcs = template.FuncMap{
	"short": addressbook.ShortAddress,
	"hue":   hue,
}

// hue picks a stable avatar colour for an address.
func hue(addr string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(addr))
	return int(h.Sum32() % 360)
}

// Handler renders pages and handles their form posts.
type Handler struct {
	sessions  *session.Manager
	requests  *requests.Service
	modals    *modals.Service
	validator *addressbook.Validator
	views     map[string]*template.Template
}

// NewHandler parses every page template. It fails only on a template
// syntax error.
func NewHandler(sessions *session.Manager, reqs *requests.Service, dialogs *modals.Service, v *addressbook.Validator) (*Handler, error) {
	base, err := template.New("base").Funcs(funcs).Parse(layoutHTML)
	if err != nil {
		return nil, err
	}
	if _, err := base.Parse(rowsHTML); err != nil {
		return nil, err
	}

	views := make(map[string]*template.Template, len(pageSources))
	for name, src := range pageSources {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.Parse(src); err != nil {
			return nil, err
		}
		views[name] = t
	}

	return &Handler{
		sessions:  sessions,
		requests:  reqs,
		modals:    dialogs,
		validator: v,
		views:     views,
	}, nil
}

// RegisterRoutes sets up the page table and the form posts.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", guard.Public(), h.Landing)
	r.GET("/dashboard", guard.For("/dashboard"), h.Dashboard)
	r.GET("/request", guard.For("/request"), h.RequestForm)
	r.GET("/send", guard.For("/send"), h.SendForm)
	r.GET("/requests", guard.For("/requests"), h.Requests)
	r.GET("/inbox", guard.For("/inbox"), h.Inbox)
	r.GET("/settings", guard.For("/settings"), h.Settings)
	r.GET("/giveaway", guard.For("/giveaway"), h.Giveaway)

	r.POST("/connect", h.Connect)
	r.POST("/disconnect", h.Disconnect)
	r.POST("/settings/chain", guard.Protected(), h.SwitchChain)
	r.POST("/request/review", guard.Protected(), h.Review)
	r.POST("/pay/:id", guard.Protected(), h.Pay)
	r.POST("/decline/:id", guard.Protected(), h.Decline)
}

// view is what the layout renders. Data carries the page-specific model.
type view struct {
	Title   string
	Active  string
	Session *session.Session
	Address string
	Data    any
}

func (h *Handler) render(c *gin.Context, status int, page, title, active string, data any) {
	s, err := session.From(c)
	if err != nil {
		s = &session.Session{}
	}
	v := view{Title: title, Active: active, Session: s, Data: data}
	if s.Address != nil {
		v.Address = *s.Address
	}

	var buf bytes.Buffer
	if err := h.views[page].ExecuteTemplate(&buf, "layout", v); err != nil {
		logging.L(c.Request.Context()).Error("failed to render page", "page", page, "error", err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// NotFound renders the catch-all page.
func (h *Handler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, pageNotFound, "Not Found", "", nil)
}

// Landing handles GET /
func (h *Handler) Landing(c *gin.Context) {
	h.render(c, http.StatusOK, pageLanding, "Welcome", "", nil)
}

// Connect handles POST /connect
func (h *Handler) Connect(c *gin.Context) {
	s := h.sessions.Connect(c.Request.Context(), session.MustFrom(c).ID)
	session.Replace(c, s)
	c.Redirect(http.StatusSeeOther, guard.DashboardPath)
}

// Disconnect handles POST /disconnect
func (h *Handler) Disconnect(c *gin.Context) {
	s := h.sessions.Disconnect(c.Request.Context(), session.MustFrom(c).ID)
	session.Replace(c, s)
	c.Redirect(http.StatusSeeOther, guard.LandingPath)
}

// -----------------------------------------------------------------------------
// Dashboard and lists
// -----------------------------------------------------------------------------

type tab struct {
	Key    string
	Label  string
	Count  int
	Active bool
}

type rowsView struct {
	Description string
	Items       []*requests.PaymentRequest
	Empty       string
	Actions     bool
}

type dashboardView struct {
	rowsView
	Tabs []tab
	Pay  *modals.PayPreview
}

var emptyText = map[string]string{
	"incoming": "No pending incoming requests",
	"outgoing": "No outgoing requests",
	"history":  "No transaction history",
}

// Dashboard handles GET /dashboard
//
// ?tab=incoming|outgoing|history picks the tab; ?pay=<id> opens the pay
// dialog over it.
func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.requests.Partition(ctx)
	if err != nil {
		h.failed(c, "failed to partition requests", err)
		return
	}

	selected := c.DefaultQuery("tab", "incoming")
	lists := map[string][]*requests.PaymentRequest{
		"incoming": p.Incoming,
		"outgoing": p.Outgoing,
		"history":  p.History,
	}
	if _, ok := lists[selected]; !ok {
		selected = "incoming"
	}

	v := dashboardView{
		rowsView: rowsView{
			Items:   lists[selected],
			Empty:   emptyText[selected],
			Actions: true,
		},
		Tabs: []tab{
			{Key: "incoming", Label: "Incoming", Count: len(p.Incoming)},
			{Key: "outgoing", Label: "Outgoing", Count: len(p.Outgoing)},
			{Key: "history", Label: "History", Count: len(p.History)},
		},
	}
	for i := range v.Tabs {
		v.Tabs[i].Active = v.Tabs[i].Key == selected
	}

	if id := c.Query("pay"); id != "" {
		preview, err := h.modals.PayPreview(ctx, id)
		switch {
		case err == nil:
			v.Pay = preview
		case errors.Is(err, modals.ErrNotFound):
			h.NotFound(c)
			return
		case errors.Is(err, modals.ErrNotPayable):
		default:
			h.failed(c, "failed to build pay dialog", err)
			return
		}
	}

	h.render(c, http.StatusOK, pageDashboard, "Dashboard", "dashboard", v)
}

// Requests handles GET /requests
func (h *Handler) Requests(c *gin.Context) {
	all, err := h.requests.List(c.Request.Context())
	if err != nil {
		h.failed(c, "failed to list requests", err)
		return
	}
	h.render(c, http.StatusOK, pageList, "Requests", "requests", rowsView{
		Description: "Every request you have sent or received.",
		Items:       all,
		Empty:       "No requests yet",
	})
}

// Inbox handles GET /inbox
func (h *Handler) Inbox(c *gin.Context) {
	p, err := h.requests.Partition(c.Request.Context())
	if err != nil {
		h.failed(c, "failed to partition requests", err)
		return
	}
	h.render(c, http.StatusOK, pageList, "Inbox", "inbox", rowsView{
		Description: "Requests waiting for your payment.",
		Items:       p.Incoming,
		Empty:       emptyText["incoming"],
		Actions:     true,
	})
}

// Giveaway handles GET /giveaway
func (h *Handler) Giveaway(c *gin.Context) {
	h.render(c, http.StatusOK, pageGiveaway, "Giveaway", "giveaway", nil)
}

// -----------------------------------------------------------------------------
// Request and send forms
// -----------------------------------------------------------------------------

type formView struct {
	Mode       modals.Mode
	Heading    string
	CardTitle  string
	Submit     string
	Recipient  string
	Amount     string
	Token      string
	Tokens     []string
	NetworkFee string
	Check      *addressbook.Result
	Errors     validation.ValidationErrors
}

func newFormView(mode modals.Mode) formView {
	v := formView{
		Mode:       modals.ModeRequest,
		Heading:    "New Payment Request",
		CardTitle:  "Request Payment",
		Submit:     "Review Request",
		Token:      requests.DefaultToken,
		Tokens:     requests.Tokens,
		NetworkFee: modals.NetworkFeeNote,
	}
	if mode == modals.ModeSend {
		v.Mode = modals.ModeSend
		v.Heading = "Send Money"
		v.CardTitle = "Send Payment"
		v.Submit = "Review Payment"
	}
	return v
}

// RequestForm handles GET /request
func (h *Handler) RequestForm(c *gin.Context) {
	h.render(c, http.StatusOK, pageForm, "New Request", "", newFormView(modals.ModeRequest))
}

// SendForm handles GET /send
func (h *Handler) SendForm(c *gin.Context) {
	h.render(c, http.StatusOK, pageForm, "Send Money", "", newFormView(modals.ModeSend))
}

// Review handles POST /request/review
//
// A valid form renders the review dialog; an invalid one re-renders the
// form with the recipient card and per-field messages.
func (h *Handler) Review(c *gin.Context) {
	in := modals.ReviewInput{
		Recipient: c.PostForm("recipient"),
		Amount:    c.PostForm("amount"),
		Token:     c.PostForm("token"),
		Mode:      modals.Mode(c.PostForm("mode")),
	}

	review, err := h.modals.Review(c.Request.Context(), in)
	if err == nil {
		h.render(c, http.StatusOK, pageReview, review.Title, "", review)
		return
	}

	var verrs validation.ValidationErrors
	if !errors.As(err, &verrs) {
		h.failed(c, "failed to build review", err)
		return
	}

	v := newFormView(in.Mode)
	v.Recipient = in.Recipient
	v.Amount = in.Amount
	if in.Token != "" {
		v.Token = in.Token
	}
	v.Check = h.validator.Validate(in.Recipient)
	v.Errors = verrs
	h.render(c, http.StatusBadRequest, pageForm, v.Heading, "", v)
}

// Pay handles POST /pay/:id
func (h *Handler) Pay(c *gin.Context) {
	receipt, err := h.modals.Pay(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		h.render(c, http.StatusOK, pageReceipt, "Payment sent", "", receipt)
	case errors.Is(err, modals.ErrNotFound):
		h.NotFound(c)
	case errors.Is(err, modals.ErrNotPayable):
		c.Redirect(http.StatusSeeOther, guard.DashboardPath)
	default:
		h.failed(c, "failed to pay request", err)
	}
}

// Decline handles POST /decline/:id. The request is left as it was.
func (h *Handler) Decline(c *gin.Context) {
	err := h.modals.Decline(c.Request.Context(), c.Param("id"))
	if errors.Is(err, modals.ErrNotFound) {
		h.NotFound(c)
		return
	}
	if err != nil {
		h.failed(c, "failed to decline request", err)
		return
	}
	c.Redirect(http.StatusSeeOther, guard.DashboardPath)
}

// -----------------------------------------------------------------------------
// Settings
// -----------------------------------------------------------------------------

type chainOption struct {
	chains.Chain
	Current bool
}

type settingsView struct {
	Address string
	Chains  []chainOption
	Error   string
}

func settingsFor(s *session.Session) settingsView {
	v := settingsView{}
	if s.Address != nil {
		v.Address = *s.Address
	}
	for _, ch := range chains.All() {
		v.Chains = append(v.Chains, chainOption{
			Chain:   ch,
			Current: s.ChainID != nil && *s.ChainID == ch.ID,
		})
	}
	return v
}

// Settings handles GET /settings
func (h *Handler) Settings(c *gin.Context) {
	h.render(c, http.StatusOK, pageSettings, "Settings", "settings", settingsFor(session.MustFrom(c)))
}

// SwitchChain handles POST /settings/chain
func (h *Handler) SwitchChain(c *gin.Context) {
	current := session.MustFrom(c)

	id, err := strconv.ParseInt(c.PostForm("chainId"), 10, 64)
	if err != nil {
		v := settingsFor(current)
		v.Error = "Pick a network"
		h.render(c, http.StatusBadRequest, pageSettings, "Settings", "settings", v)
		return
	}

	s, err := h.sessions.SwitchChain(c.Request.Context(), current.ID, id)
	switch {
	case err == nil:
		session.Replace(c, s)
		c.Redirect(http.StatusSeeOther, "/settings")
	case errors.Is(err, session.ErrInvalidChain):
		v := settingsFor(current)
		v.Error = err.Error()
		h.render(c, http.StatusBadRequest, pageSettings, "Settings", "settings", v)
	case errors.Is(err, session.ErrNotConnected):
		c.Redirect(http.StatusSeeOther, guard.LandingPath)
	default:
		h.failed(c, "failed to switch chain", err)
	}
}

func (h *Handler) failed(c *gin.Context, msg string, err error) {
	logging.L(c.Request.Context()).Error(msg, "error", err)
	c.String(http.StatusInternalServerError, "internal error")
}
