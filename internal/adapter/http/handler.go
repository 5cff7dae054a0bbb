package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/simaogato/cashil-backend/internal/usecase/dashboard"
	"github.com/simaogato/cashil-backend/internal/usecase/export"
	"github.com/simaogato/cashil-backend/internal/usecase/ledger"
)

// TransactionHandler serves the transaction, summary and export endpoints
type TransactionHandler struct {
	Ledger    *ledger.Service
	Dashboard *dashboard.DashboardService
	Location  *time.Location
	log       zerolog.Logger
	now       func() time.Time
}

// NewTransactionHandler creates a new TransactionHandler instance
// loc is the app time zone used for date inputs and as the default observer zone.
func NewTransactionHandler(ledgerService *ledger.Service, dashboardService *dashboard.DashboardService, loc *time.Location, log zerolog.Logger) *TransactionHandler {
	if loc == nil {
		loc = time.Local
	}
	return &TransactionHandler{
		Ledger:    ledgerService,
		Dashboard: dashboardService,
		Location:  loc,
		log:       log,
		now:       time.Now,
	}
}

// List handles GET /api/transactions
func (h *TransactionHandler) List(c *gin.Context) {
	loc, ok := h.location(c)
	if !ok {
		return
	}

	transactions, err := h.Ledger.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTransactionResponses(transactions, loc))
}

// Get handles GET /api/transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	loc, ok := h.location(c)
	if !ok {
		return
	}

	tx, err := h.Ledger.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTransactionResponse(tx, loc))
}

// Create handles POST /api/transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	loc, ok := h.location(c)
	if !ok {
		return
	}
	input, ok := h.bindInput(c)
	if !ok {
		return
	}

	tx, err := h.Ledger.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTransactionResponse(tx, loc))
}

// Update handles PUT /api/transactions/:id
func (h *TransactionHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	loc, ok := h.location(c)
	if !ok {
		return
	}
	input, ok := h.bindInput(c)
	if !ok {
		return
	}

	tx, err := h.Ledger.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTransactionResponse(tx, loc))
}

// Delete handles DELETE /api/transactions/:id
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.Ledger.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Summary handles GET /api/summary?tz=Area/City
func (h *TransactionHandler) Summary(c *gin.Context) {
	loc, ok := h.location(c)
	if !ok {
		return
	}

	summary, err := h.Dashboard.GetSummary(c.Request.Context(), loc)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSummaryResponse(summary, loc))
}

// Export handles GET /api/export.xlsx?tz=Area/City
func (h *TransactionHandler) Export(c *gin.Context) {
	loc, ok := h.location(c)
	if !ok {
		return
	}

	snapshot, err := h.Dashboard.GetSnapshot(c.Request.Context(), loc)
	if err != nil {
		respondError(c, err)
		return
	}

	// Render fully before writing headers so failures still get a JSON error
	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, snapshot.Transactions, snapshot.Summary, loc); err != nil {
		h.log.Error().Err(err).Int("transactions", len(snapshot.Transactions)).Msg("failed to render workbook")
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(h.now().In(loc))))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

func (h *TransactionHandler) bindInput(c *gin.Context) (ledger.TransactionInput, bool) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, fmt.Sprintf("invalid request body: %v", err))
		return ledger.TransactionInput{}, false
	}

	input, err := req.toInput(h.Location)
	if err != nil {
		respondError(c, err)
		return ledger.TransactionInput{}, false
	}
	return input, true
}

// location resolves the observer zone from ?tz=, defaulting to the app zone
func (h *TransactionHandler) location(c *gin.Context) (*time.Location, bool) {
	tz := strings.TrimSpace(c.Query("tz"))
	if tz == "" {
		return h.Location, true
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		h.log.Debug().Str("tz", tz).Msg("rejected unknown time zone")
		respondBadRequest(c, fmt.Sprintf("unknown time zone %q", tz))
		return nil, false
	}
	return loc, true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid transaction id")
		return uuid.Nil, false
	}
	return id, true
}
