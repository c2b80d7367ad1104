package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/staffline/expense-erp/internal/domain/lifecycle"
	"github.com/staffline/expense-erp/internal/models"
	"github.com/staffline/expense-erp/internal/repository"
	"github.com/staffline/expense-erp/internal/service"
)

// Handlers contains all HTTP request handlers.
type Handlers struct {
	expenses *service.ExpenseService
	invoices *service.InvoiceService
	charges  *service.ChargeService
	reports  *service.ReportService
	logger   *zap.Logger
}

// NewHandlers creates a Handlers instance.
func NewHandlers(
	expenses *service.ExpenseService,
	invoices *service.InvoiceService,
	charges *service.ChargeService,
	reports *service.ReportService,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		expenses: expenses,
		invoices: invoices,
		charges:  charges,
		reports:  reports,
		logger:   logger,
	}
}

// Response is the standard JSON envelope.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{Success: false, Error: msg})
}

// respondErr maps service errors onto HTTP statuses. Unknown errors
// become a generic 500; the details stay in the logs.
func (h *Handlers) respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		fail(c, http.StatusNotFound, "not found")
	case errors.Is(err, lifecycle.ErrInvalidTransition),
		errors.Is(err, lifecycle.ErrGuardFailed):
		fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, lifecycle.ErrInvalidStatus),
		errors.Is(err, service.ErrAmountNotPositive),
		errors.Is(err, service.ErrUserIDRequired),
		errors.Is(err, service.ErrDateRequired),
		errors.Is(err, service.ErrInvoiceNumberRequired),
		errors.Is(err, service.ErrInvoiceNameRequired),
		errors.Is(err, service.ErrChargeNameRequired),
		errors.Is(err, service.ErrInvalidPeriod),
		errors.Is(err, service.ErrYearRequired),
		errors.Is(err, service.ErrMonthRequired):
		fail(c, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		fail(c, http.StatusInternalServerError, "internal error")
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// parseDate accepts date-only or RFC 3339 timestamps.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "expense-erp",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// ExpenseRequest is the create/update payload for an expense.
type ExpenseRequest struct {
	UserID         string          `json:"user_id"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	Date           string          `json:"date"`
	Company        string          `json:"company"`
	ClientName     string          `json:"client_name"`
	CandidateName  string          `json:"candidate_name"`
	Sector         string          `json:"sector"`
	ServiceName    string          `json:"service_name"`
	Overdue        bool            `json:"overdue"`
	OverdueDays    string          `json:"overdue_days"`
	PartialPayment bool            `json:"partial_payment"`
	PartialAmount  decimal.Decimal `json:"partial_amount"`
	FileURL        string          `json:"file_url"`
	FileName       string          `json:"file_name"`
}

func (req *ExpenseRequest) toModel() (*models.Expense, error) {
	exp := &models.Expense{
		UserID:         req.UserID,
		Amount:         req.Amount,
		Description:    req.Description,
		Company:        req.Company,
		ClientName:     req.ClientName,
		CandidateName:  req.CandidateName,
		Sector:         req.Sector,
		ServiceName:    req.ServiceName,
		Overdue:        req.Overdue,
		OverdueDays:    req.OverdueDays,
		PartialPayment: req.PartialPayment,
		PartialAmount:  req.PartialAmount,
		FileURL:        req.FileURL,
		FileName:       req.FileName,
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			return nil, err
		}
		exp.Date = date
	}
	return exp, nil
}

// CreateExpense handles POST /api/v1/expenses.
func (h *Handlers) CreateExpense(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := req.toModel()
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid date")
		return
	}
	if err := h.expenses.Create(exp); err != nil {
		h.respondErr(c, err)
		return
	}
	ok(c, http.StatusCreated, exp)
}

func expenseFilter(c *gin.Context) models.ExpenseFilter {
	month, _ := strconv.Atoi(c.Query("month"))
	year, _ := strconv.Atoi(c.Query("year"))
	return models.ExpenseFilter{
		UserID: c.Query("user_id"),
		Month:  month,
		Year:   year,
		Search: c.Query("search"),
	}
}

// ListExpenses handles GET /api/v1/expenses.
func (h *Handlers) ListExpenses(c *gin.Context) {
	views, err := h.expenses.List(expenseFilter(c))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, views)
}

// ListOverdueExpenses handles GET /api/v1/expenses/overdue.
func (h *Handlers) ListOverdueExpenses(c *gin.Context) {
	views, err := h.expenses.ListOverdue(expenseFilter(c))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, views)
}

// GetExpense handles GET /api/v1/expenses/:id.
func (h *Handlers) GetExpense(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}
	view, err := h.expenses.Get(id)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, view)
}

// UpdateExpense handles PUT /api/v1/expenses/:id.
func (h *Handlers) UpdateExpense(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := req.toModel()
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid date")
		return
	}
	exp.ID = id
	if err := h.expenses.Update(exp); err != nil {
		h.respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, exp)
}

// DeleteExpense handles DELETE /api/v1/expenses/:id.
func (h *Handlers) DeleteExpense(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}
	if err := h.expenses.Delete(id); err != nil {
		h.respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"id": id})
}

// StatusRequest changes an expense's receipt status.
type StatusRequest struct {
	// Action is one of: received, partial, settle, paid.
	Action        string          `json:"action"`
	PartialAmount decimal.Decimal `json:"partial_amount"`
}

// ChangeExpenseStatus handles POST /api/v1/expenses/:id/status.
func (h *Handlers) ChangeExpenseStatus(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		exp *models.Expense
		err error
	)
	switch req.Action {
	case "received":
		exp, err = h.expenses.MarkReceived(id)
	case "partial":
		exp, err = h.expenses.MarkPartial(id, req.PartialAmount)
	case "settle":
		exp, err = h.expenses.Settle(id)
	case "paid":
		exp, err = h.expenses.MarkPaid(id)
	default:
		fail(c, http.StatusBadRequest, "unknown action")
		return
	}
	if err != nil {
		h.respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, exp)
}

// SettleExpense handles POST /api/v1/expenses/:id/settle, a shortcut
// for the settle status action.
func (h *Handlers) SettleExpense(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}
	exp, err := h.expenses.Settle(id)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, exp)
}

// BulkDeleteRequest selects expenses for bulk deletion.
type BulkDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

// BulkDeleteExpenses handles POST /api/v1/expenses/bulk-delete. The
// response always carries per-item outcomes, even when some fail.
func (h *Handlers) BulkDeleteExpenses(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		fail(c, http.StatusBadRequest, "ids is required")
		return
	}

	result := h.expenses.BulkDelete(req.IDs)
	status := http.StatusOK
	if result.Failed > 0 {
		status = http.StatusMultiStatus
	}
	ok(c, status, result)
}

// InvoiceRequest is the create payload for an invoice.
type InvoiceRequest struct {
	InvoiceNumber string               `json:"invoice_number"`
	Date          string               `json:"date"`
	DueDate       string               `json:"due_date"`
	CompanyName   string               `json:"company_name"`
	CandidateName string               `json:"candidate_name"`
	Items         []models.InvoiceItem `json:"items"`
	Subtotal      decimal.Decimal      `json:"subtotal"`
	Discount      decimal.Decimal      `json:"discount"`
	Tax           decimal.Decimal      `json:"tax"`
	Total         decimal.Decimal      `json:"total"`
}

// CreateInvoice handles POST /api/v1/invoices.
func (h *Handlers) CreateInvoice(c *gin.Context) {
	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	inv := &models.Invoice{
		InvoiceNumber: req.InvoiceNumber,
		CompanyName:   req.CompanyName,
		CandidateName: req.CandidateName,
		Items:         req.Items,
		Subtotal:      req.Subtotal,
		Discount:      req.Discount,
		Tax:           req.Tax,
		Total:         req.Total,
	}
	for _, pair := range []struct {
		raw  string
		dest *time.Time
	}{{req.Date, &inv.Date}, {req.DueDate, &inv.DueDate}} {
		if pair.raw == "" {
			continue
		}
		t, err := parseDate(pair.raw)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid date")
			return
		}
		*pair.dest = t
	}

	if err := h.invoices.Create(inv); err != nil {
		h.respondErr(c, err)
		return
	}
	ok(c, http.StatusCreated, inv)
}

// ListInvoices handles GET /api/v1/invoices.
func (h *Handlers) ListInvoices(c *gin.Context) {
	invoices, err := h.invoices.List()
	if err != nil {
		h.respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, invoices)
}

// GetInvoice handles GET /api/v1/invoices/:id.
func (h *Handlers) GetInvoice(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}
	inv, err := h.invoices.Get(id)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, inv)
}

// DeleteInvoice handles DELETE /api/v1/invoices/:id.
func (h *Handlers) DeleteInvoice(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}
	if err := h.invoices.Delete(id); err != nil {
		h.respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"id": id})
}

// MarkInvoiceReceived handles POST /api/v1/invoices/:id/received.
func (h *Handlers) MarkInvoiceReceived(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}
	result, err := h.invoices.MarkReceived(id)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	status := http.StatusOK
	if result.Failed > 0 {
		status = http.StatusMultiStatus
	}
	ok(c, status, result)
}

// ServiceChargeRequest is the create/update payload for a price list
// entry.
type ServiceChargeRequest struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Sector string          `json:"sector"`
}

// CreateServiceCharge handles POST /api/v1/service-charges.
func (h *Handlers) CreateServiceCharge(c *gin.Context) {
	var req ServiceChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	sc := &models.ServiceCharge{Name: req.Name, Amount: req.Amount, Sector: req.Sector}
	if err := h.charges.Create(sc); err != nil {
		h.respondErr(c, err)
		return
	}
	ok(c, http.StatusCreated, sc)
}

// ListServiceCharges handles GET /api/v1/service-charges.
func (h *Handlers) ListServiceCharges(c *gin.Context) {
	charges, err := h.charges.List()
	if err != nil {
		h.respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, charges)
}

// UpdateServiceCharge handles PUT /api/v1/service-charges/:id.
func (h *Handlers) UpdateServiceCharge(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}

	var req ServiceChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	sc := &models.ServiceCharge{ID: id, Name: req.Name, Amount: req.Amount, Sector: req.Sector}
	if err := h.charges.Update(sc); err != nil {
		h.respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, sc)
}

// DeleteServiceCharge handles DELETE /api/v1/service-charges/:id.
func (h *Handlers) DeleteServiceCharge(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}
	if err := h.charges.Delete(id); err != nil {
		h.respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"id": id})
}

// ComputeReport handles POST /api/v1/reports/compute: the live
// profit/loss view, nothing persisted.
func (h *Handlers) ComputeReport(c *gin.Context) {
	var req service.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	st, err := h.reports.Compute(req)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, st)
}

// SaveReport handles POST /api/v1/reports: persists an immutable
// snapshot.
func (h *Handlers) SaveReport(c *gin.Context) {
	var req service.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.reports.Save(req)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	ok(c, http.StatusCreated, report)
}

// ListReports handles GET /api/v1/reports.
func (h *Handlers) ListReports(c *gin.Context) {
	reports, err := h.reports.List()
	if err != nil {
		h.respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, reports)
}

// GetReport handles GET /api/v1/reports/:id.
func (h *Handlers) GetReport(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}
	report, err := h.reports.Get(id)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, report)
}

// DeleteReport handles DELETE /api/v1/reports/:id.
func (h *Handlers) DeleteReport(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}
	if err := h.reports.Delete(id); err != nil {
		h.respondErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"id": id})
}

// ExportReport handles GET /api/v1/reports/:id/export: renders the
// snapshot to a spreadsheet and serves the file.
func (h *Handlers) ExportReport(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}
	path, err := h.reports.Export(id)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.FileAttachment(path, "profit_loss.xlsx")
}
