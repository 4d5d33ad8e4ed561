package server

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CharbelKaf/asset-tracker/internal/amount"
	"github.com/CharbelKaf/asset-tracker/internal/document"
	"github.com/CharbelKaf/asset-tracker/internal/domain/entity"
	"github.com/CharbelKaf/asset-tracker/internal/domain/workflow"
	"github.com/CharbelKaf/asset-tracker/internal/extract"
	"github.com/CharbelKaf/asset-tracker/internal/finance"
	"github.com/CharbelKaf/asset-tracker/internal/rules"
)

// BlobSaver is the slice of the blob store the import path needs. Delete
// backs out a saved source document when the insert it belonged to is
// refused.
type BlobSaver interface {
	Save(name string, content []byte) (string, error)
	Delete(id string) error
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	expenses *extract.ExpenseExtractor
	budgets  *extract.BudgetExtractor
	ledger   *finance.Ledger
	blobs    BlobSaver
	logger   *zap.Logger
	now      func() time.Time
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	expenses *extract.ExpenseExtractor,
	budgets *extract.BudgetExtractor,
	ledger *finance.Ledger,
	blobs BlobSaver,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		expenses: expenses,
		budgets:  budgets,
		ledger:   ledger,
		blobs:    blobs,
		logger:   logger,
		now:      time.Now,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ActorDTO identifies the acting user on mutation requests.
type ActorDTO struct {
	ID        string   `json:"id" binding:"required"`
	Name      string   `json:"name"`
	Role      string   `json:"role" binding:"required"`
	ManagesID []string `json:"manages_id"`
}

func (a ActorDTO) entity() entity.Actor {
	return entity.Actor{ID: a.ID, Name: a.Name, Role: a.Role, ManagesID: a.ManagesID}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// readUpload reads the multipart file under the given form field.
func (h *Handlers) readUpload(c *gin.Context, field string) (document.MemFile, bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "missing file upload"})
		return document.MemFile{}, false
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "unreadable file upload"})
		return document.MemFile{}, false
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "unreadable file upload"})
		return document.MemFile{}, false
	}
	return document.MemFile{FileName: fileHeader.Filename, Content: content}, true
}

// ExtractExpense handles POST /api/v1/extract/expense
func (h *Handlers) ExtractExpense(c *gin.Context) {
	file, ok := h.readUpload(c, "file")
	if !ok {
		return
	}
	draft := h.expenses.Extract(c.Request.Context(), file)
	c.JSON(http.StatusOK, Response{Success: true, Data: draft})
}

// ExtractBudget handles POST /api/v1/extract/budget
func (h *Handlers) ExtractBudget(c *gin.Context) {
	file, ok := h.readUpload(c, "file")
	if !ok {
		return
	}
	draft := h.budgets.Extract(c.Request.Context(), file)
	c.JSON(http.StatusOK, Response{Success: true, Data: draft})
}

// CreateExpenseRequest carries a confirmed draft to persist.
type CreateExpenseRequest struct {
	Actor              ActorDTO              `json:"actor" binding:"required"`
	Expense            entity.FinanceExpense `json:"expense" binding:"required"`
	ReviewAcknowledged bool                  `json:"review_acknowledged"`
}

// CreateExpense handles POST /api/v1/expenses
func (h *Handlers) CreateExpense(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	// Low-confidence extractions need an explicit review acknowledgment
	// before they may be persisted.
	if req.Expense.ExtractionConfidence == entity.ConfidenceLow && !req.ReviewAcknowledged {
		c.JSON(http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   "extraction peu fiable: une revue manuelle est requise avant l'enregistrement",
		})
		return
	}

	res := h.ledger.Insert(req.Actor.entity(), req.Expense)
	h.respondMutation(c, res, http.StatusCreated)
}

// UpdateExpense handles PUT /api/v1/expenses/:id
func (h *Handlers) UpdateExpense(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}
	res := h.ledger.Update(req.Actor.entity(), c.Param("id"), req.Expense)
	h.respondMutation(c, res, http.StatusOK)
}

// DeleteExpenseRequest identifies the acting user.
type DeleteExpenseRequest struct {
	Actor ActorDTO `json:"actor" binding:"required"`
}

// DeleteExpense handles DELETE /api/v1/expenses/:id
func (h *Handlers) DeleteExpense(c *gin.Context) {
	var req DeleteExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}
	res := h.ledger.Delete(req.Actor.entity(), c.Param("id"))
	h.respondMutation(c, res, http.StatusOK)
}

// ListExpenses handles GET /api/v1/expenses
func (h *Handlers) ListExpenses(c *gin.Context) {
	var query struct {
		Year int    `form:"year"`
		Type string `form:"type"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid query parameters"})
		return
	}

	var expenses []entity.FinanceExpense
	if query.Year > 0 {
		expenses = h.ledger.ExpensesByYear(query.Year)
	} else {
		expenses = h.ledger.Expenses()
	}
	if query.Type != "" {
		filtered := expenses[:0]
		for _, e := range expenses {
			if e.Type == query.Type {
				filtered = append(filtered, e)
			}
		}
		expenses = filtered
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: expenses})
}

// GetExpense handles GET /api/v1/expenses/:id
func (h *Handlers) GetExpense(c *gin.Context) {
	exp := h.ledger.Expense(c.Param("id"))
	if exp == nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "expense not found"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: exp})
}

// ImportReport accumulates per-file outcomes of a batch import.
type ImportReport struct {
	Imported    int                `json:"imported"`
	Duplicates  int                `json:"duplicates"`
	NeedsReview int                `json:"needs_review"`
	Failed      int                `json:"failed"`
	Results     []ImportFileResult `json:"results"`
}

// ImportFileResult is the outcome for one imported file.
type ImportFileResult struct {
	FileName string               `json:"file_name"`
	Status   string               `json:"status"` // imported, duplicate, needs_review, failed
	Reason   string               `json:"reason,omitempty"`
	Draft    *entity.ExpenseDraft `json:"draft,omitempty"`
}

// ImportExpenses handles POST /api/v1/expenses/import. Files are processed
// one at a time so duplicate detection sees each accepted expense before the
// next file is considered.
func (h *Handlers) ImportExpenses(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid multipart form"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "no files provided"})
		return
	}

	actor := entity.Actor{
		ID:   c.PostForm("actor_id"),
		Name: c.PostForm("actor_name"),
		Role: c.PostForm("actor_role"),
	}
	if actor.ID == "" || actor.Role == "" {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "actor_id and actor_role are required"})
		return
	}

	report := ImportReport{}
	for _, fileHeader := range files {
		result := ImportFileResult{FileName: fileHeader.Filename}

		f, err := fileHeader.Open()
		if err != nil {
			result.Status = "failed"
			result.Reason = "fichier illisible"
			report.Failed++
			report.Results = append(report.Results, result)
			continue
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			result.Status = "failed"
			result.Reason = "fichier illisible"
			report.Failed++
			report.Results = append(report.Results, result)
			continue
		}

		file := document.MemFile{FileName: fileHeader.Filename, Content: content}
		draft := h.expenses.Extract(c.Request.Context(), file)

		if draft.Confidence == entity.ConfidenceLow {
			result.Status = "needs_review"
			result.Reason = "extraction peu fiable, revue manuelle requise"
			result.Draft = &draft
			report.NeedsReview++
			report.Results = append(report.Results, result)
			continue
		}

		exp, buildErr := h.expenseFromDraft(draft)
		if buildErr != "" {
			result.Status = "failed"
			result.Reason = buildErr
			report.Failed++
			report.Results = append(report.Results, result)
			continue
		}

		// Blob storage is best effort: a failed save still imports the
		// expense, just without a retrievable source document.
		if blobID, err := h.blobs.Save(fileHeader.Filename, content); err != nil {
			h.logger.Warn("source blob save failed",
				zap.String("file", fileHeader.Filename),
				zap.Error(err))
		} else {
			exp.SourceFileID = blobID
		}

		res := h.ledger.Insert(actor, exp)
		switch {
		case res.OK:
			result.Status = "imported"
			report.Imported++
		case res.Reason == finance.ReasonDuplicate:
			result.Status = "duplicate"
			result.Reason = res.Message
			report.Duplicates++
		default:
			result.Status = "failed"
			result.Reason = res.Message
			report.Failed++
		}
		if !res.OK && exp.SourceFileID != "" {
			// Blobs live and die with their expense. Best effort, like
			// the ledger's own delete path.
			if err := h.blobs.Delete(exp.SourceFileID); err != nil {
				h.logger.Warn("orphan blob cleanup failed",
					zap.String("blob_id", exp.SourceFileID),
					zap.Error(err))
			}
		}
		report.Results = append(report.Results, result)
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: report})
}

// expenseFromDraft converts a confirmed draft into a persistable expense.
// Returns a user-facing reason when the draft lacks a usable amount.
func (h *Handlers) expenseFromDraft(draft entity.ExpenseDraft) (entity.FinanceExpense, string) {
	amt, ok := amount.Parse(draft.Amount)
	if !ok || amt <= 0 {
		return entity.FinanceExpense{}, "montant non détecté"
	}
	return entity.FinanceExpense{
		Date:                 draft.Date,
		Supplier:             draft.Supplier,
		Amount:               amt,
		Type:                 draft.Type,
		Status:               entity.ExpenseStatusPaid,
		Description:          draft.Description,
		InvoiceNumber:        draft.InvoiceNumber,
		SourceFileName:       draft.SourceFileName,
		ExtractionConfidence: draft.Confidence,
		CurrencyCode:         draft.CurrencyCode,
		ExtractionSource:     draft.Source,
		TextSource:           draft.Source,
	}, ""
}

// ListBudgets handles GET /api/v1/budgets
func (h *Handlers) ListBudgets(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Success: true, Data: h.ledger.Budgets()})
}

// GetBudget handles GET /api/v1/budgets/:year
func (h *Handlers) GetBudget(c *gin.Context) {
	var params struct {
		Year int `uri:"year" binding:"required"`
	}
	if err := c.ShouldBindUri(&params); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid year"})
		return
	}
	budget := h.ledger.Budget(params.Year)
	if budget == nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "budget not found"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: budget})
}

// ImportBudget handles POST /api/v1/budgets/import: extract a budget draft
// from the uploaded file and apply its allocations.
func (h *Handlers) ImportBudget(c *gin.Context) {
	file, ok := h.readUpload(c, "file")
	if !ok {
		return
	}
	actor := entity.Actor{
		ID:   c.PostForm("actor_id"),
		Name: c.PostForm("actor_name"),
		Role: c.PostForm("actor_role"),
	}
	if actor.ID == "" || actor.Role == "" {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "actor_id and actor_role are required"})
		return
	}

	draft := h.budgets.Extract(c.Request.Context(), file)
	if len(draft.Lines) == 0 {
		c.JSON(http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   "aucune ligne de budget détectée",
			Data:    draft,
		})
		return
	}

	res := h.ledger.ApplyBudgetDraft(actor, draft)
	if !res.OK {
		h.respondMutation(c, res, http.StatusOK)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{
		"draft":  draft,
		"budget": h.ledger.Budget(draft.Year),
	}})
}

// TransitionRequest carries a caller-owned approval record plus the requested
// transition.
type TransitionRequest struct {
	Actor        ActorDTO        `json:"actor" binding:"required"`
	Approval     entity.Approval `json:"approval" binding:"required"`
	TargetStatus string          `json:"target_status" binding:"required"`
}

// TransitionApproval handles POST /api/v1/approvals/:id/transition. The
// approval record travels with the request; on success the mutated approval
// and the derived equipment patch are returned for the caller to store.
func (h *Handlers) TransitionApproval(c *gin.Context) {
	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}
	if req.Approval.ID != c.Param("id") {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "approval id mismatch"})
		return
	}

	decision, patch := workflow.ApplyTransition(&req.Approval, workflow.Status(req.TargetStatus), req.Actor.entity(), h.now())
	if !decision.Allowed {
		c.JSON(http.StatusConflict, Response{Success: false, Error: decision.Reason})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{
		"approval":        req.Approval,
		"equipment_patch": patch,
	}})
}

// EquipmentRequest carries a caller-owned equipment record.
type EquipmentRequest struct {
	Actor     ActorDTO         `json:"actor" binding:"required"`
	Equipment entity.Equipment `json:"equipment" binding:"required"`
	Condition string           `json:"condition"`
}

func (h *Handlers) bindEquipment(c *gin.Context) (*EquipmentRequest, bool) {
	var req EquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return nil, false
	}
	if req.Equipment.ID != c.Param("id") {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "equipment id mismatch"})
		return nil, false
	}
	return &req, true
}

// InitiateReturn handles POST /api/v1/equipment/:id/return/initiate
func (h *Handlers) InitiateReturn(c *gin.Context) {
	req, ok := h.bindEquipment(c)
	if !ok {
		return
	}
	decision := rules.InitiateReturn(&req.Equipment, req.Actor.ID, h.now())
	if !decision.Allowed {
		c.JSON(http.StatusConflict, Response{Success: false, Error: decision.Reason})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: req.Equipment})
}

// InspectReturn handles POST /api/v1/equipment/:id/return/inspect
func (h *Handlers) InspectReturn(c *gin.Context) {
	req, ok := h.bindEquipment(c)
	if !ok {
		return
	}
	if req.Condition == "" {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "condition is required"})
		return
	}
	decision := rules.InspectReturn(&req.Equipment, req.Condition, h.now())
	if !decision.Allowed {
		c.JSON(http.StatusConflict, Response{Success: false, Error: decision.Reason})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: req.Equipment})
}

// DeleteEquipment handles DELETE /api/v1/equipment/:id: the guard decision
// for a caller-owned record.
func (h *Handlers) DeleteEquipment(c *gin.Context) {
	req, ok := h.bindEquipment(c)
	if !ok {
		return
	}
	decision := rules.CanDeleteEquipment(&req.Equipment)
	if !decision.Allowed {
		c.JSON(http.StatusConflict, Response{Success: false, Error: decision.Reason})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// respondMutation maps a ledger result onto an HTTP status.
func (h *Handlers) respondMutation(c *gin.Context, res finance.MutationResult, okStatus int) {
	if res.OK {
		c.JSON(okStatus, Response{Success: true, Data: res.Expense})
		return
	}

	status := http.StatusInternalServerError
	switch res.Reason {
	case finance.ReasonForbidden:
		status = http.StatusForbidden
	case finance.ReasonDuplicate:
		status = http.StatusConflict
	case finance.ReasonInvalid:
		status = http.StatusUnprocessableEntity
	case finance.ReasonNotFound:
		status = http.StatusNotFound
	}
	c.JSON(status, Response{Success: false, Error: res.Message, Data: res.Conflict})
}
