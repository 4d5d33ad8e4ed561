package finance

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/CharbelKaf/asset-tracker/internal/amount"
	"github.com/CharbelKaf/asset-tracker/internal/audit"
	"github.com/CharbelKaf/asset-tracker/internal/domain/entity"
	"github.com/CharbelKaf/asset-tracker/internal/extract"
)

// Snapshot keys in the persisted key-value store.
const (
	expensesKey = "finance_expenses"
	budgetsKey  = "finance_budgets"
)

// RefusalReason classifies why a mutation was refused.
type RefusalReason string

const (
	ReasonForbidden RefusalReason = "forbidden"
	ReasonDuplicate RefusalReason = "duplicate"
	ReasonInvalid   RefusalReason = "invalid"
	ReasonNotFound  RefusalReason = "not_found"
)

// MutationResult is the structured outcome of a ledger mutation. Refusals are
// expected outcomes, never errors; Conflict references the existing record
// when the reason is a duplicate.
type MutationResult struct {
	OK       bool                   `json:"ok"`
	Reason   RefusalReason          `json:"reason,omitempty"`
	Message  string                 `json:"message,omitempty"`
	Conflict *entity.FinanceExpense `json:"conflict,omitempty"`
	Expense  *entity.FinanceExpense `json:"expense,omitempty"`
}

func refuse(reason RefusalReason, format string, args ...interface{}) MutationResult {
	return MutationResult{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// PermissionOracle decides whether a role may manage finance data. Consulted
// before every mutation, ahead of any duplicate check.
type PermissionOracle interface {
	CanManageFinance(role string) (bool, string)
}

// RolePermissions is the default oracle: finance management is reserved for
// Admin and SuperAdmin.
type RolePermissions struct{}

// CanManageFinance implements PermissionOracle.
func (RolePermissions) CanManageFinance(role string) (bool, string) {
	if role == entity.RoleAdmin || role == entity.RoleSuperAdmin {
		return true, ""
	}
	return false, "la gestion financière requiert le rôle Admin"
}

// BlobStore is the slice of the external file store the ledger needs:
// best-effort cleanup of source documents on expense deletion.
type BlobStore interface {
	Delete(id string) error
}

// SnapshotStore persists the full expense/budget collections as JSON on every
// mutation. Get returns ok=false when the key has never been written.
type SnapshotStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Ledger owns the in-memory expense and budget collections. All mutations go
// through Insert/Update/Delete, which check permission first, deduplicate
// second, then roll the change into the matching yearly budget and persist a
// full snapshot.
type Ledger struct {
	mu       sync.Mutex
	expenses []entity.FinanceExpense
	budgets  []entity.FinanceBudget

	perms  PermissionOracle
	blobs  BlobStore
	events audit.Sink
	store  SnapshotStore
	logger *zap.Logger
	now    func() time.Time
}

// NewLedger builds a ledger and loads any previously persisted collections
// from the snapshot store.
func NewLedger(perms PermissionOracle, blobs BlobStore, events audit.Sink, store SnapshotStore, logger *zap.Logger) (*Ledger, error) {
	l := &Ledger{
		perms:  perms,
		blobs:  blobs,
		events: events,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	if err := l.load(); err != nil {
		return nil, fmt.Errorf("loading ledger state: %w", err)
	}
	return l, nil
}

func (l *Ledger) load() error {
	if raw, ok, err := l.store.Get(expensesKey); err != nil {
		return err
	} else if ok {
		if err := json.Unmarshal([]byte(raw), &l.expenses); err != nil {
			return fmt.Errorf("decoding expenses: %w", err)
		}
	}
	if raw, ok, err := l.store.Get(budgetsKey); err != nil {
		return err
	} else if ok {
		if err := json.Unmarshal([]byte(raw), &l.budgets); err != nil {
			return fmt.Errorf("decoding budgets: %w", err)
		}
	}
	return nil
}

// persist re-serializes both collections. Called under the mutex after every
// mutation; no incremental diffing.
func (l *Ledger) persist() {
	if raw, err := json.Marshal(l.expenses); err == nil {
		if err := l.store.Set(expensesKey, string(raw)); err != nil {
			l.logger.Error("persisting expenses failed", zap.Error(err))
		}
	}
	if raw, err := json.Marshal(l.budgets); err == nil {
		if err := l.store.Set(budgetsKey, string(raw)); err != nil {
			l.logger.Error("persisting budgets failed", zap.Error(err))
		}
	}
}

// Insert validates, deduplicates and appends a new expense, crediting its
// budget category. The fingerprint is computed when not supplied.
func (l *Ledger) Insert(actor entity.Actor, exp entity.FinanceExpense) MutationResult {
	if ok, reason := l.perms.CanManageFinance(actor.Role); !ok {
		return refuse(ReasonForbidden, "%s", reason)
	}
	if res := validateExpense(&exp); !res.OK {
		return res
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if exp.ImportFingerprint == "" {
		exp.ImportFingerprint = Fingerprint(exp.Supplier, exp.InvoiceNumber, exp.Amount, exp.Date)
	}
	if dup := l.findDuplicate(&exp, ""); dup != nil {
		conflict := *dup
		return MutationResult{
			Reason:   ReasonDuplicate,
			Message:  fmt.Sprintf("dépense déjà importée (%s, %s)", conflict.Supplier, amount.Format(conflict.Amount)),
			Conflict: &conflict,
		}
	}

	if exp.ID == "" {
		exp.ID = uuid.NewString()
	}
	if exp.Status == "" {
		exp.Status = entity.ExpenseStatusPaid
	}
	exp.CreatedAt = l.now()

	l.expenses = append(l.expenses, exp)
	l.credit(exp.Year(), CategoryForType(exp.Type), exp.Type, exp.Amount)
	l.persist()

	l.logEvent(actor, "expense_created", exp.ID, exp.Supplier,
		fmt.Sprintf("Dépense créée: %s (%s)", exp.Supplier, amount.Format(exp.Amount)),
		map[string]interface{}{"amount": exp.Amount, "type": exp.Type, "year": exp.Year()})

	inserted := exp
	return MutationResult{OK: true, Expense: &inserted}
}

// Update replaces an existing expense after re-running the permission and
// duplicate checks (excluding the record itself). The budget adjustment
// reverses the old contribution before applying the new one.
func (l *Ledger) Update(actor entity.Actor, id string, updated entity.FinanceExpense) MutationResult {
	if ok, reason := l.perms.CanManageFinance(actor.Role); !ok {
		return refuse(ReasonForbidden, "%s", reason)
	}
	if res := validateExpense(&updated); !res.OK {
		return res
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(id)
	if idx < 0 {
		return refuse(ReasonNotFound, "dépense %s introuvable", id)
	}
	old := l.expenses[idx]

	updated.ID = old.ID
	updated.CreatedAt = old.CreatedAt
	updated.ImportFingerprint = Fingerprint(updated.Supplier, updated.InvoiceNumber, updated.Amount, updated.Date)
	if dup := l.findDuplicate(&updated, id); dup != nil {
		conflict := *dup
		return MutationResult{
			Reason:   ReasonDuplicate,
			Message:  fmt.Sprintf("une autre dépense identique existe (%s)", conflict.ID),
			Conflict: &conflict,
		}
	}

	l.debit(old.Year(), CategoryForType(old.Type), old.Amount)
	l.expenses[idx] = updated
	l.credit(updated.Year(), CategoryForType(updated.Type), updated.Type, updated.Amount)
	l.persist()

	l.logEvent(actor, "expense_updated", updated.ID, updated.Supplier,
		fmt.Sprintf("Dépense modifiée: %s", updated.Supplier),
		map[string]interface{}{"old_amount": old.Amount, "new_amount": updated.Amount})

	result := updated
	return MutationResult{OK: true, Expense: &result}
}

// Delete removes an expense, reverses its budget contribution and schedules
// best-effort deletion of the source blob. Blob failures never block the
// expense deletion.
func (l *Ledger) Delete(actor entity.Actor, id string) MutationResult {
	if ok, reason := l.perms.CanManageFinance(actor.Role); !ok {
		return refuse(ReasonForbidden, "%s", reason)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(id)
	if idx < 0 {
		return refuse(ReasonNotFound, "dépense %s introuvable", id)
	}
	old := l.expenses[idx]

	l.debit(old.Year(), CategoryForType(old.Type), old.Amount)
	l.expenses = append(l.expenses[:idx], l.expenses[idx+1:]...)
	l.persist()

	if old.SourceFileID != "" {
		if err := l.blobs.Delete(old.SourceFileID); err != nil {
			l.logger.Warn("source blob cleanup failed",
				zap.String("expense_id", old.ID),
				zap.String("file_id", old.SourceFileID),
				zap.Error(err))
		}
	}

	l.logEvent(actor, "expense_deleted", old.ID, old.Supplier,
		fmt.Sprintf("Dépense supprimée: %s (%s)", old.Supplier, amount.Format(old.Amount)),
		map[string]interface{}{"amount": old.Amount, "year": old.Year()})

	deleted := old
	return MutationResult{OK: true, Expense: &deleted}
}

// Expenses returns a copy of all persisted expenses.
func (l *Ledger) Expenses() []entity.FinanceExpense {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]entity.FinanceExpense, len(l.expenses))
	copy(out, l.expenses)
	return out
}

// ExpensesByYear returns the expenses whose date falls in the given year.
func (l *Ledger) ExpensesByYear(year int) []entity.FinanceExpense {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []entity.FinanceExpense
	for i := range l.expenses {
		if l.expenses[i].Year() == year {
			out = append(out, l.expenses[i])
		}
	}
	return out
}

// Expense returns the expense with the given id, or nil.
func (l *Ledger) Expense(id string) *entity.FinanceExpense {
	l.mu.Lock()
	defer l.mu.Unlock()
	if idx := l.indexOf(id); idx >= 0 {
		exp := l.expenses[idx]
		return &exp
	}
	return nil
}

// Budgets returns a copy of all yearly budgets, sorted by year descending.
func (l *Ledger) Budgets() []entity.FinanceBudget {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]entity.FinanceBudget, len(l.budgets))
	copy(out, l.budgets)
	sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out
}

// Budget returns the budget for the given year, or nil.
func (l *Ledger) Budget(year int) *entity.FinanceBudget {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.budgets {
		if l.budgets[i].Year == year {
			b := l.budgets[i]
			return &b
		}
	}
	return nil
}

// ApplyBudgetDraft creates or updates the yearly budget allocations from an
// extracted draft. Existing category lines keep their spent aggregate; only
// allocations change.
func (l *Ledger) ApplyBudgetDraft(actor entity.Actor, draft entity.BudgetDraft) MutationResult {
	if ok, reason := l.perms.CanManageFinance(actor.Role); !ok {
		return refuse(ReasonForbidden, "%s", reason)
	}
	if draft.Year == 0 || len(draft.Lines) == 0 {
		return refuse(ReasonInvalid, "brouillon de budget vide")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	budget := l.budgetFor(draft.Year)
	for _, line := range draft.Lines {
		amt, ok := amount.Parse(line.Amount)
		if !ok || amt <= 0 {
			continue
		}
		if item := budget.Item(line.Category); item != nil {
			item.Allocated = amt
		} else {
			budget.Items = append(budget.Items, entity.FinanceBudgetItem{
				Category:  line.Category,
				Type:      extract.ClassifyBudgetLine(amt),
				Allocated: amt,
			})
		}
	}
	budget.RecomputeTotal()
	budget.UpdatedAt = l.now()
	l.persist()

	l.logEvent(actor, "budget_imported", fmt.Sprintf("%d", draft.Year), "",
		fmt.Sprintf("Budget %d importé (%d lignes)", draft.Year, len(draft.Lines)),
		map[string]interface{}{"year": draft.Year, "lines": len(draft.Lines)})

	return MutationResult{OK: true}
}

// findDuplicate scans existing expenses for a fingerprint match, an
// invoice+supplier+amount match, or a source-filename+amount match. excludeID
// skips a record's own prior identity during updates.
func (l *Ledger) findDuplicate(exp *entity.FinanceExpense, excludeID string) *entity.FinanceExpense {
	supplier := normalizeToken(exp.Supplier)
	for i := range l.expenses {
		existing := &l.expenses[i]
		if existing.ID == excludeID {
			continue
		}
		if existing.ImportFingerprint != "" && existing.ImportFingerprint == exp.ImportFingerprint {
			return existing
		}
		if exp.InvoiceNumber != "" && existing.InvoiceNumber == exp.InvoiceNumber &&
			normalizeToken(existing.Supplier) == supplier && existing.Amount == exp.Amount {
			return existing
		}
		if exp.SourceFileName != "" && existing.SourceFileName == exp.SourceFileName &&
			existing.Amount == exp.Amount {
			return existing
		}
	}
	return nil
}

func (l *Ledger) indexOf(id string) int {
	for i := range l.expenses {
		if l.expenses[i].ID == id {
			return i
		}
	}
	return -1
}

// budgetFor returns the budget record for the year, creating it when absent.
// Budgets for past years are created already closed.
func (l *Ledger) budgetFor(year int) *entity.FinanceBudget {
	for i := range l.budgets {
		if l.budgets[i].Year == year {
			return &l.budgets[i]
		}
	}
	status := entity.BudgetStatusOpen
	if year < l.now().Year() {
		status = entity.BudgetStatusClosed
	}
	l.budgets = append(l.budgets, entity.FinanceBudget{
		Year:      year,
		Status:    status,
		UpdatedAt: l.now(),
	})
	return &l.budgets[len(l.budgets)-1]
}

// credit adds an expense amount to the year/category spent aggregate,
// creating the category line (and the yearly budget) when absent.
func (l *Ledger) credit(year int, category, expenseType string, amt float64) {
	if year == 0 {
		return
	}
	budget := l.budgetFor(year)
	item := budget.Item(category)
	if item == nil {
		budget.Items = append(budget.Items, entity.FinanceBudgetItem{
			Category: category,
			Type:     expenseType,
		})
		item = &budget.Items[len(budget.Items)-1]
	}
	item.Spent += amt
	budget.UpdatedAt = l.now()
}

// debit removes an expense amount from the aggregate, clamping at zero.
func (l *Ledger) debit(year int, category string, amt float64) {
	if year == 0 {
		return
	}
	for i := range l.budgets {
		if l.budgets[i].Year != year {
			continue
		}
		if item := l.budgets[i].Item(category); item != nil {
			item.Spent -= amt
			if item.Spent < 0 {
				item.Spent = 0
			}
			l.budgets[i].UpdatedAt = l.now()
		}
		return
	}
}

func (l *Ledger) logEvent(actor entity.Actor, eventType, targetID, targetName, description string, metadata map[string]interface{}) {
	l.events.LogEvent(audit.Event{
		Type:        eventType,
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		ActorRole:   actor.Role,
		TargetType:  "finance",
		TargetID:    targetID,
		TargetName:  targetName,
		Description: description,
		Metadata:    metadata,
	})
}

// validateExpense enforces the persistence invariants before any duplicate
// check runs.
func validateExpense(exp *entity.FinanceExpense) MutationResult {
	if exp.Amount <= 0 {
		return refuse(ReasonInvalid, "le montant doit être positif")
	}
	if exp.Supplier == "" {
		return refuse(ReasonInvalid, "le fournisseur est requis")
	}
	if !entity.ValidExpenseTypes[exp.Type] {
		return refuse(ReasonInvalid, "type de dépense %q inconnu", exp.Type)
	}
	if _, err := time.Parse("2006-01-02", exp.Date); err != nil {
		return refuse(ReasonInvalid, "date %q invalide (format attendu AAAA-MM-JJ)", exp.Date)
	}
	return MutationResult{OK: true}
}
