package http

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cashflow/internal/core"
	"cashflow/internal/services"
)

// txView is a transaction prepared for template rendering.
type txView struct {
	ID          int
	Date        string
	Description string
	Account     string
	Amount      string
	Balance     string
	IsDebit     bool
}

func newTxView(t core.Transaction) txView {
	return txView{
		ID:          t.ID,
		Date:        t.Date.String(),
		Description: t.Description,
		Account:     t.Account,
		Amount:      core.FormatAmount(t.Amount),
		Balance:     core.FormatAmount(t.Balance),
		IsDebit:     t.IsDebit(),
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	snapshot := s.ledger.Snapshot()
	rows := make([]txView, 0, len(snapshot))
	for _, t := range snapshot {
		rows = append(rows, newTxView(t))
	}

	// Filter defaults span the whole ledger so the initial report shows
	// everything.
	start, end, ok := s.ledger.DateBounds()
	if !ok {
		today := time.Now()
		start = core.NewDate(today.Year(), int(today.Month()), today.Day())
		end = start
	}

	data := struct {
		Today        string
		Accounts     []string
		Transactions []txView
		FilterStart  string
		FilterEnd    string
	}{
		Today:        core.NewDate(time.Now().Year(), int(time.Now().Month()), time.Now().Day()).String(),
		Accounts:     s.ledger.Accounts(),
		Transactions: rows,
		FilterStart:  start.String(),
		FilterEnd:    end.String(),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "index.html")
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// txInput holds the validated fields of the create/update form.
type txInput struct {
	Date        core.Date
	Description string
	Account     string
	Amount      decimal.Decimal
}

// parseTransactionForm reads the shared create/update form fields.
func (s *Server) parseTransactionForm(r *http.Request) (txInput, string) {
	dateStr := strings.TrimSpace(r.Form.Get("date"))
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return txInput{}, "Invalid date"
	}

	desc := sanitizeInput(r.Form.Get("description"))
	account := sanitizeInput(r.Form.Get("account"))
	kind := strings.TrimSpace(r.Form.Get("kind"))
	amountStr := strings.TrimSpace(r.Form.Get("amount"))

	amount, err := core.ParseAmount(amountStr)
	if err != nil {
		return txInput{}, "Invalid amount"
	}
	// The form collects a magnitude; the kind radio sets the sign.
	if kind == "debit" {
		amount = amount.Abs().Neg()
	} else {
		amount = amount.Abs()
	}

	if !s.ledger.HasAccount(account) {
		return txInput{}, "Unknown account"
	}

	return txInput{
		Date:        date,
		Description: desc,
		Account:     account,
		Amount:      amount,
	}, ""
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	tx, problem := s.parseTransactionForm(r)
	if problem != "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(problem) + `</div>`))
		return
	}

	id, err := s.ledger.Insert(r.Context(), tx.Date, tx.Description, tx.Account, tx.Amount)
	if err != nil {
		if errors.Is(err, services.ErrPersistence) {
			slog.ErrorContext(r.Context(), "Transaction saved in memory only",
				"error", err,
				"description", tx.Description,
				"account", tx.Account,
				"component", "transaction_handler",
				"operation", "create")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`<div class="error">Transaction recorded but could not be saved to storage</div>`))
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid data: ` + template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}

	slog.InfoContext(r.Context(), "Transaction created",
		"serial", id,
		"description", tx.Description,
		"account", tx.Account,
		"component", "transaction_handler",
		"operation", "create")

	successMsg := fmt.Sprintf("Recorded #%d: %s, %s (%s)",
		id,
		template.HTMLEscapeString(tx.Description),
		template.HTMLEscapeString(core.FormatAmount(tx.Amount)),
		template.HTMLEscapeString(tx.Account))

	w.Header().Set("HX-Trigger", fmt.Sprintf(`{
		"form:reset": {},
		"show-notification": {"type": "success", "message": "%s", "duration": 3000},
		"ledger:changed": {}
	}`, template.JSEscapeString(successMsg)))

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(""))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	id, err := strconv.Atoi(strings.TrimSpace(r.Form.Get("id")))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Missing transaction number</div>`))
		return
	}

	tx, problem := s.parseTransactionForm(r)
	if problem != "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(problem) + `</div>`))
		return
	}

	err = s.ledger.Update(r.Context(), id, tx.Date, tx.Description, tx.Account, tx.Amount)
	switch {
	case errors.Is(err, core.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<div class="error">Transaction not found</div>`))
		return
	case errors.Is(err, services.ErrPersistence):
		slog.ErrorContext(r.Context(), "Transaction updated in memory only",
			"error", err, "serial", id, "component", "transaction_handler", "operation", "update")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Transaction updated but could not be saved to storage</div>`))
		return
	case err != nil:
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid data: ` + template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}

	slog.InfoContext(r.Context(), "Transaction updated",
		"serial", id,
		"component", "transaction_handler",
		"operation", "update")

	w.Header().Set("HX-Trigger", fmt.Sprintf(`{
		"show-notification": {"type": "success", "message": "Transaction #%d updated", "duration": 2000},
		"ledger:changed": {}
	}`, id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(""))
}

func (s *Server) handleDeleteTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	var ids []int
	for _, v := range r.Form["id"] {
		id, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`<div class="error">Invalid transaction number</div>`))
			return
		}
		ids = append(ids, id)
	}

	// Not an error: the original UI just warns when nothing is ticked.
	if len(ids) == 0 {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`<div class="warning">No transactions selected</div>`))
		return
	}

	removed, err := s.ledger.DeleteMany(r.Context(), ids)
	if err != nil {
		if errors.Is(err, services.ErrPersistence) {
			slog.ErrorContext(r.Context(), "Transactions deleted in memory only",
				"error", err, "ids", ids, "component", "transaction_handler", "operation", "delete")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`<div class="error">Transactions removed but storage could not be updated</div>`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="error">Error deleting transactions</div>`))
		return
	}

	slog.InfoContext(r.Context(), "Transactions deleted",
		"requested", len(ids),
		"removed", removed,
		"component", "transaction_handler",
		"operation", "delete")

	w.Header().Set("HX-Trigger", fmt.Sprintf(`{
		"show-notification": {"type": "success", "message": "Deleted %d transaction(s)", "duration": 2000},
		"ledger:changed": {}
	}`, removed))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(""))
}

// handleEditForm serves the update form pre-filled with the current
// values of one transaction, addressed by its current serial.
func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	id, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("id")))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Missing transaction number</div>`))
		return
	}

	tx, err := s.ledger.Get(id)
	if errors.Is(err, core.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<div class="error">Transaction not found</div>`))
		return
	}

	data := struct {
		ID          int
		Date        string
		Description string
		Account     string
		Accounts    []string
		Amount      string
		IsDebit     bool
	}{
		ID:          tx.ID,
		Date:        tx.Date.String(),
		Description: tx.Description,
		Account:     tx.Account,
		Accounts:    s.ledger.Accounts(),
		Amount:      core.FormatAmount(tx.Amount.Abs()),
		IsDebit:     tx.IsDebit(),
	}

	if err := s.templates.ExecuteTemplate(w, "edit_form.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "edit_form.html")
		_, _ = w.Write([]byte(`<div class="error">Error rendering edit form</div>`))
	}
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		for _, name := range s.ledger.Accounts() {
			escaped := template.HTMLEscapeString(name)
			_, _ = w.Write([]byte(fmt.Sprintf(`<option value="%s">%s</option>`, escaped, escaped)))
		}
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
			return
		}
		name := sanitizeInput(r.Form.Get("name"))
		err := s.ledger.AddAccount(r.Context(), name)
		switch {
		case errors.Is(err, core.ErrEmptyAccountName):
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Account name is required</div>`))
			return
		case errors.Is(err, core.ErrDuplicateAccount):
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Account already exists</div>`))
			return
		case errors.Is(err, services.ErrPersistence):
			slog.ErrorContext(r.Context(), "Account added in memory only",
				"error", err, "account", name, "component", "account_handler", "operation", "add")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`<div class="error">Account added but could not be saved to storage</div>`))
			return
		case err != nil:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`<div class="error">Error adding account</div>`))
			return
		}

		slog.InfoContext(r.Context(), "Account added",
			"account", name,
			"component", "account_handler",
			"operation", "add")

		w.Header().Set("HX-Trigger", fmt.Sprintf(`{
			"show-notification": {"type": "success", "message": "Account %s added", "duration": 2000},
			"accounts:changed": {}
		}`, template.JSEscapeString(template.HTMLEscapeString(name))))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(""))
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
