package http

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cashflow/internal/core"
)

// reportFilter is a parsed and defaulted filter query.
type reportFilter struct {
	Start    core.Date
	End      core.Date
	Accounts []string
}

// cacheKey ties a rendered report to both its filter and the ledger
// revision it was rendered from, so mutations miss the cache without an
// explicit invalidation step.
func (f reportFilter) cacheKey(revision int64) string {
	return fmt.Sprintf("%s|%s|%s|rev%d", f.Start, f.End, strings.Join(f.Accounts, ","), revision)
}

// parseReportFilter reads start/end/account query parameters. Missing
// dates default to the ledger's bounds; a missing account selection
// defaults to every registered account.
func (s *Server) parseReportFilter(r *http.Request) (reportFilter, string) {
	q := r.URL.Query()

	minDate, maxDate, ok := s.ledger.DateBounds()
	if !ok {
		today := time.Now()
		minDate = core.NewDate(today.Year(), int(today.Month()), today.Day())
		maxDate = minDate
	}

	f := reportFilter{Start: minDate, End: maxDate}

	if v := strings.TrimSpace(q.Get("start")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return reportFilter{}, "Invalid start date"
		}
		f.Start = d
	}
	if v := strings.TrimSpace(q.Get("end")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return reportFilter{}, "Invalid end date"
		}
		f.End = d
	}

	if selected, present := q["account"]; present {
		for _, a := range selected {
			if a = sanitizeInput(a); a != "" {
				f.Accounts = append(f.Accounts, a)
			}
		}
	} else {
		f.Accounts = s.ledger.Accounts()
	}

	return f, ""
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	f, problem := s.parseReportFilter(r)
	if problem != "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">` + problem + `</div>`))
		return
	}

	key := f.cacheKey(s.ledger.Revision())
	if html, ok := s.reportCache.Get(key); ok {
		slog.DebugContext(r.Context(), "Report served from cache", "key", key)
		_, _ = w.Write([]byte(html))
		return
	}

	rows := core.Filter(s.ledger.Snapshot(), f.Start, f.End, f.Accounts)
	summary := core.Aggregate(rows)

	views := make([]txView, 0, len(rows))
	for _, t := range rows {
		views = append(views, newTxView(t))
	}

	data := struct {
		Start        string
		End          string
		Accounts     []string
		TotalCredit  string
		TotalDebit   string
		TotalBalance string
		Transactions []txView
		Empty        bool
	}{
		Start:        f.Start.String(),
		End:          f.End.String(),
		Accounts:     f.Accounts,
		TotalCredit:  core.FormatAmount(summary.TotalCredit),
		TotalDebit:   core.FormatAmount(summary.TotalDebit),
		TotalBalance: core.FormatAmount(summary.TotalBalance),
		Transactions: views,
		Empty:        len(rows) == 0,
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "report.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "report.html")
		_, _ = w.Write([]byte(`<div class="error">Error rendering report</div>`))
		return
	}

	s.reportCache.Set(key, buf.String())
	_, _ = w.Write(buf.Bytes())
}

// exportHeader matches the spreadsheet column layout.
var exportHeader = []string{"S.No", "Date", "Description", "Account", "Amount", "Credit", "Debit", "Balance"}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	f, problem := s.parseReportFilter(r)
	if problem != "" {
		http.Error(w, problem, http.StatusUnprocessableEntity)
		return
	}

	rows := core.ExportRows(core.Filter(s.ledger.Snapshot(), f.Start, f.End, f.Accounts))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="cash_flow_export.csv"`)

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		slog.ErrorContext(r.Context(), "CSV export write error", "error", err)
		return
	}
	for _, row := range rows {
		record := []string{
			fmt.Sprintf("%d", row.ID),
			row.Date.String(),
			row.Description,
			row.Account,
			core.FormatAmount(row.Amount),
			core.FormatAmount(row.Credit),
			core.FormatAmount(row.Debit),
			core.FormatAmount(row.Balance),
		}
		if err := cw.Write(record); err != nil {
			slog.ErrorContext(r.Context(), "CSV export write error", "error", err, "serial", row.ID)
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.ErrorContext(r.Context(), "CSV export flush error", "error", err)
	}

	slog.InfoContext(r.Context(), "CSV export served",
		"rows", len(rows),
		"start", f.Start.String(),
		"end", f.End.String(),
		"accounts", len(f.Accounts))
}
