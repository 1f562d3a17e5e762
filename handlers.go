package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mkadlec/wise-statements/pkg/config"
	"github.com/mkadlec/wise-statements/pkg/prometheus"
	"github.com/mkadlec/wise-statements/pkg/table"
	"github.com/mkadlec/wise-statements/pkg/utils"
	"github.com/mkadlec/wise-statements/pkg/wise"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// statementsAPI is the slice of the Wise client the dashboard needs.
type statementsAPI interface {
	SelectProfile(ctx context.Context, accountType string) (*wise.Profile, error)
	GetBalance(ctx context.Context, profileID int64, currency string, jar bool) (*wise.Balance, int64, error)
	GetStatement(ctx context.Context, profileID, balanceID int64, start, end time.Time) (*table.Table, error)
	VerifyPrivateKey(ctx context.Context, profileID, balanceID int64, start, end time.Time) error
	GetCashbackStatement(ctx context.Context, profileID int64, start, end time.Time) ([]wise.CashbackRecord, error)
}

type HandlerRepository struct {
	wise    statementsAPI
	config  *config.Config
	monitor *prometheus.Monitor
	logger  *logrus.Logger
}

// metricsHandler returns HTTP handler for metrics endpoint
func (hr *HandlerRepository) metricsHandler() http.Handler {
	return promhttp.HandlerFor(
		hr.monitor.Registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			Registry:          hr.monitor.Registry,
		},
	)
}

func (hr *HandlerRepository) checkPassword() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth != hr.config.Password {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (hr *HandlerRepository) profileHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth != hr.config.Password {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		profile, err := hr.wise.SelectProfile(r.Context(), hr.config.AccountType)
		if err != nil {
			hr.writeAPIError(w, err)
			return
		}

		hr.writeJSON(w, profile)
	}
}

func (hr *HandlerRepository) balancesHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth != hr.config.Password {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		profile, err := hr.wise.SelectProfile(r.Context(), hr.config.AccountType)
		if err != nil {
			hr.writeAPIError(w, err)
			return
		}

		standard, _, err := hr.wise.GetBalance(r.Context(), profile.ID, hr.config.Currency, false)
		if err != nil {
			hr.writeAPIError(w, err)
			return
		}

		jar, _, err := hr.wise.GetBalance(r.Context(), profile.ID, hr.config.Currency, true)
		if err != nil {
			hr.writeAPIError(w, err)
			return
		}

		type output struct {
			Standard *wise.Balance `json:"standard"`
			Jar      *wise.Balance `json:"jar"`
		}

		hr.writeJSON(w, output{Standard: standard, Jar: jar})
	}
}

func (hr *HandlerRepository) statementHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth != hr.config.Password {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		kind := r.URL.Query().Get("kind")
		if kind == "" {
			kind = "standard"
		}
		if kind != "standard" && kind != "jar" {
			http.Error(w, "Invalid statement kind", http.StatusBadRequest)
			return
		}

		start, end, err := dateRange(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		profile, err := hr.wise.SelectProfile(r.Context(), hr.config.AccountType)
		if err != nil {
			hr.writeAPIError(w, err)
			return
		}

		balance, balanceID, err := hr.wise.GetBalance(r.Context(), profile.ID, hr.config.Currency, kind == "jar")
		if err != nil {
			hr.writeAPIError(w, err)
			return
		}
		if balance == nil {
			http.Error(w, fmt.Sprintf("No %s %s balance found", kind, hr.config.Currency), http.StatusNotFound)
			return
		}

		statement, err := hr.wise.GetStatement(r.Context(), profile.ID, balanceID, start, end)
		if err != nil {
			hr.writeAPIError(w, err)
			return
		}

		statement.ReformatDateColumn("Date")

		hr.writeTable(w, r, statement, exportFilename(kind, profile.ID, hr.config.Currency, hr.config.AccountType, start, end))
	}
}

func (hr *HandlerRepository) cashbackHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth != hr.config.Password {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		start, end, err := dateRange(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		profile, err := hr.wise.SelectProfile(r.Context(), hr.config.AccountType)
		if err != nil {
			hr.writeAPIError(w, err)
			return
		}

		records, err := hr.wise.GetCashbackStatement(r.Context(), profile.ID, start, end)
		if err != nil {
			hr.writeAPIError(w, err)
			return
		}

		hr.writeTable(w, r, wise.CashbackTable(records), exportFilename("cashback", profile.ID, hr.config.Currency, hr.config.AccountType, start, end))
	}
}

func (hr *HandlerRepository) verifyHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth != hr.config.Password {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		start, end, err := dateRange(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		profile, err := hr.wise.SelectProfile(r.Context(), hr.config.AccountType)
		if err != nil {
			hr.writeAPIError(w, err)
			return
		}

		balance, balanceID, err := hr.wise.GetBalance(r.Context(), profile.ID, hr.config.Currency, false)
		if err != nil {
			hr.writeAPIError(w, err)
			return
		}
		if balance == nil {
			http.Error(w, fmt.Sprintf("No standard %s balance found", hr.config.Currency), http.StatusNotFound)
			return
		}

		if err := hr.wise.VerifyPrivateKey(r.Context(), profile.ID, balanceID, start, end); err != nil {
			hr.writeAPIError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, err = w.Write(utils.GetOkJSON())
		if err != nil {
			hr.logger.Errorf("Could not write response: %v", err)
		}
	}
}

// dateRange reads the start/end query parameters (YYYY-MM-DD).
// When missing, the last 30 days are used.
func dateRange(r *http.Request) (time.Time, time.Time, error) {
	start := time.Now().AddDate(0, 0, -30)
	end := time.Now()

	var err error
	if v := r.URL.Query().Get("start"); v != "" {
		if start, err = utils.ParseDay(v); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q", v)
		}
	}
	if v := r.URL.Query().Get("end"); v != "" {
		if end, err = utils.ParseDay(v); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q", v)
		}
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("start date must be before end date")
	}

	return start, end, nil
}

func exportFilename(kind string, profileID int64, currency, accountType string, start, end time.Time) string {
	return fmt.Sprintf("Wise_%s_statement-%d-%s-%s-START-%s-END-%s",
		kind, profileID, currency, accountType,
		start.Format("02.01.2006"), end.Format("02.01.2006"))
}

// writeTable renders a table as JSON, CSV or Excel based on the format
// query parameter.
func (hr *HandlerRepository) writeTable(w http.ResponseWriter, r *http.Request, t *table.Table, filename string) {
	switch r.URL.Query().Get("format") {
	case "csv":
		data, err := t.ToCSV()
		if err != nil {
			http.Error(w, "Could not render CSV", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".csv"))
		if _, err = w.Write(data); err != nil {
			hr.logger.Errorf("Could not write response: %v", err)
		}
	case "xlsx":
		data, err := t.ToExcel()
		if err != nil {
			http.Error(w, "Could not render Excel workbook", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".xlsx"))
		if _, err = w.Write(data); err != nil {
			hr.logger.Errorf("Could not write response: %v", err)
		}
	default:
		hr.writeJSON(w, t)
	}
}

func (hr *HandlerRepository) writeJSON(w http.ResponseWriter, data interface{}) {
	res, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Could not marshal data to JSON", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(res)
	if err != nil {
		hr.logger.Errorf("Could not write response: %v", err)
	}
}

// writeAPIError maps client errors to response codes. Provider failures
// surface as bad gateway, a missing profile as not found.
func (hr *HandlerRepository) writeAPIError(w http.ResponseWriter, err error) {
	hr.logger.Warnf("Wise API error: %v", err)

	var noProfile *wise.NoMatchingProfileError
	if errors.As(err, &noProfile) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	http.Error(w, err.Error(), http.StatusBadGateway)
}
