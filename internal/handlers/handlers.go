// Package handlers implements the Studio HTTP API: account registration and
// login, the credit-metered generation dispatch, and balance/history reads.
package handlers

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"

	"mindloom/internal/history"
	"mindloom/internal/ledger"
	"mindloom/pkg/llm"
	"mindloom/pkg/logging"
	"mindloom/pkg/monitoring"
)

var (
	db           *sql.DB
	logger       logging.Logger
	metrics      *StudioMetrics
	creditLedger *ledger.Ledger
	gateway      llm.Client
	gatewayCfg   llm.Config
	historyCache *history.Store
	jwtSecret    []byte
)

// StudioMetrics holds service-specific Prometheus metrics
type StudioMetrics struct {
	// Generation metrics
	Generations        *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	CreditsSpent       *prometheus.CounterVec

	// Auth metrics
	AuthOperations *prometheus.CounterVec
	AuthDuration   *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections *prometheus.GaugeVec
}

// NewStudioMetrics creates service metrics on the shared collector.
func NewStudioMetrics(mc *monitoring.MetricsCollector) *StudioMetrics {
	m := &StudioMetrics{}

	m.Generations = mc.NewCounter("generations_total", "Total generation dispatches", []string{"type", "status"})
	m.GenerationDuration = mc.NewHistogram("generation_duration_seconds", "Generation dispatch duration", []string{"type"}, nil)
	m.CreditsSpent = mc.NewCounter("credits_spent_total", "Total credits debited", []string{"type"})

	m.AuthOperations = mc.NewCounter("auth_operations_total", "Total auth operations", []string{"operation", "status"})
	m.AuthDuration = mc.NewHistogram("auth_operation_duration_seconds", "Auth operation duration", []string{"operation"}, nil)

	m.DBQueries, m.DBDuration, m.DBConnections = mc.CreateDatabaseMetrics()

	return m
}

// Init wires handler dependencies. Call once at startup before registering
// routes.
func Init(database *sql.DB, log logging.Logger, m *StudioMetrics, gw llm.Client, gwCfg llm.Config, hist *history.Store, secret []byte) {
	db = database
	logger = log
	metrics = m
	creditLedger = ledger.New(database, log)
	gateway = gw
	gatewayCfg = gwCfg
	historyCache = hist
	jwtSecret = secret
}
