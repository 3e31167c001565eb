package portfoliowatcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "invest_client"
	subsystem = "portfolio"
)

var (
	currentBalance = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "balance",
		Help:      "Current free account balance in roubles",
	}, []string{"account_number"})

	positionsTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "positions_total",
		Help:      "Number of open portfolio positions",
	}, []string{"account_number"})

	positionLots = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "position_lots",
		Help:      "Portfolio position lots",
	}, []string{"account_number", "figi"})

	positionBalance = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "position_balance",
		Help:      "Portfolio position balance in pieces",
	}, []string{"account_number", "figi"})

	positionAvgPrice = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "position_avg_price",
		Help:      "Portfolio position average price",
	}, []string{"account_number", "figi"})

	positionExpectedYield = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "position_expected_yield",
		Help:      "Portfolio position expected yield",
	}, []string{"account_number", "figi"})

)
