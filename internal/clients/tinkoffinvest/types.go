package tinkoffinvest

// For compile-time restrictions.

type FIGI string          //
func (id FIGI) S() string { return string(id) }

type AccountID string          //
func (id AccountID) S() string { return string(id) }

type OrderID string          //
func (id OrderID) S() string { return string(id) }

type AssetClass string

const (
	AssetClassStocks     AssetClass = "stocks"
	AssetClassETFs       AssetClass = "etfs"
	AssetClassBonds      AssetClass = "bonds"
	AssetClassCurrencies AssetClass = "currencies"
)

var assetClasses = []AssetClass{AssetClassStocks, AssetClassETFs, AssetClassBonds, AssetClassCurrencies}

func (a AssetClass) Validate() error {
	for _, v := range assetClasses {
		if a == v {
			return nil
		}
	}
	return newConfigurationError("asset class", string(a), assetClasses)
}

type CandleInterval string

const (
	CandleInterval1Min  CandleInterval = "1min"
	CandleInterval2Min  CandleInterval = "2min"
	CandleInterval3Min  CandleInterval = "3min"
	CandleInterval5Min  CandleInterval = "5min"
	CandleInterval10Min CandleInterval = "10min"
	CandleInterval15Min CandleInterval = "15min"
	CandleInterval30Min CandleInterval = "30min"
	CandleIntervalHour  CandleInterval = "hour"
	CandleIntervalDay   CandleInterval = "day"
	CandleIntervalWeek  CandleInterval = "week"
	CandleIntervalMonth CandleInterval = "month"
)

var candleIntervals = []CandleInterval{
	CandleInterval1Min, CandleInterval2Min, CandleInterval3Min, CandleInterval5Min,
	CandleInterval10Min, CandleInterval15Min, CandleInterval30Min,
	CandleIntervalHour, CandleIntervalDay, CandleIntervalWeek, CandleIntervalMonth,
}

func (i CandleInterval) Validate() error {
	for _, v := range candleIntervals {
		if i == v {
			return nil
		}
	}
	return newConfigurationError("candle interval", string(i), candleIntervals)
}

type OperationType string

const (
	OperationBuy  OperationType = "Buy"
	OperationSell OperationType = "Sell"
)

var orderOperations = []OperationType{OperationBuy, OperationSell}

func (o OperationType) Validate() error {
	for _, v := range orderOperations {
		if o == v {
			return nil
		}
	}
	return newConfigurationError("order operation", string(o), orderOperations)
}
