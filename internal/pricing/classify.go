package pricing

import "strings"

// SourceKind partitions tickers into the routing classes the providers
// understand. Crypto symbols need exchange-pair formatting, symbols with a
// recognized exchange suffix trade on non-US exchanges in a local currency,
// everything else is treated as a US-listed stock quoted in USD.
type SourceKind string

const (
	KindCrypto    SourceKind = "crypto"
	KindStock     SourceKind = "stock"
	KindIntlStock SourceKind = "intl-stock"
)

// cryptoTickers is the fixed set of symbols routed to the crypto quote
// endpoint. Anything not listed here is assumed to be an equity.
var cryptoTickers = map[string]bool{
	"BTC": true, "ETH": true, "USDT": true, "BNB": true, "SOL": true,
	"ADA": true, "XRP": true, "DOT": true, "DOGE": true, "AVAX": true,
	"MATIC": true, "LINK": true, "UNI": true, "LTC": true, "BCH": true,
	"XLM": true, "ALGO": true, "ATOM": true,
}

// suffixCurrency maps an exchange suffix (the part after the last dot in a
// symbol like RY.TO) to the currency that exchange trades in.
var suffixCurrency = map[string]string{
	"TO": "CAD", "V": "CAD", "TSX": "CAD", "TSE": "CAD",
	"L": "GBP", "LON": "GBP",
	"DE": "EUR", "F": "EUR", "PA": "EUR", "AS": "EUR",
	"HE": "EUR", "MI": "EUR", "MC": "EUR", "LS": "EUR",
	"HK": "HKD",
	"T":  "JPY",
	"AX": "AUD",
	"NZ": "NZD",
	"SW": "CHF",
	"ST": "SEK",
	"CO": "DKK",
	"OL": "NOK",
	"IC": "ISK",
}

// Classify reports whether a normalized ticker is a crypto asset, an
// international stock (recognized exchange suffix) or a US stock. Unknown
// suffixes classify as US stocks, matching NativeCurrency's USD fallback.
func Classify(ticker string) SourceKind {
	ticker = strings.ToUpper(ticker)
	if cryptoTickers[ticker] {
		return KindCrypto
	}
	if _, ok := suffixCurrency[exchangeSuffix(ticker)]; ok {
		return KindIntlStock
	}
	return KindStock
}

// exchangeSuffix extracts the exchange suffix from a symbol like RY.TO, or
// "" when there is none.
func exchangeSuffix(ticker string) string {
	idx := strings.LastIndex(ticker, ".")
	if idx < 0 || idx == len(ticker)-1 {
		return ""
	}
	return ticker[idx+1:]
}

// NativeCurrency returns the currency a ticker's prices are quoted in.
// Crypto and unsuffixed (US) symbols quote in USD; suffixed symbols quote in
// the currency of their exchange. Unknown suffixes fall back to USD.
func NativeCurrency(ticker string) string {
	ticker = strings.ToUpper(ticker)
	if cryptoTickers[ticker] {
		return "USD"
	}
	if currency, ok := suffixCurrency[exchangeSuffix(ticker)]; ok {
		return currency
	}
	return "USD"
}

// FormatCryptoSymbol renders a crypto ticker as the Binance exchange pair
// the quote API expects, e.g. BTC becomes BINANCE:BTCUSDT. Tether itself
// pairs against USD.
func FormatCryptoSymbol(ticker string) string {
	ticker = strings.ToUpper(ticker)
	if ticker == "USDT" {
		return "BINANCE:USDTUSD"
	}
	return "BINANCE:" + ticker + "USDT"
}
