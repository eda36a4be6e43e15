// Package news contains entities shared by providers and the http layer.
package news

import "strings"

// Article is a normalized piece of aggregated content.
type Article struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
	Date   string `json:"date"`
}

var coinNames = map[string]string{
	"BTC":  "Bitcoin",
	"ETH":  "Ethereum",
	"BNB":  "Binance Coin",
	"ADA":  "Cardano",
	"DOGE": "Dogecoin",
	"XRP":  "Ripple",
	"SOL":  "Solana",
	"DOT":  "Polkadot",
	"AVAX": "Avalanche",
}

// Resolve returns the coin name for the given ticker, case-insensitively.
// Unknown tokens are returned as is.
func Resolve(token string) string {
	if name, ok := coinNames[strings.ToUpper(token)]; ok {
		return name
	}
	return token
}
