// Package symbols maps user-facing tickers and free text onto
// provider-canonical identifiers. Normalization is a pure table lookup;
// resolution adds a best-effort provider search when the tables miss.
package symbols

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DomesticSuffix is appended to domestic-exchange equity tickers so the chart
// provider routes them to the right exchange.
const DomesticSuffix = ".NS"

//go:embed tables.yaml
var tablesYAML []byte

type tables struct {
	Crypto         map[string]string `yaml:"crypto"`
	EquityDomestic []string          `yaml:"equity_domestic"`
}

var (
	cryptoTable   map[string]string
	domesticTable map[string]struct{}
)

func init() {
	var t tables
	if err := yaml.Unmarshal(tablesYAML, &t); err != nil {
		panic(fmt.Sprintf("symbols: parse embedded tables: %v", err))
	}
	cryptoTable = make(map[string]string, len(t.Crypto))
	for k, v := range t.Crypto {
		cryptoTable[strings.ToLower(k)] = v
	}
	domesticTable = make(map[string]struct{}, len(t.EquityDomestic))
	for _, s := range t.EquityDomestic {
		domesticTable[strings.ToUpper(s)] = struct{}{}
	}
}

// NormalizeCrypto maps a ticker abbreviation to the provider asset id.
// Unmapped tokens pass through lowercased.
func NormalizeCrypto(token string) string {
	key := strings.ToLower(strings.TrimSpace(token))
	if id, ok := cryptoTable[key]; ok {
		return id
	}
	return key
}

// NormalizeEquity maps known domestic-exchange tickers to their suffixed
// provider form. Unknown tokens pass through unchanged (upper-cased).
func NormalizeEquity(token string) string {
	sym := strings.ToUpper(strings.TrimSpace(token))
	if sym == "" {
		return sym
	}
	if _, ok := domesticTable[sym]; ok {
		return sym + DomesticSuffix
	}
	return sym
}

// IsDomestic reports whether the symbol is domestic-exchange-qualified,
// either via the suffix or the static table.
func IsDomestic(symbol string) bool {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if strings.HasSuffix(sym, DomesticSuffix) {
		return true
	}
	_, ok := domesticTable[sym]
	return ok
}

// KnownCrypto reports whether the token has a deterministic crypto mapping.
func KnownCrypto(token string) bool {
	_, ok := cryptoTable[strings.ToLower(strings.TrimSpace(token))]
	return ok
}
