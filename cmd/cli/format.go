package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// formatMoney renders amount with the currency's symbol and minor units.
// Unknown codes fall back to "amount CODE".
func formatMoney(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(2) + " " + code
	}

	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), cur.Code).Display()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// printJSON pretty-prints raw JSON, falling back to the bytes as-is.
func printJSON(w io.Writer, raw []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		fmt.Fprintln(w, string(raw))
		return
	}
	fmt.Fprintln(w, buf.String())
}
