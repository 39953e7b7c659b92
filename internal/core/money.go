// Package core holds the invoice domain: money parsing, row aggregation
// and report rendering. Everything here is pure and free of I/O.
package core

import (
	"strconv"
	"strings"
)

// Money is a non-negative amount of local currency in cents.
type Money struct {
	Cents int64
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// IsZero reports whether the amount is zero cents.
func (m Money) IsZero() bool {
	return m.Cents == 0
}

// ParseBRL converts a Brazilian-locale currency string to Money.
//
// The input may carry a leading "R$" marker and surrounding whitespace.
// Dots are thousands separators and are removed; the first comma is the
// decimal separator. Rounding is half-up on the third fraction digit.
//
// Parsing is deliberately lenient: empty, whitespace-only or malformed
// input yields zero, never an error. Invoice sheets are edited by hand
// and a single bad cell must not abort the whole report.
//
// Examples:
//
//	ParseBRL("R$ 1.234,56") -> 123456 cents
//	ParseBRL("47,90")       -> 4790 cents
//	ParseBRL("")            -> 0
//	ParseBRL("abc")         -> 0
func ParseBRL(s string) Money {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimPrefix(s, "r$")
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}
	}
	// "1.234,56" -> "1234.56"
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if r < '0' || r > '9' {
			return Money{}
		}
	}
	for _, r := range fracPart {
		if r < '0' || r > '9' {
			return Money{}
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return Money{}
	}
	// First two fraction digits, half-up rounding on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return Money{Cents: iv*100 + fracCents}
}

// FormatBRL renders an amount in Brazilian locale: "R$ " prefix, dots
// grouping thousands, comma before exactly two fraction digits.
// FormatBRL is the inverse of ParseBRL for any non-negative amount.
func FormatBRL(m Money) string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := cents / 100
	rem := cents % 100

	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	b.WriteString("R$ ")
	if neg {
		b.WriteString("-")
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(".")
		b.WriteString(digits[i : i+3])
	}
	b.WriteString(",")
	if rem < 10 {
		b.WriteString("0")
	}
	b.WriteString(strconv.FormatInt(rem, 10))
	return b.String()
}
