// Package format holds the display formatters and input masks used by
// the forms and views. Every function is pure and total: malformed
// input degrades to a placeholder, never a panic.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Placeholder rendered in place of values that cannot be formatted.
const Placeholder = "-"

var meses = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// Digits strips everything but ASCII digits from s.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// Moeda renders v as a pt-BR currency string ("R$ 1.234,56").
// Zero and non-finite values render as the placeholder.
func Moeda(v float64) string {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	return "R$ " + brl(v)
}

// MoedaInput renders v for an input field as the user types. Unlike
// Moeda, an empty draft renders as the empty string so the field
// starts blank.
func MoedaInput(v float64) string {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return "R$ " + brl(v)
}

// ParseMoeda is the inverse of MoedaInput: it strips everything but
// digits, treats the result as minor units and divides by 100, rounded
// to two decimal places. Empty input yields (0, false).
func ParseMoeda(s string) (float64, bool) {
	d := Digits(s)
	if d == "" {
		return 0, false
	}
	// Bound the draft so a pasted digit wall cannot overflow.
	if len(d) > 15 {
		d = d[:15]
	}
	n, err := strconv.ParseInt(d, 10, 64)
	if err != nil {
		return 0, false
	}
	return math.Round(float64(n)) / 100, true
}

func brl(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	cents := int64(math.Round(v * 100))
	whole := strconv.FormatInt(cents/100, 10)
	var groups []string
	for len(whole) > 3 {
		groups = append([]string{whole[len(whole)-3:]}, groups...)
		whole = whole[:len(whole)-3]
	}
	groups = append([]string{whole}, groups...)
	out := fmt.Sprintf("%s,%02d", strings.Join(groups, "."), cents%100)
	if neg {
		out = "-" + out
	}
	return out
}

// parseISO accepts the date shapes the API exchanges: full RFC 3339,
// a zoneless date-time, or a bare date.
func parseISO(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Data renders an ISO date in the long pt-BR form ("05 de março de
// 2025"). The calendar day is taken in UTC so a zoned timestamp never
// shifts to the previous or next day. Invalid input renders as the
// placeholder.
func Data(iso string) string {
	t, ok := parseISO(iso)
	if !ok {
		return Placeholder
	}
	u := t.UTC()
	return fmt.Sprintf("%02d de %s de %d", u.Day(), meses[int(u.Month())-1], u.Year())
}

// DataInput truncates an ISO date-time to its YYYY-MM-DD component for
// date fields. Invalid input yields the empty string.
func DataInput(iso string) string {
	s := strings.TrimSpace(iso)
	if s == "" {
		return ""
	}
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return ""
	}
	return s
}

func applyMask(d string, groups []int, seps []string) string {
	var b strings.Builder
	i := 0
	for g, size := range groups {
		if i >= len(d) {
			break
		}
		end := i + size
		if end > len(d) {
			end = len(d)
		}
		if g > 0 {
			b.WriteString(seps[g-1])
		}
		b.WriteString(d[i:end])
		i = end
	}
	return b.String()
}

// CPFCNPJ masks a tax id as the user types: up to 11 digits take the
// person pattern (000.000.000-00), 12 to 14 the organization pattern
// (00.000.000/0000-00). Digits beyond 14 are dropped.
func CPFCNPJ(s string) string {
	d := Digits(s)
	if len(d) > 14 {
		d = d[:14]
	}
	if len(d) <= 11 {
		return applyMask(d, []int{3, 3, 3, 2}, []string{".", ".", "-"})
	}
	return applyMask(d, []int{2, 3, 3, 4, 2}, []string{".", ".", "/", "-"})
}

// Telefone masks a phone number: 10 digits as (00) 0000-0000, 11 as
// (00) 00000-0000. Digits beyond 11 are dropped.
func Telefone(s string) string {
	d := Digits(s)
	if d == "" {
		return ""
	}
	if len(d) > 11 {
		d = d[:11]
	}
	if len(d) <= 2 {
		return "(" + d
	}
	mid := 4
	if len(d) > 10 {
		mid = 5
	}
	rest := d[2:]
	if len(rest) <= mid {
		return "(" + d[:2] + ") " + rest
	}
	return "(" + d[:2] + ") " + rest[:mid] + "-" + rest[mid:]
}
