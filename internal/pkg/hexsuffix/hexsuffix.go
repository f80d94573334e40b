// Package hexsuffix derives compact numeric identifiers from hex strings:
// the last 1..16 characters of a block hash, each read as an unsigned
// base-16 integer and rendered as an exact decimal string.
package hexsuffix

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxSuffixLen is 16 hex characters, the 64-bit unsigned integer ceiling.
const MaxSuffixLen = 16

type Entry struct {
	Length  int    `json:"length"`
	Hex     string `json:"hex"`
	Decimal string `json:"decimal"`
}

type Table []Entry

type Value struct {
	Hex     string `json:"hex"`
	Decimal string `json:"decimal"`
}

// Derive produces one entry per suffix length 1..min(16, len(h)). Inputs
// shorter than 16 characters saturate at their own length; nothing is padded.
// 16 hex characters are at most 2^64-1, so uint64 arithmetic is exact.
func Derive(h string) (Table, error) {
	if h == "" {
		return nil, fmt.Errorf("empty hex string")
	}

	lowered := strings.ToLower(h)
	for _, r := range lowered {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return nil, fmt.Errorf("invalid hex character %q", r)
		}
	}

	n := len(lowered)
	if n > MaxSuffixLen {
		n = MaxSuffixLen
	}

	table := make(Table, 0, n)
	for i := 1; i <= n; i++ {
		suffix := lowered[len(lowered)-i:]

		value, err := strconv.ParseUint(suffix, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("parse suffix %q: %w", suffix, err)
		}

		table = append(table, Entry{
			Length:  i,
			Hex:     suffix,
			Decimal: strconv.FormatUint(value, 10),
		})
	}

	return table, nil
}

// LengthKeyed is the stable public convention: "last_N_hex" -> {hex, decimal}.
func (t Table) LengthKeyed() map[string]Value {
	keyed := make(map[string]Value, len(t))
	for _, e := range t {
		keyed[fmt.Sprintf("last_%d_hex", e.Length)] = Value{Hex: e.Hex, Decimal: e.Decimal}
	}

	return keyed
}

// RangeKeyed is the historical alternate convention: each suffix length i
// labeled by its value range "0_<2^(4i)-1>", mapping straight to the decimal.
// Callers must not mix the two conventions in one payload.
func (t Table) RangeKeyed() map[string]string {
	keyed := make(map[string]string, len(t))
	for _, e := range t {
		keyed[rangeLabel(e.Length)] = e.Decimal
	}

	return keyed
}

func rangeLabel(length int) string {
	if length >= MaxSuffixLen {
		return "0_" + strconv.FormatUint(math.MaxUint64, 10)
	}

	upper := uint64(1)<<(4*length) - 1
	return "0_" + strconv.FormatUint(upper, 10)
}
