package cursor

import (
	"math/big"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestMergeTable(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want Value
	}{
		{"both empty", "", "", ""},
		{"empty loses left", "", "42", "42"},
		{"empty loses right", "42", "", "42"},
		{"larger wins", "100", "99", "100"},
		{"larger wins reversed", "99", "100", "100"},
		{"equal keeps first", "7", "7", "7"},
		{"beyond uint64", "18446744073709551616", "18446744073709551615", "18446744073709551616"},
		{"unparsable loses", "garbage", "5", "5"},
		{"unparsable loses reversed", "5", "garbage", "5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Merge(tc.a, tc.b); got != tc.want {
				t.Errorf("Merge(%q, %q) = %q, want %q", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestProperty_MergeOrdering(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	// Decimal cursor values, including ones past uint64.
	cursorGen := gen.UInt64().Map(func(v uint64) Value {
		n := new(big.Int).SetUint64(v)
		n.Mul(n, big.NewInt(3))
		return Value(n.String())
	})

	geq := func(a, b Value) bool {
		ai, _ := new(big.Int).SetString(a.String(), 10)
		bi, _ := new(big.Int).SetString(b.String(), 10)
		return ai.Cmp(bi) >= 0
	}

	properties.Property("merge_is_commutative", prop.ForAll(
		func(a, b Value) bool {
			return Merge(a, b) == Merge(b, a)
		},
		cursorGen, cursorGen,
	))

	properties.Property("merge_never_regresses", prop.ForAll(
		func(a, b Value) bool {
			merged := Merge(a, b)
			return geq(merged, a) && geq(merged, b)
		},
		cursorGen, cursorGen,
	))

	properties.Property("merge_is_associative", prop.ForAll(
		func(a, b, c Value) bool {
			return Merge(Merge(a, b), c) == Merge(a, Merge(b, c))
		},
		cursorGen, cursorGen, cursorGen,
	))

	properties.Property("merge_with_self_is_identity", prop.ForAll(
		func(a Value) bool {
			return Merge(a, a) == a
		},
		cursorGen,
	))

	properties.TestingRun(t)
}

func TestValueUint64(t *testing.T) {
	if _, ok := Value("").Uint64(); ok {
		t.Error("empty value should not convert")
	}
	if _, ok := Value("not-a-number").Uint64(); ok {
		t.Error("non-numeric value should not convert")
	}
	if _, ok := Value("18446744073709551616").Uint64(); ok {
		t.Error("value past uint64 should not convert")
	}
	got, ok := Value(strconv.FormatUint(12345, 10)).Uint64()
	if !ok || got != 12345 {
		t.Errorf("Uint64() = %d, %v; want 12345, true", got, ok)
	}
}

func TestMetadataRoundTripPreservesUnknownKeys(t *testing.T) {
	raw := `{"historyId":"100","lastHistoryId":"150","messagesTotal":10,"threadsTotal":5,"watchExpiry":"2026-01-01T00:00:00Z"}`

	meta := ParseMetadata(raw)
	if meta.HistoryID != "100" || meta.LastHistoryID != "150" {
		t.Fatalf("unexpected cursors: %q / %q", meta.HistoryID, meta.LastHistoryID)
	}
	if meta.MessagesTotal != 10 || meta.ThreadsTotal != 5 {
		t.Fatalf("unexpected totals: %d / %d", meta.MessagesTotal, meta.ThreadsTotal)
	}

	meta.LastHistoryID = "200"
	encoded, err := meta.Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	again := ParseMetadata(encoded)
	if again.LastHistoryID != "200" {
		t.Errorf("lastHistoryId not updated: %q", again.LastHistoryID)
	}
	if again.extra == nil || string(again.extra["watchExpiry"]) != `"2026-01-01T00:00:00Z"` {
		t.Errorf("unknown key watchExpiry not preserved: %v", again.extra)
	}
}

func TestMetadataMalformedIsFirstRun(t *testing.T) {
	meta := ParseMetadata("{not json")
	if !meta.ResumePoint().IsZero() {
		t.Errorf("malformed metadata should have no resume point, got %q", meta.ResumePoint())
	}
}

func TestResumePointPrecedence(t *testing.T) {
	meta := Metadata{HistoryID: "100", LastHistoryID: "150"}
	if got := meta.ResumePoint(); got != "150" {
		t.Errorf("ResumePoint() = %q, want lastHistoryId", got)
	}

	meta = Metadata{HistoryID: "100"}
	if got := meta.ResumePoint(); got != "100" {
		t.Errorf("ResumePoint() = %q, want historyId", got)
	}
}
