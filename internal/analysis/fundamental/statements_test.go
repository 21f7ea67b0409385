package fundamental

import "testing"

func sampleTable() *StatementTable {
	t := NewStatementTable([]string{"Mar 2025", "Mar 2024", "Mar 2023"})
	t.AddRow("Sales", []*float64{ptr(150), ptr(120), ptr(100)})
	t.AddRow("Interest Expense", []*float64{ptr(5), ptr(4), ptr(3)})
	t.AddRow("Equity Share Capital", []*float64{ptr(10), ptr(10), ptr(10)})
	t.AddRow("Shareholders' Funds", []*float64{ptr(500), ptr(420), ptr(350)})
	return t
}

func TestSeriesExactMatchWins(t *testing.T) {
	table := sampleTable()
	s := table.Series("Sales", "Revenue")
	if s == nil || *s.At(0) != 150 {
		t.Fatalf("exact match failed: %+v", s)
	}
}

func TestSeriesSubstringMatch(t *testing.T) {
	table := sampleTable()
	// "Interest" is a substring of the "Interest Expense" label.
	s := table.Series("Interest")
	if s == nil || *s.At(0) != 5 {
		t.Fatalf("substring match failed: %+v", s)
	}
}

func TestSeriesCandidateOrderBeatsSubstring(t *testing.T) {
	table := sampleTable()
	// "Equity" appears last in the equity candidates so the share capital
	// row cannot shadow shareholders' funds.
	s := table.Series("Shareholders' Funds", "Total Equity", "Equity")
	if s == nil || *s.At(0) != 500 {
		t.Fatalf("candidate order not honored: %+v", s)
	}
}

func TestSeriesNoMatch(t *testing.T) {
	if s := sampleTable().Series("Goodwill"); s != nil {
		t.Errorf("unexpected match: %+v", s)
	}
}

func TestReindexNearestByPeriodDate(t *testing.T) {
	// Vendor-style periods against scraped-style periods: nearest date wins.
	source := &LineSeries{
		Periods: []string{"2025-03-31", "2024-03-31"},
		Values:  []*float64{ptr(1), ptr(2)},
	}
	target := &LineSeries{
		Periods: []string{"Mar 2025", "Mar 2024", "Mar 2023"},
		Values:  []*float64{nil, nil, nil},
	}
	aligned := source.ReindexNearest(target)
	if aligned.Len() != 3 {
		t.Fatalf("aligned length = %d, want 3", aligned.Len())
	}
	if *aligned.At(0) != 1 || *aligned.At(1) != 2 {
		t.Errorf("aligned = %v, %v, want 1, 2", aligned.At(0), aligned.At(1))
	}
	// Mar 2023 has no close source period; the nearest (2024) is reused.
	if *aligned.At(2) != 2 {
		t.Errorf("trailing period = %v, want nearest value 2", aligned.At(2))
	}
}

func TestReindexNearestFallsBackPositional(t *testing.T) {
	source := &LineSeries{
		Periods: []string{"FY-A", "FY-B"},
		Values:  []*float64{ptr(1), ptr(2)},
	}
	target := &LineSeries{
		Periods: []string{"FY-A", "FY-B", "FY-C"},
		Values:  []*float64{nil, nil, nil},
	}
	aligned := source.ReindexNearest(target)
	if *aligned.At(0) != 1 || *aligned.At(1) != 2 || aligned.At(2) != nil {
		t.Errorf("positional fallback failed: %+v", aligned.Values)
	}
}

func TestNonNullPreservesOrder(t *testing.T) {
	s := &LineSeries{
		Periods: []string{"a", "b", "c"},
		Values:  []*float64{ptr(1), nil, ptr(3)},
	}
	nn := s.NonNull()
	if nn.Len() != 2 || *nn.At(0) != 1 || *nn.At(1) != 3 {
		t.Errorf("NonNull = %+v", nn.Values)
	}
}

func TestParsePeriod(t *testing.T) {
	for _, p := range []string{"Mar 2024", "2024-03-31", "2024"} {
		if _, ok := ParsePeriod(p); !ok {
			t.Errorf("ParsePeriod(%q) failed", p)
		}
	}
	if _, ok := ParsePeriod("not a date"); ok {
		t.Error("ParsePeriod should reject garbage")
	}
}
