package filter

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/cognicore/seolens/pkg/seolens/internalerr"
	"github.com/cognicore/seolens/pkg/seolens/stoplist"
)

func newTestFilter(t *testing.T, opts Options) *Filter {
	t.Helper()
	stops := stoplist.New(nil)
	if err := stops.Initialize(context.Background()); err != nil {
		t.Fatalf("stoplist: %v", err)
	}
	return New(stops, MustPatternTable(DefaultNoiseRules()), MustPatternTable(DefaultBoundaryRules()), opts)
}

func TestCheckRejections(t *testing.T) {
	f := newTestFilter(t, DefaultOptions())

	tests := []struct {
		phrase string
		want   Reason
	}{
		{"", ReasonEmpty},
		{"aaa bbb", ReasonNotMeaningful},
		{"گوشی، هوشمند", ReasonPunctuation},
		{"از در", ReasonStopwordRatio},
		{"از گوشی هوشمند", ReasonEdgeStopword},
		{"گوشی هوشمند و", ReasonEdgeStopword},
		{"گوشی و تبلت هوشمند", ReasonInnerStopword},
		{"تبلت گوشی تبلت", ReasonRepeatedWord},
		{"ویرایشگر متن", ReasonNoise},
		{"ab cd", ReasonFewContentWord},
		{"زیر ساخت شبکه", ReasonBoundary},
		{"مدیریت پروژه شد", ReasonBoundary},
		{"همین روش ساده", ReasonBoundary},
		{"کاملا رایگان", ReasonBoundary},
	}

	for _, tt := range tests {
		got, rejected := f.Check(tt.phrase)
		if !rejected {
			t.Errorf("Check(%q) accepted, want %s", tt.phrase, tt.want)
			continue
		}
		if got.Reason != tt.want {
			t.Errorf("Check(%q) = %s (%s), want %s", tt.phrase, got.Reason, got.Detail, tt.want)
		}
	}
}

func TestCheckAccepts(t *testing.T) {
	f := newTestFilter(t, DefaultOptions())
	for _, phrase := range []string{"گوشی هوشمند", "بهینه سازی سایت", "search engine optimization"} {
		if r, rejected := f.Check(phrase); rejected {
			t.Errorf("Check(%q) rejected: %s (%s)", phrase, r.Reason, r.Detail)
		}
	}
}

func TestApplyCarriesFrequencyAndRatio(t *testing.T) {
	f := newTestFilter(t, DefaultOptions())
	got := f.Apply(map[string]int{
		"گوشی هوشمند": 3,
		"از گوشی":     2,
	})

	expected := map[string]int{"گوشی هوشمند": 3}
	if len(got) != len(expected) {
		t.Fatalf("Expected %d candidates, got %v", len(expected), got)
	}
	c := got["گوشی هوشمند"]
	if c.Frequency != 3 || c.StopwordRatio != 0 || c.Phrase != "گوشی هوشمند" {
		t.Errorf("unexpected candidate %+v", c)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	f := newTestFilter(t, DefaultOptions())
	input := map[string]int{
		"گوشی هوشمند":          4,
		"گوشی هوشمند جدید":     2,
		"از گوشی هوشمند":       2,
		"ویرایشگر متن":         1,
		"search engine":        2,
		"the search engine":    1,
		"بهینه سازی سایت":      3,
		"مدیریت پروژه شد":      1,
		"تبلت گوشی تبلت":       1,
	}

	once := f.Apply(input)
	again := make(map[string]int, len(once))
	for p, c := range once {
		again[p] = c.Frequency
	}
	twice := f.Apply(again)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("filter not idempotent:\nonce:  %v\ntwice: %v", once, twice)
	}
}

func TestMinFrequency(t *testing.T) {
	f := newTestFilter(t, Options{RejectRatio: 0.5, MinFrequency: 2})
	got := f.Apply(map[string]int{"گوشی هوشمند": 1, "بهینه سازی سایت": 2})
	if _, ok := got["گوشی هوشمند"]; ok {
		t.Error("phrase below MinFrequency should be dropped")
	}
	if _, ok := got["بهینه سازی سایت"]; !ok {
		t.Error("phrase at MinFrequency should be kept")
	}

	r, rejected := f.Explain("گوشی هوشمند", 1)
	if !rejected || r.Reason != ReasonLowFrequency {
		t.Errorf("Explain = %+v, %v", r, rejected)
	}
}

func TestNilPatternTablesDisableChecks(t *testing.T) {
	stops := stoplist.New(nil)
	stops.Load(context.Background())
	f := New(stops, nil, nil, DefaultOptions())

	if _, rejected := f.Check("ویرایشگر متن"); rejected {
		t.Error("noise check should be disabled without a table")
	}
	if _, rejected := f.Check("کاملا رایگان"); rejected {
		t.Error("boundary check should be disabled without a table")
	}
}

func TestPatternTable(t *testing.T) {
	table, err := NewPatternTable([]Rule{
		{Pattern: `^foo`, Reason: "starts with foo"},
		{Pattern: `bar$`},
	})
	if err != nil {
		t.Fatalf("NewPatternTable: %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("Expected 2 rules, got %d", table.Len())
	}

	if why, ok := table.Match("foo baz"); !ok || why != "starts with foo" {
		t.Errorf("Match = %q, %v", why, ok)
	}
	if why, ok := table.Match("baz bar"); !ok || why != "bar$" {
		t.Errorf("rule without reason should report its pattern, got %q", why)
	}
	if _, ok := table.Match("baz"); ok {
		t.Error("unexpected match")
	}
}

func TestPatternTableInvalid(t *testing.T) {
	for _, rules := range [][]Rule{
		{{Pattern: `(`}},
		{{Pattern: "  "}},
	} {
		if _, err := NewPatternTable(rules); !errors.Is(err, internalerr.ErrInvalidConfig) {
			t.Errorf("NewPatternTable(%v) error = %v, want ErrInvalidConfig", rules, err)
		}
	}
}

func TestBoundaryRulesMatchWholeWords(t *testing.T) {
	table := MustPatternTable(DefaultBoundaryRules())
	if _, ok := table.Match("ازدواج موفق"); ok {
		t.Error("prefix of a longer word should not count as a preposition")
	}
	if _, ok := table.Match("طراحی شبکه"); ok {
		t.Error("suffix match must be a whole word")
	}
}
