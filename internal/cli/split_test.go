package cli

import (
	"reflect"
	"testing"
)

func TestSplitLine(t *testing.T) {
	cases := map[string][]string{
		"list":                             {"list"},
		"done  2":                          {"done", "2"},
		"add --due \"2026-10-20 18:00\" x": {"add", "--due", "2026-10-20 18:00", "x"},
		"add --due '+1h' Buy\tmilk":        {"add", "--due", "+1h", "Buy", "milk"},
		"add --due +1h \"\"":               {"add", "--due", "+1h", ""},
		`add "say \"hi\""`:                 {"add", `say "hi"`},
		`add a\ b`:                         {"add", "a b"},
		`add 'it\s'`:                       {"add", `it\s`},
	}
	for in, want := range cases {
		got, err := splitLine(in)
		if err != nil {
			t.Errorf("splitLine(%q): unexpected error: %v", in, err)
			continue
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("splitLine(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestSplitLine_Blank(t *testing.T) {
	for _, in := range []string{"", "   ", "\t"} {
		got, err := splitLine(in)
		if err != nil || len(got) != 0 {
			t.Errorf("splitLine(%q): expected no words, got %q (%v)", in, got, err)
		}
	}
}

func TestSplitLine_Rejects(t *testing.T) {
	for _, in := range []string{
		`add --due "+1h x`,
		`add it\`,
		"list; rm 1",
		"list | rm 1",
	} {
		if _, err := splitLine(in); err == nil {
			t.Errorf("splitLine(%q): expected error", in)
		}
	}
}
