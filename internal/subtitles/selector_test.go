package subtitles

import (
	"reflect"
	"testing"
)

func TestSelectBestPerLanguage(t *testing.T) {
	candidates := []Candidate{
		{ID: "A", Language: "en", Score: 7.0},
		{ID: "B", Language: "en", Score: 9.0},
		{ID: "C", Language: "fr", Score: 5.0},
	}

	selection := Select(candidates, []string{"en", "fr"}, false)

	if len(selection.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(selection.Groups))
	}
	if got := ids(selection); !reflect.DeepEqual(got, []string{"B", "C"}) {
		t.Fatalf("expected [B C], got %v", got)
	}
	if selection.Groups[0].Language != "en" || selection.Groups[1].Language != "fr" {
		t.Fatalf("unexpected group order: %+v", selection.Groups)
	}
}

func TestSelectTieBreakFirstSeen(t *testing.T) {
	candidates := []Candidate{
		{ID: "A", Language: "en", Score: 9.0},
		{ID: "B", Language: "en", Score: 9.0},
	}

	selection := Select(candidates, []string{"en"}, false)

	if got := ids(selection); !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("expected first of the tie to win, got %v", got)
	}
}

func TestSelectAllMode(t *testing.T) {
	candidates := []Candidate{
		{ID: "A", Language: "en", Score: 9.0},
		{ID: "B", Language: "en", Score: 9.0},
	}

	selection := Select(candidates, []string{"en"}, true)

	if got := ids(selection); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("expected both candidates in input order, got %v", got)
	}
	if selection.Count() != 2 {
		t.Fatalf("expected count 2, got %d", selection.Count())
	}
}

func TestSelectEmptyRequestPassesThrough(t *testing.T) {
	candidates := []Candidate{
		{ID: "A", Language: "fr", Score: 3.0},
		{ID: "B", Language: "en", Score: 9.0},
		{ID: "C", Language: "fr", Score: 5.0},
	}

	selection := Select(candidates, nil, false)

	// Group order follows language discovery order in the input.
	if got := ids(selection); !reflect.DeepEqual(got, []string{"C", "B"}) {
		t.Fatalf("expected [C B], got %v", got)
	}
	if selection.Groups[0].Language != "fr" {
		t.Fatalf("expected fr discovered first, got %s", selection.Groups[0].Language)
	}
}

func TestSelectFiltersUnrequestedLanguages(t *testing.T) {
	candidates := []Candidate{
		{ID: "A", Language: "de", Score: 9.5},
		{ID: "B", Language: "en", Score: 2.0},
	}

	selection := Select(candidates, []string{"en"}, false)

	if got := ids(selection); !reflect.DeepEqual(got, []string{"B"}) {
		t.Fatalf("expected only en candidate, got %v", got)
	}
}

func TestSelectNoMatchesIsEmptyNotError(t *testing.T) {
	candidates := []Candidate{{ID: "A", Language: "de", Score: 9.5}}

	selection := Select(candidates, []string{"en"}, false)

	if !selection.Empty() {
		t.Fatalf("expected empty selection, got %+v", selection)
	}
	if selection.Count() != 0 {
		t.Fatalf("expected count 0, got %d", selection.Count())
	}
}

func TestSelectRequestedOrderWinsOverDiscovery(t *testing.T) {
	candidates := []Candidate{
		{ID: "A", Language: "fr", Score: 5.0},
		{ID: "B", Language: "en", Score: 9.0},
	}

	selection := Select(candidates, []string{"en", "fr"}, false)

	if selection.Groups[0].Language != "en" || selection.Groups[1].Language != "fr" {
		t.Fatalf("expected requested order en,fr; got %+v", selection.Groups)
	}
}

func TestSelectNormalizesCaseAndWhitespace(t *testing.T) {
	candidates := []Candidate{{ID: "A", Language: "EN", Score: 1.0}}

	selection := Select(candidates, []string{" en "}, false)

	if got := ids(selection); !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("expected case-insensitive match, got %v", got)
	}
}

func TestSelectDeterministic(t *testing.T) {
	candidates := []Candidate{
		{ID: "A", Language: "en", Score: 4.0},
		{ID: "B", Language: "fr", Score: 4.0},
		{ID: "C", Language: "en", Score: 8.0},
		{ID: "D", Language: "fr", Score: 8.0},
	}
	first := Select(candidates, []string{"en", "fr"}, true)
	for i := 0; i < 10; i++ {
		if got := Select(candidates, []string{"en", "fr"}, true); !reflect.DeepEqual(got, first) {
			t.Fatalf("selection not deterministic: %+v vs %+v", got, first)
		}
	}
}

func ids(s Selection) []string {
	var out []string
	for _, group := range s.Groups {
		for _, candidate := range group.Candidates {
			out = append(out, candidate.ID)
		}
	}
	return out
}
