// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"testing"

	"github.com/pdiddy/corpus-engine/pkg/types"
)

// mapProber backs the implicit-detection path with a fixed name set.
type mapProber map[string]bool

func (m mapProber) HasName(normalized string) bool { return m[normalized] }

func TestExtractSingleYear(t *testing.T) {
	e := New(nil)
	got := e.Extract("quantum computing 2019")

	if got.Years == nil || got.Years.From != "2019" || got.Years.To != "2019" {
		t.Fatalf("Years = %+v, want single year 2019", got.Years)
	}
	if got.Residual != "quantum computing" {
		t.Errorf("Residual = %q, want %q", got.Residual, "quantum computing")
	}
}

func TestExtractYearRange(t *testing.T) {
	e := New(nil)
	got := e.Extract("deep learning 2018-2020")

	if got.Years == nil || got.Years.From != "2018" || got.Years.To != "2020" {
		t.Fatalf("Years = %+v, want 2018-2020", got.Years)
	}
	if got.Residual != "deep learning" {
		t.Errorf("Residual = %q, want %q", got.Residual, "deep learning")
	}
	if len(got.Candidates) != 0 {
		t.Errorf("Candidates = %v, want none", got.Candidates)
	}
}

func TestExtractReversedRangeNormalized(t *testing.T) {
	e := New(nil)
	got := e.Extract("transformers 2022-2019")
	if got.Years == nil || got.Years.From != "2019" || got.Years.To != "2022" {
		t.Errorf("Years = %+v, want normalized 2019-2022", got.Years)
	}
}

func TestExtractSpacedRange(t *testing.T) {
	e := New(nil)
	got := e.Extract("robotics 2015 - 2017")
	if got.Years == nil || got.Years.From != "2015" || got.Years.To != "2017" {
		t.Fatalf("Years = %+v, want 2015-2017", got.Years)
	}
	if got.Residual != "robotics" {
		t.Errorf("Residual = %q, want robotics", got.Residual)
	}
}

func TestExtractNonYearNumbers(t *testing.T) {
	e := New(nil)
	for _, q := range []string{"top 500 algorithms", "resnet 1512", "gpt 3000"} {
		if got := e.Extract(q); got.Years != nil {
			t.Errorf("Extract(%q).Years = %+v, want nil", q, got.Years)
		}
	}
}

func TestExtractEnglishCue(t *testing.T) {
	e := New(nil)
	got := e.Extract("papers by Yann LeCun")

	if !got.CueBased {
		t.Error("CueBased = false, want true")
	}
	if len(got.Candidates) != 1 || got.Candidates[0] != "Yann LeCun" {
		t.Fatalf("Candidates = %v, want [Yann LeCun]", got.Candidates)
	}
	if got.Residual != "" {
		t.Errorf("Residual = %q, want empty", got.Residual)
	}
}

func TestExtractFrenchCue(t *testing.T) {
	e := New(nil)
	got := e.Extract("travaux de Yann LeCun")

	if !got.CueBased || len(got.Candidates) != 1 || got.Candidates[0] != "Yann LeCun" {
		t.Fatalf("got %+v, want cue-based candidate Yann LeCun", got)
	}
}

func TestExtractAccentedCue(t *testing.T) {
	e := New(nil)
	got := e.Extract("écrit par Jean-Marie Dupont")
	if len(got.Candidates) != 1 || got.Candidates[0] != "Jean-Marie Dupont" {
		t.Fatalf("Candidates = %v, want [Jean-Marie Dupont]", got.Candidates)
	}
}

func TestExtractCueWithKeywords(t *testing.T) {
	e := New(nil)
	got := e.Extract("convolutional networks by Yann LeCun")

	if len(got.Candidates) != 1 || got.Candidates[0] != "Yann LeCun" {
		t.Fatalf("Candidates = %v, want [Yann LeCun]", got.Candidates)
	}
	if got.Residual != "convolutional networks" {
		t.Errorf("Residual = %q, want %q", got.Residual, "convolutional networks")
	}
}

func TestExtractEtAl(t *testing.T) {
	e := New(nil)
	got := e.Extract("papers by Dupont et al. on graphs")

	if len(got.Candidates) != 1 || got.Candidates[0] != "Dupont" {
		t.Fatalf("Candidates = %v, want [Dupont]", got.Candidates)
	}
	if got.Residual != "on graphs" {
		t.Errorf("Residual = %q, want %q", got.Residual, "on graphs")
	}
}

func TestExtractInitialForm(t *testing.T) {
	e := New(nil)
	got := e.Extract("papers by Y. Bengio")
	if len(got.Candidates) != 1 || got.Candidates[0] != "Y Bengio" {
		t.Fatalf("Candidates = %v, want [Y Bengio]", got.Candidates)
	}
}

func TestExtractCueWithoutName(t *testing.T) {
	e := New(nil)
	got := e.Extract("sorted by relevance")

	// "by" fires as a cue but "relevance" is lowercase, so no candidate.
	if len(got.Candidates) != 0 {
		t.Errorf("Candidates = %v, want none", got.Candidates)
	}
	if !got.CueBased {
		t.Error("CueBased = false, want true: the cue itself was present")
	}
}

func TestExtractImplicitMention(t *testing.T) {
	e := New(mapProber{"yann lecun": true})
	got := e.Extract("Yann LeCun convolutional networks")

	if got.CueBased {
		t.Error("CueBased = true, want false for implicit detection")
	}
	if len(got.Candidates) != 1 || got.Candidates[0] != "Yann LeCun" {
		t.Fatalf("Candidates = %v, want [Yann LeCun]", got.Candidates)
	}
	if got.Residual != "convolutional networks" {
		t.Errorf("Residual = %q, want %q", got.Residual, "convolutional networks")
	}
}

func TestExtractImplicitPrefersLongerWindow(t *testing.T) {
	e := New(mapProber{"yann lecun": true, "lecun": true})
	got := e.Extract("Yann LeCun energy models")

	if len(got.Candidates) != 1 || got.Candidates[0] != "Yann LeCun" {
		t.Fatalf("Candidates = %v, want the two-word window only", got.Candidates)
	}
}

func TestExtractNoSignal(t *testing.T) {
	e := New(mapProber{})
	got := e.Extract("reinforcement learning for robots")

	if got.Years != nil || len(got.Candidates) != 0 {
		t.Fatalf("got %+v, want no entities", got)
	}
	if got.Residual != "reinforcement learning for robots" {
		t.Errorf("Residual = %q, want full query", got.Residual)
	}
}

func TestExtractTotalOverGarbage(t *testing.T) {
	e := New(mapProber{})
	for _, q := range []string{"", "   ", "!!! ??? ...", "́́", "par", "by by by"} {
		got := e.Extract(q) // must not panic
		if len(got.Candidates) != 0 {
			t.Errorf("Extract(%q).Candidates = %v, want none", q, got.Candidates)
		}
	}
}

func TestExtractCandidateFilters(t *testing.T) {
	e := New(nil)

	// Candidate span of pure stopwords is discarded even though it is
	// capitalized ("The" after the cue).
	got := e.Extract("papers by The")
	if len(got.Candidates) != 0 {
		t.Errorf("Candidates = %v, want none for stopword span", got.Candidates)
	}
}

func TestYearFilterContains(t *testing.T) {
	f := types.YearFilter{From: "2018", To: "2020"}
	tests := []struct {
		year string
		want bool
	}{
		{"2018", true},
		{"2019", true},
		{"2020", true},
		{"2017", false},
		{"2021", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := f.Contains(tt.year); got != tt.want {
			t.Errorf("Contains(%q) = %v, want %v", tt.year, got, tt.want)
		}
	}
}
