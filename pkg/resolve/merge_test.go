package resolve

import (
	"testing"

	"neuroconf-hq/neuroconf/pkg/document"
)

func parse(t *testing.T, src string) *document.Node {
	t.Helper()
	node, err := document.ParseBytes([]byte(src), "test.yml")
	if err != nil {
		t.Fatalf("ParseBytes() failed: %v", err)
	}
	return node
}

func TestMerge_OverlayWinsForScalars(t *testing.T) {
	base := parse(t, "tlen: 3\ntmin: 0\n")
	overlay := parse(t, "tlen: 5\n")

	merged := Merge(base, overlay)
	if got := merged.Get("tlen").Value; got != 5 {
		t.Errorf("tlen = %v, want 5", got)
	}
	if got := merged.Get("tmin").Value; got != 0 {
		t.Errorf("tmin = %v, want 0 (kept from base)", got)
	}
}

func TestMerge_MappingsMergeRecursively(t *testing.T) {
	base := parse(t, `
window:
  tmin: -0.5
  tlen: 2
`)
	overlay := parse(t, `
window:
  tlen: 4
`)

	merged := Merge(base, overlay)
	win := merged.Get("window")
	if got := win.Get("tmin").Value; got != -0.5 {
		t.Errorf("window.tmin = %v, want -0.5", got)
	}
	if got := win.Get("tlen").Value; got != 4 {
		t.Errorf("window.tlen = %v, want 4", got)
	}
}

func TestMerge_SequencesReplaceWholesale(t *testing.T) {
	base := parse(t, "picks: [eeg, eog, emg]\n")
	overlay := parse(t, "picks: [eeg]\n")

	merged := Merge(base, overlay)
	picks := merged.Get("picks")
	if len(picks.Items) != 1 {
		t.Fatalf("len(picks) = %d, want 1 (replaced, not concatenated)", len(picks.Items))
	}
	if got := picks.Items[0].Value; got != "eeg" {
		t.Errorf("picks[0] = %v, want %q", got, "eeg")
	}
}

func TestMerge_TypeMismatchReplaces(t *testing.T) {
	base := parse(t, "events:\n  left: 0\n")
	overlay := parse(t, "events: [left, right]\n")

	merged := Merge(base, overlay)
	if got := merged.Get("events").Kind; got != document.KindSequence {
		t.Errorf("events kind = %q, want sequence (overlay replaces mapping)", got)
	}
}

func TestMerge_NewOverlayKeysAppendInOverlayOrder(t *testing.T) {
	base := parse(t, "a: 1\n")
	overlay := parse(t, "z: 2\nb: 3\n")

	merged := Merge(base, overlay)
	want := []string{"a", "z", "b"}
	got := merged.Keys()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMerge_Idempotent(t *testing.T) {
	doc := parse(t, `
datasets:
  a:
    tlen: 3
    picks: [eeg]
extra: value
`)
	once := Merge(document.NewMapping(), doc)
	twice := Merge(once, doc)
	if !once.Equal(twice) {
		t.Error("merging a document with itself changed the result")
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	base := parse(t, "nested:\n  a: 1\n")
	overlay := parse(t, "nested:\n  a: 2\n")

	merged := Merge(base, overlay)
	merged.Get("nested").Set("a", document.NewScalar(99))

	if got := base.Get("nested").Get("a").Value; got != 1 {
		t.Errorf("base mutated: nested.a = %v, want 1", got)
	}
	if got := overlay.Get("nested").Get("a").Value; got != 2 {
		t.Errorf("overlay mutated: nested.a = %v, want 2", got)
	}
}

func TestMergeAll_LaterFragmentsOverrideEarlier(t *testing.T) {
	first := parse(t, "decimate: 1\nname: first\n")
	second := parse(t, "decimate: 2\n")
	third := parse(t, "decimate: 4\n")

	merged := MergeAll(first, second, third)
	if got := merged.Get("decimate").Value; got != 4 {
		t.Errorf("decimate = %v, want 4 (last writer wins)", got)
	}
	if got := merged.Get("name").Value; got != "first" {
		t.Errorf("name = %v, want %q", got, "first")
	}
}
