package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"neuroconf-hq/neuroconf/pkg/descriptor"
	"neuroconf-hq/neuroconf/pkg/resolve"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestLoader_EndToEnd(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"config.yml": `
global_defaults: !include defaults.yml
datasets:
  mmidb:
    toplevel: /data/mmidb
    tlen: 6
    events:
      - rest
      - move
  bci_iv: !include datasets/bci_iv.yml
experiment_name: baseline_sweep
`,
		"defaults.yml": "tmin: -0.5\ndecimate: 2\n",
		"datasets/bci_iv.yml": `
moabb: BNCI2014001
tlen: 4
decimate: 1
`,
	})

	loader := NewLoader(Options{})
	result, err := loader.Load(context.Background(), filepath.Join(dir, "config.yml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if result.RunID == "" {
		t.Error("RunID empty")
	}
	if len(result.Skipped) != 0 {
		t.Fatalf("Skipped = %v, want none", result.Skipped)
	}
	if result.Registry.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", result.Registry.Len())
	}

	mmidb, ok := result.Registry.Get("mmidb")
	if !ok {
		t.Fatal("mmidb missing from registry")
	}
	if mmidb.TMin != -0.5 {
		t.Errorf("mmidb.TMin = %g, want global default -0.5", mmidb.TMin)
	}
	if mmidb.Decimate != 2 {
		t.Errorf("mmidb.Decimate = %d, want global default 2", mmidb.Decimate)
	}
	if mmidb.Events["move"] != 1 {
		t.Errorf("mmidb.Events = %v, want auto-numbered labels", mmidb.Events)
	}

	bci, _ := result.Registry.Get("bci_iv")
	if bci.Moabb == nil || bci.Moabb.Name != "BNCI2014001" {
		t.Errorf("bci_iv.Moabb = %+v", bci.Moabb)
	}
	if bci.Decimate != 1 {
		t.Errorf("bci_iv.Decimate = %d, want dataset override 1", bci.Decimate)
	}

	// Declaration order survives into All().
	all := result.Registry.All()
	if all[0].Name != "mmidb" || all[1].Name != "bci_iv" {
		t.Errorf("All() order = [%s, %s], want declaration order", all[0].Name, all[1].Name)
	}

	extra, ok := result.Registry.Extra("experiment_name")
	if !ok || extra.Value != "baseline_sweep" {
		t.Errorf("Extra(experiment_name) = %v, %v; want passthrough scalar", extra, ok)
	}
}

func TestLoader_SlidingWindowDataset(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"config.yml": `
datasets:
  a:
    toplevel: "./x"
    tlen: 3
    stride: 300
`,
	})

	result, err := NewLoader(Options{}).Load(context.Background(), filepath.Join(dir, "config.yml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if result.Registry.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", result.Registry.Len())
	}

	d, ok := result.Registry.Get("a")
	if !ok {
		t.Fatal("dataset a missing")
	}
	if d.Name != "a" {
		t.Errorf("Name = %q, want %q", d.Name, "a")
	}
	if d.Stride == nil || *d.Stride != 300 {
		t.Errorf("Stride = %v, want 300", d.Stride)
	}
	if d.Decimate != 1 {
		t.Errorf("Decimate = %d, want 1", d.Decimate)
	}
	if d.DropBad {
		t.Error("DropBad = true, want false")
	}
	if len(d.Events) != 0 {
		t.Errorf("Events = %v, want empty", d.Events)
	}
}

func TestLoader_InvalidSiblingIsSkippedNotFatal(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"config.yml": `
datasets:
  good:
    toplevel: /data/good
    tlen: 2
  broken:
    toplevel: /data/broken
  also_good:
    toplevel: /data/also
    tlen: 3
`,
	})

	result, err := NewLoader(Options{}).Load(context.Background(), filepath.Join(dir, "config.yml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if result.Registry.Len() != 2 {
		t.Errorf("Len() = %d, want the two valid siblings", result.Registry.Len())
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Name != "broken" {
		t.Fatalf("Skipped = %v, want exactly [broken]", result.Skipped)
	}
	var verr *descriptor.ValidationError
	if !errors.As(result.Skipped[0].Err, &verr) {
		t.Errorf("skip cause = %T, want *descriptor.ValidationError", result.Skipped[0].Err)
	}
	if _, ok := result.Registry.Get("broken"); ok {
		t.Error("skipped dataset still present in registry")
	}
}

func TestLoader_RootErrorsAbort(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"missing_include.yml": "datasets: !include nowhere.yml\n",
		"not_mapping.yml":     "- a\n- b\n",
		"bad_datasets.yml":    "datasets: [a, b]\n",
	})

	loader := NewLoader(Options{})
	ctx := context.Background()

	_, err := loader.Load(ctx, filepath.Join(dir, "missing_include.yml"))
	var notFound *resolve.IncludeNotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("missing include: error = %v, want *IncludeNotFoundError", err)
	}

	if _, err := loader.Load(ctx, filepath.Join(dir, "not_mapping.yml")); err == nil {
		t.Error("non-mapping root: Load() succeeded, want error")
	}
	if _, err := loader.Load(ctx, filepath.Join(dir, "bad_datasets.yml")); err == nil {
		t.Error("non-mapping datasets: Load() succeeded, want error")
	}
}

func TestLoader_NoDatasetsSection(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"config.yml": "experiment_name: empty\n",
	})

	result, err := NewLoader(Options{}).Load(context.Background(), filepath.Join(dir, "config.yml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if result.Registry.Len() != 0 {
		t.Errorf("Len() = %d, want 0", result.Registry.Len())
	}
}

func TestLoader_GlobAssemblesDatasets(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"config.yml":    `datasets: !include "sets/*.yml"`,
		"sets/a_mm.yml": "mmidb:\n  toplevel: /data/mm\n  tlen: 2\n",
		"sets/b_bc.yml": "bci:\n  moabb: BNCI2014001\n  tlen: 4\n",
	})

	result, err := NewLoader(Options{}).Load(context.Background(), filepath.Join(dir, "config.yml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if result.Registry.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", result.Registry.Len())
	}
	all := result.Registry.All()
	if all[0].Name != "mmidb" || all[1].Name != "bci" {
		t.Errorf("order = [%s, %s], want lexicographic fragment order", all[0].Name, all[1].Name)
	}
}

func TestLoader_RepeatedLoadsAreIdentical(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"config.yml": `
datasets: !include "sets/*.yml"
global_defaults:
  tmin: -0.2
`,
		"sets/one.yml": "alpha:\n  toplevel: /a\n  tlen: 2\n",
		"sets/two.yml": "beta:\n  moabb: X\n  tlen: 3\n  picks: [eeg]\n",
	})

	loader := NewLoader(Options{})
	first, err := loader.Load(context.Background(), filepath.Join(dir, "config.yml"))
	if err != nil {
		t.Fatalf("first Load() failed: %v", err)
	}
	second, err := loader.Load(context.Background(), filepath.Join(dir, "config.yml"))
	if err != nil {
		t.Fatalf("second Load() failed: %v", err)
	}

	a, err := yaml.Marshal(first.Registry)
	if err != nil {
		t.Fatalf("Marshal first: %v", err)
	}
	b, err := yaml.Marshal(second.Registry)
	if err != nil {
		t.Fatalf("Marshal second: %v", err)
	}
	if string(a) != string(b) {
		t.Errorf("repeated loads differ:\n--- first ---\n%s\n--- second ---\n%s", a, b)
	}
}

func TestRegistry_MarshalRoundTrip(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"config.yml": `
datasets:
  mmidb:
    toplevel: /data/mm
    tlen: 6
    events: [rest, move]
    bandpass: [0.1, 40]
experiment_name: sweep
`,
	})

	result, err := NewLoader(Options{}).Load(context.Background(), filepath.Join(dir, "config.yml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	out, err := yaml.Marshal(result.Registry)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded struct {
		Datasets map[string]struct {
			Toplevel string  `yaml:"toplevel"`
			TLen     float64 `yaml:"tlen"`
		} `yaml:"datasets"`
		ExperimentName string `yaml:"experiment_name"`
	}
	if err := yaml.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Unmarshal emitted YAML: %v", err)
	}
	if got := decoded.Datasets["mmidb"].TLen; got != 6 {
		t.Errorf("emitted tlen = %g, want 6", got)
	}
	if decoded.ExperimentName != "sweep" {
		t.Errorf("emitted experiment_name = %q, want passthrough", decoded.ExperimentName)
	}
}
