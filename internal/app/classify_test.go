package app

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"syncphotos/internal/domain"
)

func TestNormalizeModel(t *testing.T) {
	cases := map[string]string{
		"Canon EOS 80D":      "canon_eos_80d",
		"  NIKON D750  ":     "nikon_d750",
		"iPhone\t 12 \n Pro": "iphone_12_pro",
		"":                   "unknown_camera_model",
		"   ":                "unknown_camera_model",
		"ILCE-7M3":           "ilce-7m3",
		"HERO/5 Black":       "hero-5_black",
		".":                  "unknown_camera_model",
		"..":                 "unknown_camera_model",
		" .. ":               "unknown_camera_model",
		"../..":              "..-..",
		"...":                "...",
	}
	for in, want := range cases {
		if got := NormalizeModel(in); got != want {
			t.Errorf("NormalizeModel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClassifyUsesTimestampCalendarFields(t *testing.T) {
	takenAt := time.Date(2021, time.March, 5, 23, 59, 0, 0, time.Local)
	now := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.Local)

	got, fallback := Classify(domain.Metadata{Model: "Canon EOS 80D", TakenAt: &takenAt}, now)
	if fallback {
		t.Fatalf("did not expect a fallback")
	}
	want := filepath.Join("canon_eos_80d", "2021", "03", "05")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestClassifyFallsBackToNow(t *testing.T) {
	now := time.Date(2024, time.October, 2, 15, 1, 0, 0, time.Local)

	got, fallback := Classify(domain.Metadata{}, now)
	if !fallback {
		t.Fatalf("expected a fallback")
	}
	want := filepath.Join("unknown_camera_model", "2024", "10", "02")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestClassifyProducesFourSegments(t *testing.T) {
	for month := 1; month <= 12; month++ {
		takenAt := time.Date(999, time.Month(month), month, 12, 0, 0, 0, time.Local)
		got, _ := Classify(domain.Metadata{Model: "x"}, takenAt)
		segments := strings.Split(got, string(filepath.Separator))
		if len(segments) != 4 {
			t.Fatalf("expected 4 segments, got %v", segments)
		}
		if len(segments[1]) != 4 || len(segments[2]) != 2 || len(segments[3]) != 2 {
			t.Fatalf("expected zero padded date segments, got %v", segments)
		}
		if segments[1] != "0999" {
			t.Fatalf("expected padded year, got %q", segments[1])
		}
	}
}

func TestClassifyKeepsDotModelsBelowTarget(t *testing.T) {
	takenAt := time.Date(2021, time.March, 5, 12, 0, 0, 0, time.Local)
	for _, model := range []string{".", ".."} {
		sub, _ := Classify(domain.Metadata{Model: model, TakenAt: &takenAt}, takenAt)
		target := filepath.Join("/archive", sub)
		if target != filepath.Join("/archive", "unknown_camera_model", "2021", "03", "05") {
			t.Fatalf("model %q escaped the target: %s", model, target)
		}
	}
}
