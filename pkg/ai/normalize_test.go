package ai

import (
	"math"
	"testing"
)

func TestNormalizeClassification(t *testing.T) {
	cases := []struct {
		in   Classification
		want Classification
	}{
		{ClassificationDeal, ClassificationDeal},
		{ClassificationNonDeal, ClassificationNonDeal},
		{ClassificationUncertain, ClassificationUncertain},
		{"maybe", ClassificationUncertain},
		{"", ClassificationUncertain},
	}

	for _, tc := range cases {
		insight := Normalize(&Insight{Classification: tc.in, Summary: "s"})
		if insight.Classification != tc.want {
			t.Errorf("Normalize classification %q = %q, want %q", tc.in, insight.Classification, tc.want)
		}
	}
}

func TestNormalizeConfidence(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0.5, 0.5},
		{-1, 0},
		{3.2, 1},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}

	for _, tc := range cases {
		insight := Normalize(&Insight{Classification: ClassificationDeal, Confidence: tc.in, Summary: "s"})
		if insight.Confidence != tc.want {
			t.Errorf("Normalize confidence %v = %v, want %v", tc.in, insight.Confidence, tc.want)
		}
	}
}

func TestNormalizeDefaults(t *testing.T) {
	insight := Normalize(&Insight{Classification: ClassificationDeal})

	if insight.Summary == "" {
		t.Error("empty summary should get a placeholder")
	}
	if len(insight.SuggestedNextSteps) != 1 || insight.SuggestedNextSteps[0] != ManualReviewStep {
		t.Errorf("empty steps should default to manual review, got %v", insight.SuggestedNextSteps)
	}

	insight = Normalize(&Insight{
		Classification:     ClassificationDeal,
		Summary:            "  padded  ",
		SuggestedNextSteps: []string{"  reply  ", "", "   "},
	})
	if insight.Summary != "padded" {
		t.Errorf("summary not trimmed: %q", insight.Summary)
	}
	if len(insight.SuggestedNextSteps) != 1 || insight.SuggestedNextSteps[0] != "reply" {
		t.Errorf("blank steps should be dropped, got %v", insight.SuggestedNextSteps)
	}
}

func TestDegraded(t *testing.T) {
	insight := Degraded("AI summary unavailable.")
	if insight.Classification != ClassificationUncertain {
		t.Errorf("degraded classification = %q", insight.Classification)
	}
	if insight.Confidence != 0 {
		t.Errorf("degraded confidence = %v", insight.Confidence)
	}
	if len(insight.SuggestedNextSteps) != 1 || insight.SuggestedNextSteps[0] != ManualReviewStep {
		t.Errorf("degraded steps = %v", insight.SuggestedNextSteps)
	}
}
