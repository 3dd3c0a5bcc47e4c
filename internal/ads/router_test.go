package ads

import (
	"testing"

	"github.com/My-selling-apps/PhoneBechPakistan/pkg/config"
)

func testPolicy() Policy {
	return NewPolicy(config.ClassifierConfig{
		AllowedLabels: []string{"Smartphone", "Laptop"},
		MinConfidence: 50,
	})
}

func TestPartitionCoversEveryInputExactlyOnce(t *testing.T) {
	policy := testPolicy()
	images := []ScreenedImage{
		{URL: "u1", Label: "Smartphone", Confidence: 95},
		{URL: "u2", Label: "Chair", Confidence: 30},
		{URL: "u3", Label: "Laptop", Confidence: 88},
		{URL: "u4", Label: "Smartphone", Confidence: 12},
	}

	valid, invalid := policy.Partition(images)
	if len(valid)+len(invalid) != len(images) {
		t.Fatalf("partition dropped or duplicated images: %d + %d != %d", len(valid), len(invalid), len(images))
	}

	seen := map[string]bool{}
	for _, image := range append(append([]ScreenedImage{}, valid...), invalid...) {
		if seen[image.URL] {
			t.Fatalf("image %s appears in both buckets", image.URL)
		}
		seen[image.URL] = true
	}

	if len(valid) != 2 || valid[0].URL != "u1" || valid[1].URL != "u3" {
		t.Fatalf("unexpected valid bucket %+v", valid)
	}
	if len(invalid) != 2 || invalid[0].URL != "u2" || invalid[1].URL != "u4" {
		t.Fatalf("unexpected invalid bucket %+v", invalid)
	}
}

func TestThresholdBoundaryIsStrict(t *testing.T) {
	policy := testPolicy()

	if policy.Allows("Smartphone", 50) {
		t.Fatalf("confidence equal to the threshold must be invalid")
	}
	if !policy.Allows("Smartphone", 51) {
		t.Fatalf("confidence above the threshold with an allowed label must be valid")
	}
	if policy.Allows("Chair", 99) {
		t.Fatalf("labels outside the allow-list must be invalid regardless of confidence")
	}
}

func TestReasonStringFormat(t *testing.T) {
	image := ScreenedImage{Label: "Laptop", Confidence: 42, RawConfidence: "42"}
	if got := image.Reason(); got != "Laptop (42)" {
		t.Fatalf("unexpected reason %q", got)
	}

	joined := JoinReasons([]ScreenedImage{
		{Label: "Laptop", Confidence: 42, RawConfidence: "42"},
		{Label: "Accessory", Confidence: 10, RawConfidence: "10"},
	})
	if joined != "Laptop (42), Accessory (10)" {
		t.Fatalf("unexpected joined reason %q", joined)
	}
}

func TestReasonFallsBackToParsedConfidence(t *testing.T) {
	image := ScreenedImage{Label: "Chair", Confidence: 30.5}
	if got := image.Reason(); got != "Chair (30.5)" {
		t.Fatalf("unexpected fallback reason %q", got)
	}
}

func TestEmptyInputPartitionsToNothing(t *testing.T) {
	valid, invalid := testPolicy().Partition(nil)
	if len(valid) != 0 || len(invalid) != 0 {
		t.Fatalf("empty input must produce empty buckets")
	}
}
