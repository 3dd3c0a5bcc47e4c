package ads

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/My-selling-apps/PhoneBechPakistan/pkg/config"
)

// ScreenedImage is one uploaded image paired with its classification result.
type ScreenedImage struct {
	URL           string
	Label         string
	Confidence    float64
	RawConfidence string
}

// Reason renders the per-image rejection reason, e.g. "Laptop (42)".
func (s ScreenedImage) Reason() string {
	raw := s.RawConfidence
	if raw == "" {
		raw = strconv.FormatFloat(s.Confidence, 'f', -1, 64)
	}
	return fmt.Sprintf("%s (%s)", s.Label, raw)
}

// Policy is the screening rule applied to every classified image.
type Policy struct {
	allowed       map[string]struct{}
	minConfidence float64
}

// NewPolicy builds the screening policy from configuration.
func NewPolicy(cfg config.ClassifierConfig) Policy {
	allowed := make(map[string]struct{}, len(cfg.AllowedLabels))
	for _, label := range cfg.AllowedLabels {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			allowed[trimmed] = struct{}{}
		}
	}
	return Policy{allowed: allowed, minConfidence: cfg.MinConfidence}
}

// Allows reports whether a single result passes the label and confidence rule.
// The confidence comparison is strictly greater-than.
func (p Policy) Allows(label string, confidence float64) bool {
	if _, ok := p.allowed[label]; !ok {
		return false
	}
	return confidence > p.minConfidence
}

// Partition splits screened images into valid and invalid buckets, preserving
// input order. Every input lands in exactly one bucket.
func (p Policy) Partition(images []ScreenedImage) (valid, invalid []ScreenedImage) {
	for _, image := range images {
		if p.Allows(image.Label, image.Confidence) {
			valid = append(valid, image)
		} else {
			invalid = append(invalid, image)
		}
	}
	return valid, invalid
}

// JoinReasons concatenates per-image reasons in input order.
func JoinReasons(invalid []ScreenedImage) string {
	reasons := make([]string, 0, len(invalid))
	for _, image := range invalid {
		reasons = append(reasons, image.Reason())
	}
	return strings.Join(reasons, ", ")
}

func imageURLs(images []ScreenedImage) []string {
	urls := make([]string, 0, len(images))
	for _, image := range images {
		urls = append(urls, image.URL)
	}
	return urls
}
