// Package qa validates a page's text units before publishing.
// Checks: unit count, diacritics, overlaps, duplicates, empty hitboxes,
// audio coverage.
package qa

import (
	"fmt"
	"strings"

	"github.com/muallimisoniy/api/utils/arabic"
)

// Unit is the flattened text-unit view the checks run over
type Unit struct {
	TextContent     string  `json:"text_content"`
	BboxX           float64 `json:"bbox_x"`
	BboxY           float64 `json:"bbox_y"`
	BboxW           float64 `json:"bbox_w"`
	BboxH           float64 `json:"bbox_h"`
	SortOrder       int     `json:"sort_order"`
	AudioSegmentURL string  `json:"audio_segment_url,omitempty"`
}

// Check is one named check result
type Check struct {
	Name    string                 `json:"name"`
	Passed  bool                   `json:"passed"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details"`
}

// Result of a full QA run
type Result struct {
	Passed  bool    `json:"passed"`
	Score   float64 `json:"score"` // 0.0-1.0 weighted quality score
	Checks  []Check `json:"checks"`
	Summary string  `json:"summary"`
}

const (
	minUnits           = 1
	diacriticsMinRatio = 0.8 // share of Arabic units that must carry harakat
	overlapMaxRatio    = 0.3 // of the smaller box
)

func checkUnitCount(units []Unit) Check {
	count := len(units)
	passed := count >= minUnits
	msg := fmt.Sprintf("%d ta unit topildi", count)
	if !passed {
		msg += fmt.Sprintf(" (kamida %d kerak)", minUnits)
	}
	return Check{
		Name:    "unit_count",
		Passed:  passed,
		Message: msg,
		Details: map[string]interface{}{"count": count, "min_required": minUnits},
	}
}

func checkDiacriticsPresence(units []Unit) Check {
	totalArabic := 0
	withDiacritics := 0
	var missing []map[string]interface{}

	for _, u := range units {
		if !arabic.HasArabic(u.TextContent) {
			continue
		}
		totalArabic++
		if arabic.HasDiacritics(u.TextContent) {
			withDiacritics++
		} else {
			missing = append(missing, map[string]interface{}{
				"sort_order": u.SortOrder,
				"text":       truncate(u.TextContent, 50),
			})
		}
	}

	if totalArabic == 0 {
		return Check{
			Name:    "diacritics_presence",
			Passed:  true,
			Message: "Arabcha text yo'q",
			Details: map[string]interface{}{},
		}
	}

	ratio := float64(withDiacritics) / float64(totalArabic)
	passed := ratio >= diacriticsMinRatio

	return Check{
		Name:    "diacritics_presence",
		Passed:  passed,
		Message: fmt.Sprintf("%d/%d Arabcha unitlarda harakatlar bor (%.0f%%)", withDiacritics, totalArabic, ratio*100),
		Details: map[string]interface{}{
			"total_arabic_units": totalArabic,
			"with_diacritics":    withDiacritics,
			"ratio":              round2(ratio),
			"missing":            cap10(missing),
		},
	}
}

func checkOverlaps(units []Unit) Check {
	var overlaps []map[string]interface{}

	for i, a := range units {
		for j, b := range units {
			if i >= j {
				continue
			}
			// Units without a hitbox cannot overlap
			if a.BboxW == 0 || b.BboxW == 0 {
				continue
			}

			overlapX := maxf(0, minf(a.BboxX+a.BboxW, b.BboxX+b.BboxW)-maxf(a.BboxX, b.BboxX))
			overlapY := maxf(0, minf(a.BboxY+a.BboxH, b.BboxY+b.BboxH)-maxf(a.BboxY, b.BboxY))
			overlapArea := overlapX * overlapY

			minArea := minf(a.BboxW*a.BboxH, b.BboxW*b.BboxH)
			if minArea <= 0 {
				minArea = 1
			}

			if overlapArea/minArea > overlapMaxRatio {
				overlaps = append(overlaps, map[string]interface{}{
					"unit_a":        a.SortOrder,
					"unit_b":        b.SortOrder,
					"overlap_ratio": round2(overlapArea / minArea),
				})
			}
		}
	}

	passed := len(overlaps) == 0
	msg := "Overlap yo'q"
	if !passed {
		msg = fmt.Sprintf("%d ta overlap topildi", len(overlaps))
	}
	return Check{
		Name:    "no_overlaps",
		Passed:  passed,
		Message: msg,
		Details: map[string]interface{}{"overlaps": cap10(overlaps)},
	}
}

func checkDuplicates(units []Unit) Check {
	seen := map[string]int{}
	var duplicates []map[string]interface{}

	for _, u := range units {
		text := strings.TrimSpace(u.TextContent)
		if text == "" {
			continue
		}
		if first, ok := seen[text]; ok {
			duplicates = append(duplicates, map[string]interface{}{
				"text":         truncate(text, 50),
				"sort_order_a": first,
				"sort_order_b": u.SortOrder,
			})
		} else {
			seen[text] = u.SortOrder
		}
	}

	passed := len(duplicates) == 0
	msg := "Dublikat yo'q"
	if !passed {
		msg = fmt.Sprintf("%d ta dublikat topildi", len(duplicates))
	}
	return Check{
		Name:    "no_duplicates",
		Passed:  passed,
		Message: msg,
		Details: map[string]interface{}{"duplicates": cap10(duplicates)},
	}
}

func checkEmptyHitboxes(units []Unit) Check {
	var empty []map[string]interface{}

	for _, u := range units {
		if u.BboxW == 0 || u.BboxH == 0 {
			empty = append(empty, map[string]interface{}{
				"sort_order": u.SortOrder,
				"text":       truncate(u.TextContent, 30),
			})
		}
	}

	// Informational: native layout does not always need hitboxes
	msg := "Barcha unitlarning bbox'i bor"
	if len(empty) > 0 {
		msg = fmt.Sprintf("%d ta unit bbox'siz", len(empty))
	}
	return Check{
		Name:    "hitbox_check",
		Passed:  true,
		Message: msg,
		Details: map[string]interface{}{"empty_count": len(empty), "empty_units": cap10(empty)},
	}
}

func checkAudioCoverage(units []Unit) Check {
	total := len(units)
	withAudio := 0
	for _, u := range units {
		if u.AudioSegmentURL != "" {
			withAudio++
		}
	}

	ratio := 0.0
	if total > 0 {
		ratio = float64(withAudio) / float64(total)
	}

	// Never blocks publish
	return Check{
		Name:    "audio_coverage",
		Passed:  true,
		Message: fmt.Sprintf("%d/%d unitlarda audio bor (%.0f%%)", withAudio, total, ratio*100),
		Details: map[string]interface{}{
			"total":      total,
			"with_audio": withAudio,
			"ratio":      round2(ratio),
		},
	}
}

var checkWeights = map[string]float64{
	"unit_count":          0.15,
	"diacritics_presence": 0.30,
	"no_overlaps":         0.20,
	"no_duplicates":       0.15,
	"hitbox_check":        0.10,
	"audio_coverage":      0.10,
}

// Run executes all checks. The audio coverage check never blocks the
// publish decision; everything else must pass.
func Run(units []Unit) Result {
	checks := []Check{
		checkUnitCount(units),
		checkDiacriticsPresence(units),
		checkOverlaps(units),
		checkDuplicates(units),
		checkEmptyHitboxes(units),
		checkAudioCoverage(units),
	}

	passed := true
	for _, c := range checks {
		if c.Name == "audio_coverage" {
			continue
		}
		if !c.Passed {
			passed = false
		}
	}

	score := 0.0
	var failed []string
	for _, c := range checks {
		weight, ok := checkWeights[c.Name]
		if !ok {
			weight = 0.1
		}
		if c.Passed {
			score += weight
		} else {
			failed = append(failed, c.Name)
		}
	}

	var summary string
	if passed {
		summary = fmt.Sprintf("QA o'tdi (ball: %.0f%%)", score*100)
	} else {
		summary = fmt.Sprintf("QA o'tmadi: %s (ball: %.0f%%)", strings.Join(failed, ", "), score*100)
	}

	return Result{
		Passed:  passed,
		Score:   round2(score),
		Checks:  checks,
		Summary: summary,
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func cap10(items []map[string]interface{}) []map[string]interface{} {
	if len(items) > 10 {
		return items[:10]
	}
	return items
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
