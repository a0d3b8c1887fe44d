// Package sectioning is the deterministic, textbook-aware auto-sectioning
// engine: it splits a page's text units into vertical blocks, classifies
// each block and produces section rows ready for insertion.
package sectioning

import (
	"fmt"
	"math"
	"sort"

	"github.com/muallimisoniy/api/model"
	"github.com/muallimisoniy/api/utils/arabic"
)

// Unit is the engine's input view of a text unit
type Unit struct {
	ID          uint
	UnitType    model.UnitType
	TextContent string
	BboxX       float64
	BboxY       float64
	BboxW       float64
	BboxH       float64
	SortOrder   int
}

// SectionPlan is one computed section before insertion
type SectionPlan struct {
	SectionType  model.SectionType
	TargetLetter string
	TitleAr      string
	TitleUz      string
	SortOrder    int
	UnitIDs      []uint
	BboxYStart   float64
	BboxYEnd     float64
}

// DefaultGapThreshold is the Y-gap (% of page) that separates blocks
const DefaultGapThreshold = 5.0

var letterNamesUz = map[rune]string{
	'ا': "Alif", 'ب': "Bo", 'ت': "To", 'ث': "So",
	'ج': "Jim", 'ح': "Ha", 'خ': "Xo", 'د': "Dal",
	'ذ': "Zol", 'ر': "Ro", 'ز': "Zayn", 'س': "Sin",
	'ش': "Shin", 'ص': "Sod", 'ض': "Zod", 'ط': "To",
	'ظ': "Zo", 'ع': "Ayn", 'غ': "G'ayn", 'ف': "Fo",
	'ق': "Qof", 'ك': "Kof", 'ل': "Lom", 'م': "Mim",
	'ن': "Nun", 'ه': "Ho", 'و': "Vov", 'ي': "Yo",
	'ک': "Kof", 'ی': "Yo",
}

// AutoSection runs the engine over a page's units.
// Guarantees: every unit lands in exactly one section, sections are
// ordered top to bottom, and the output is deterministic.
func AutoSection(units []Unit, gapThreshold float64) ([]SectionPlan, error) {
	if len(units) == 0 {
		return nil, nil
	}
	if gapThreshold <= 0 {
		gapThreshold = DefaultGapThreshold
	}

	blocks := segmentByYAxis(units, gapThreshold)

	var plans []SectionPlan
	seen := map[uint]bool{}

	for i, block := range blocks {
		sectionType := classifyBlock(block, i)
		targetLetter := extractTargetLetter(block, sectionType)
		titleAr, titleUz := generateTitles(sectionType, targetLetter)

		blockSorted := append([]Unit(nil), block...)
		sort.SliceStable(blockSorted, func(a, b int) bool {
			return blockSorted[a].SortOrder < blockSorted[b].SortOrder
		})

		unitIDs := make([]uint, 0, len(blockSorted))
		for _, u := range blockSorted {
			if seen[u.ID] {
				return nil, fmt.Errorf("unit %d assigned to multiple sections", u.ID)
			}
			seen[u.ID] = true
			unitIDs = append(unitIDs, u.ID)
		}

		yStart := math.Inf(1)
		yEnd := math.Inf(-1)
		for _, u := range block {
			yStart = math.Min(yStart, u.BboxY)
			yEnd = math.Max(yEnd, u.BboxY+u.BboxH)
		}

		plans = append(plans, SectionPlan{
			SectionType:  sectionType,
			TargetLetter: targetLetter,
			TitleAr:      titleAr,
			TitleUz:      titleUz,
			SortOrder:    i,
			UnitIDs:      unitIDs,
			BboxYStart:   math.Round(yStart*100) / 100,
			BboxYEnd:     math.Round(yEnd*100) / 100,
		})
	}

	if len(seen) != len(units) {
		return nil, fmt.Errorf("unit loss detected: %d of %d units sectioned", len(seen), len(units))
	}

	return plans, nil
}

// segmentByYAxis splits units into vertical blocks at Y gaps and at
// explicit divider units
func segmentByYAxis(units []Unit, gapThreshold float64) [][]Unit {
	sorted := append([]Unit(nil), units...)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].BboxY < sorted[b].BboxY
	})

	var blocks [][]Unit
	current := []Unit{sorted[0]}

	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1]
		curr := sorted[i]

		gap := curr.BboxY - (prev.BboxY + prev.BboxH)
		isDivider := curr.UnitType == model.UnitTypeDivider

		switch {
		case isDivider:
			if len(current) > 0 {
				blocks = append(blocks, current)
			}
			blocks = append(blocks, []Unit{curr})
			current = nil
		case gap > gapThreshold:
			blocks = append(blocks, current)
			current = []Unit{curr}
		default:
			current = append(current, curr)
		}
	}

	if len(current) > 0 {
		blocks = append(blocks, current)
	}

	return blocks
}

// classifyBlock picks a section type by priority: divider, opening
// sentence, alphabet grid, letter introduction, letter drill, word
// drill, generic
func classifyBlock(block []Unit, blockIndex int) model.SectionType {
	if len(block) == 0 {
		return model.SectionGeneric
	}

	if len(block) == 1 && block[0].UnitType == model.UnitTypeDivider {
		return model.SectionDivider
	}

	total := len(block)
	letterCount, wordCount, sentenceCount := 0, 0, 0
	totalTextLen := 0
	for _, u := range block {
		switch u.UnitType {
		case model.UnitTypeLetter:
			letterCount++
		case model.UnitTypeWord:
			wordCount++
		case model.UnitTypeSentence:
			sentenceCount++
		}
		totalTextLen += len([]rune(u.TextContent))
	}

	// Opening sentence: a lone long sentence at the top of the page
	if blockIndex == 0 && sentenceCount >= 1 && total <= 3 {
		if float64(totalTextLen)/float64(total) > 10 {
			return model.SectionOpeningSentence
		}
	}

	// Alphabet grid: many similar-height letter units
	if letterCount >= 14 {
		var heights []float64
		for _, u := range block {
			if u.UnitType == model.UnitTypeLetter {
				heights = append(heights, u.BboxH)
			}
		}
		if len(heights) > 0 {
			sum := 0.0
			for _, h := range heights {
				sum += h
			}
			avg := sum / float64(len(heights))
			similar := 0
			for _, h := range heights {
				if math.Abs(h-avg)/math.Max(avg, 0.01) < 0.3 {
					similar++
				}
			}
			if float64(similar)/float64(len(heights)) > 0.7 {
				return model.SectionAlphabetGrid
			}
		}
	}

	// Letter introduction: up to 5 units, at least half of them one
	// large base letter
	if total <= 5 {
		var singles []Unit
		for _, u := range block {
			if arabic.BaseLetterCount(u.TextContent) == 1 {
				singles = append(singles, u)
			}
		}
		if len(singles) > 0 && float64(len(singles)) >= float64(total)*0.5 {
			maxH := 0.0
			for _, u := range singles {
				maxH = math.Max(maxH, u.BboxH)
			}
			if maxH > 3.0 {
				return model.SectionLetterIntroduction
			}
		}
	}

	// Letter drill: short vocalized units
	if float64(letterCount) >= float64(total)*0.5 || total >= 3 {
		diacritical := 0
		for _, u := range block {
			if arabic.HasDiacritics(u.TextContent) && arabic.BaseLetterCount(u.TextContent) <= 2 {
				diacritical++
			}
		}
		if float64(diacritical) >= float64(total)*0.4 {
			return model.SectionLetterDrill
		}
	}

	// Word drill: multi-letter tokens
	if float64(wordCount) >= float64(total)*0.3 || total >= 2 {
		multiLetter := 0
		for _, u := range block {
			n := arabic.BaseLetterCount(u.TextContent)
			if n >= 2 && n <= 6 {
				multiLetter++
			}
		}
		if float64(multiLetter) >= float64(total)*0.4 {
			return model.SectionWordDrill
		}
	}

	if float64(letterCount) >= float64(total)*0.6 {
		return model.SectionLetterDrill
	}

	return model.SectionGeneric
}

// extractTargetLetter finds the dominant letter in a block by majority
// vote over base letters
func extractTargetLetter(block []Unit, sectionType model.SectionType) string {
	switch sectionType {
	case model.SectionOpeningSentence, model.SectionDivider, model.SectionAlphabetGrid:
		return ""
	}

	counts := map[rune]int{}
	var order []rune
	for _, u := range block {
		for _, r := range arabic.StripDiacritics(u.TextContent) {
			if (r >= 0x0621 && r <= 0x064A) || (r >= 0x0671 && r <= 0x06FF) {
				if r == arabic.Tatweel {
					continue
				}
				if counts[r] == 0 {
					order = append(order, r)
				}
				counts[r]++
			}
		}
	}

	best := rune(0)
	bestCount := 0
	for _, r := range order {
		if counts[r] > bestCount {
			best = r
			bestCount = counts[r]
		}
	}
	if best == 0 {
		return ""
	}
	return string(best)
}

// generateTitles builds Arabic and Uzbek titles for a section
func generateTitles(sectionType model.SectionType, targetLetter string) (string, string) {
	switch sectionType {
	case model.SectionOpeningSentence:
		return "بسم الله", "Bismillah"
	case model.SectionAlphabetGrid:
		return "الحروف", "Alifbo"
	case model.SectionDivider:
		return "", ""
	}

	letterUz := targetLetter
	if targetLetter != "" {
		if name, ok := letterNamesUz[[]rune(targetLetter)[0]]; ok {
			letterUz = name
		}
	}

	switch sectionType {
	case model.SectionLetterIntroduction:
		return "حرف " + targetLetter, letterUz + " harfi"
	case model.SectionLetterDrill:
		return "تمرين " + targetLetter, letterUz + " mashqi"
	case model.SectionWordDrill:
		return "كلمات " + targetLetter, letterUz + " so'zlari"
	}

	if letterUz == "" {
		letterUz = "Bo'lim"
	}
	return targetLetter, letterUz
}
