package sectioning

import (
	"reflect"
	"testing"

	"github.com/muallimisoniy/api/model"
)

func TestAutoSectionEmptyInput(t *testing.T) {
	plans, err := AutoSection(nil, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if plans != nil {
		t.Errorf("Expected nil plans for empty input, got %d", len(plans))
	}
}

func TestAutoSectionSplitsOnYGap(t *testing.T) {
	units := []Unit{
		{ID: 1, UnitType: model.UnitTypeLetter, TextContent: "بَـ", BboxY: 10, BboxH: 4, SortOrder: 0},
		{ID: 2, UnitType: model.UnitTypeLetter, TextContent: "تَـ", BboxY: 15, BboxH: 4, SortOrder: 1},
		// 21% gap to the next block
		{ID: 3, UnitType: model.UnitTypeWord, TextContent: "بَتَ", BboxY: 40, BboxH: 4, SortOrder: 2},
		{ID: 4, UnitType: model.UnitTypeWord, TextContent: "تَبَ", BboxY: 45, BboxH: 4, SortOrder: 3},
	}

	plans, err := AutoSection(units, DefaultGapThreshold)
	if err != nil {
		t.Fatalf("AutoSection failed: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("Expected 2 sections, got %d", len(plans))
	}

	if !reflect.DeepEqual(plans[0].UnitIDs, []uint{1, 2}) {
		t.Errorf("First section unit IDs: got %v", plans[0].UnitIDs)
	}
	if !reflect.DeepEqual(plans[1].UnitIDs, []uint{3, 4}) {
		t.Errorf("Second section unit IDs: got %v", plans[1].UnitIDs)
	}
}

func TestAutoSectionNoUnitLoss(t *testing.T) {
	units := []Unit{
		{ID: 10, UnitType: model.UnitTypeSentence, TextContent: "بِسْمِ اللَّهِ الرَّحْمَنِ الرَّحِيمِ", BboxY: 5, BboxH: 5, SortOrder: 0},
		{ID: 11, UnitType: model.UnitTypeLetter, TextContent: "بَـ", BboxY: 30, BboxH: 4, SortOrder: 1},
		{ID: 12, UnitType: model.UnitTypeLetter, TextContent: "ـبِـ", BboxY: 35, BboxH: 4, SortOrder: 2},
		{ID: 13, UnitType: model.UnitTypeLetter, TextContent: "ـبُ", BboxY: 40, BboxH: 4, SortOrder: 3},
	}

	plans, err := AutoSection(units, DefaultGapThreshold)
	if err != nil {
		t.Fatalf("AutoSection failed: %v", err)
	}

	total := 0
	for _, p := range plans {
		total += len(p.UnitIDs)
	}
	if total != len(units) {
		t.Errorf("Expected all %d units sectioned, got %d", len(units), total)
	}
}

func TestAutoSectionDeterministic(t *testing.T) {
	units := []Unit{
		{ID: 1, UnitType: model.UnitTypeLetter, TextContent: "بَـ", BboxY: 10, BboxH: 4, SortOrder: 0},
		{ID: 2, UnitType: model.UnitTypeLetter, TextContent: "تَـ", BboxY: 15, BboxH: 4, SortOrder: 1},
		{ID: 3, UnitType: model.UnitTypeWord, TextContent: "بَتَ", BboxY: 40, BboxH: 4, SortOrder: 2},
	}

	first, err := AutoSection(units, DefaultGapThreshold)
	if err != nil {
		t.Fatalf("AutoSection failed: %v", err)
	}
	second, err := AutoSection(units, DefaultGapThreshold)
	if err != nil {
		t.Fatalf("AutoSection failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("Repeated runs over the same input produced different plans")
	}
}

func TestAutoSectionOrdersUnitsBySortOrder(t *testing.T) {
	// Same row: right-to-left reading order does not follow Y position
	units := []Unit{
		{ID: 1, UnitType: model.UnitTypeLetter, TextContent: "تَـ", BboxY: 10, BboxH: 4, SortOrder: 1},
		{ID: 2, UnitType: model.UnitTypeLetter, TextContent: "بَـ", BboxY: 10, BboxH: 4, SortOrder: 0},
	}

	plans, err := AutoSection(units, DefaultGapThreshold)
	if err != nil {
		t.Fatalf("AutoSection failed: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(plans))
	}
	if !reflect.DeepEqual(plans[0].UnitIDs, []uint{2, 1}) {
		t.Errorf("Units must keep admin-assigned order, got %v", plans[0].UnitIDs)
	}
}

func TestClassifyOpeningSentence(t *testing.T) {
	units := []Unit{
		{ID: 1, UnitType: model.UnitTypeSentence, TextContent: "بِسْمِ اللَّهِ الرَّحْمَنِ الرَّحِيمِ", BboxY: 5, BboxH: 5, SortOrder: 0},
	}

	plans, err := AutoSection(units, DefaultGapThreshold)
	if err != nil {
		t.Fatalf("AutoSection failed: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(plans))
	}
	if plans[0].SectionType != model.SectionOpeningSentence {
		t.Errorf("Expected opening_sentence, got %s", plans[0].SectionType)
	}
	if plans[0].TitleUz != "Bismillah" {
		t.Errorf("Expected Bismillah title, got %q", plans[0].TitleUz)
	}
}

func TestClassifyAlphabetGrid(t *testing.T) {
	letters := []rune{'ا', 'ب', 'ت', 'ث', 'ج', 'ح', 'خ', 'د', 'ذ', 'ر', 'ز', 'س', 'ش', 'ص'}
	units := make([]Unit, 0, len(letters))
	for i, r := range letters {
		units = append(units, Unit{
			ID:          uint(i + 1),
			UnitType:    model.UnitTypeLetter,
			TextContent: string(r),
			BboxY:       float64(10 + (i/4)*4),
			BboxH:       3.0,
			SortOrder:   i,
		})
	}

	plans, err := AutoSection(units, DefaultGapThreshold)
	if err != nil {
		t.Fatalf("AutoSection failed: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("Expected the grid to stay one section, got %d", len(plans))
	}
	if plans[0].SectionType != model.SectionAlphabetGrid {
		t.Errorf("Expected alphabet_grid, got %s", plans[0].SectionType)
	}
	if plans[0].TargetLetter != "" {
		t.Errorf("Alphabet grid has no target letter, got %q", plans[0].TargetLetter)
	}
}

func TestClassifyLetterDrillAndTargetLetter(t *testing.T) {
	units := []Unit{
		{ID: 1, UnitType: model.UnitTypeLetter, TextContent: "بَـ", BboxY: 10, BboxH: 2, SortOrder: 0},
		{ID: 2, UnitType: model.UnitTypeLetter, TextContent: "ـبِـ", BboxY: 13, BboxH: 2, SortOrder: 1},
		{ID: 3, UnitType: model.UnitTypeLetter, TextContent: "ـبُ", BboxY: 16, BboxH: 2, SortOrder: 2},
	}

	plans, err := AutoSection(units, DefaultGapThreshold)
	if err != nil {
		t.Fatalf("AutoSection failed: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(plans))
	}
	if plans[0].SectionType != model.SectionLetterDrill {
		t.Errorf("Expected letter_drill, got %s", plans[0].SectionType)
	}
	if plans[0].TargetLetter != "ب" {
		t.Errorf("Expected target letter ب, got %q", plans[0].TargetLetter)
	}
	if plans[0].TitleUz != "Bo mashqi" {
		t.Errorf("Expected title 'Bo mashqi', got %q", plans[0].TitleUz)
	}
}

func TestDividerGetsOwnSection(t *testing.T) {
	units := []Unit{
		{ID: 1, UnitType: model.UnitTypeLetter, TextContent: "بَـ", BboxY: 10, BboxH: 2, SortOrder: 0},
		{ID: 2, UnitType: model.UnitTypeDivider, TextContent: "", BboxY: 13, BboxH: 1, SortOrder: 1},
		{ID: 3, UnitType: model.UnitTypeLetter, TextContent: "تَـ", BboxY: 15, BboxH: 2, SortOrder: 2},
	}

	plans, err := AutoSection(units, DefaultGapThreshold)
	if err != nil {
		t.Fatalf("AutoSection failed: %v", err)
	}
	if len(plans) != 3 {
		t.Fatalf("Expected 3 sections around the divider, got %d", len(plans))
	}
	if plans[1].SectionType != model.SectionDivider {
		t.Errorf("Expected middle section to be a divider, got %s", plans[1].SectionType)
	}
}

func TestSectionBoundsCoverUnits(t *testing.T) {
	units := []Unit{
		{ID: 1, UnitType: model.UnitTypeLetter, TextContent: "بَـ", BboxY: 12, BboxH: 4, SortOrder: 0},
		{ID: 2, UnitType: model.UnitTypeLetter, TextContent: "تَـ", BboxY: 14, BboxH: 6, SortOrder: 1},
	}

	plans, err := AutoSection(units, DefaultGapThreshold)
	if err != nil {
		t.Fatalf("AutoSection failed: %v", err)
	}
	if plans[0].BboxYStart != 12 {
		t.Errorf("Expected section to start at 12, got %v", plans[0].BboxYStart)
	}
	if plans[0].BboxYEnd != 20 {
		t.Errorf("Expected section to end at 20, got %v", plans[0].BboxYEnd)
	}
}
