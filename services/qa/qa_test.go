package qa

import "testing"

func goodUnits() []Unit {
	return []Unit{
		{TextContent: "بِسْمِ", BboxX: 10, BboxY: 10, BboxW: 20, BboxH: 5, SortOrder: 0},
		{TextContent: "اللَّهِ", BboxX: 40, BboxY: 10, BboxW: 20, BboxH: 5, SortOrder: 1},
		{TextContent: "الرَّحْمَنِ", BboxX: 10, BboxY: 30, BboxW: 20, BboxH: 5, SortOrder: 2},
	}
}

func TestRunPassesOnCleanPage(t *testing.T) {
	result := Run(goodUnits())

	if !result.Passed {
		t.Fatalf("Expected a clean page to pass, got: %s", result.Summary)
	}
	if len(result.Checks) != 6 {
		t.Errorf("Expected 6 checks, got %d", len(result.Checks))
	}
}

func TestRunFailsOnEmptyPage(t *testing.T) {
	result := Run(nil)

	if result.Passed {
		t.Fatal("Expected an empty page to fail unit_count")
	}

	for _, c := range result.Checks {
		if c.Name == "unit_count" && c.Passed {
			t.Error("unit_count should fail with zero units")
		}
	}
}

func TestRunFailsOnMissingDiacritics(t *testing.T) {
	units := []Unit{
		{TextContent: "بسم", BboxX: 10, BboxY: 10, BboxW: 20, BboxH: 5, SortOrder: 0},
		{TextContent: "الله", BboxX: 40, BboxY: 10, BboxW: 20, BboxH: 5, SortOrder: 1},
	}

	result := Run(units)
	if result.Passed {
		t.Fatal("Expected bare text to fail the diacritics check")
	}
}

func TestRunFailsOnOverlap(t *testing.T) {
	units := []Unit{
		{TextContent: "بَـ", BboxX: 10, BboxY: 10, BboxW: 20, BboxH: 10, SortOrder: 0},
		{TextContent: "تَـ", BboxX: 12, BboxY: 12, BboxW: 20, BboxH: 10, SortOrder: 1},
	}

	result := Run(units)
	if result.Passed {
		t.Fatal("Expected heavily overlapping hitboxes to fail")
	}
}

func TestRunAllowsSlightOverlap(t *testing.T) {
	// Under 30% of the smaller box is tolerated
	units := []Unit{
		{TextContent: "بَـ", BboxX: 10, BboxY: 10, BboxW: 20, BboxH: 10, SortOrder: 0},
		{TextContent: "تَـ", BboxX: 28, BboxY: 10, BboxW: 20, BboxH: 10, SortOrder: 1},
	}

	result := Run(units)
	for _, c := range result.Checks {
		if c.Name == "no_overlaps" && !c.Passed {
			t.Fatalf("10%% overlap should be tolerated: %s", c.Message)
		}
	}
}

func TestRunFailsOnDuplicates(t *testing.T) {
	units := []Unit{
		{TextContent: "بَـ", BboxX: 10, BboxY: 10, BboxW: 10, BboxH: 5, SortOrder: 0},
		{TextContent: "بَـ", BboxX: 40, BboxY: 10, BboxW: 10, BboxH: 5, SortOrder: 1},
	}

	result := Run(units)
	if result.Passed {
		t.Fatal("Expected duplicated content to fail")
	}
}

func TestAudioCoverageNeverBlocks(t *testing.T) {
	// No unit has audio, but the page must still pass
	result := Run(goodUnits())

	var audioCheck *Check
	for i := range result.Checks {
		if result.Checks[i].Name == "audio_coverage" {
			audioCheck = &result.Checks[i]
		}
	}
	if audioCheck == nil {
		t.Fatal("audio_coverage check missing")
	}
	if !audioCheck.Passed {
		t.Error("audio_coverage must never block")
	}
	if !result.Passed {
		t.Error("Page without audio must still pass overall")
	}
}

func TestHitboxCheckIsInformational(t *testing.T) {
	units := goodUnits()
	units[0].BboxW = 0
	units[0].BboxH = 0

	result := Run(units)
	if !result.Passed {
		t.Fatalf("Missing hitboxes must not block: %s", result.Summary)
	}
}

func TestScoreReflectsFailures(t *testing.T) {
	full := Run(goodUnits())
	if full.Score != 1.0 {
		t.Errorf("Clean page should score 1.0, got %v", full.Score)
	}

	empty := Run(nil)
	if empty.Score >= full.Score {
		t.Errorf("Failing page should score below a clean one: %v", empty.Score)
	}
}
