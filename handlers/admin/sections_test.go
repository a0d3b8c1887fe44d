package admin

import (
	"strings"
	"testing"

	"github.com/muallimisoniy/api/utils/validation"
)

func TestSectionRequestValidation(t *testing.T) {
	v := validation.NewValidator()

	good := SectionRequest{SectionType: "letter_drill", TargetLetter: "ب", TitleUz: "Bo mashqi"}
	if err := v.ValidateStruct(&good); err != nil {
		t.Fatalf("Valid payload rejected: %v", err)
	}

	bad := SectionRequest{SectionType: "freestyle"}
	err := v.ValidateStruct(&bad)
	if err == nil {
		t.Fatal("Unknown section type must fail validation")
	}
	if fields := validation.FormatValidationErrors(err); fields["sectiontype"] == "" {
		t.Errorf("Expected a section type error, got %v", fields)
	}

	long := SectionRequest{SectionType: "generic", TitleUz: strings.Repeat("a", 301)}
	if err := v.ValidateStruct(&long); err == nil {
		t.Error("Over-length title must fail validation")
	}

	missing := SectionRequest{}
	if err := v.ValidateStruct(&missing); err == nil {
		t.Error("Missing section type must fail validation")
	}
}
