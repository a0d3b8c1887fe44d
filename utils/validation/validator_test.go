package validation

import "testing"

func TestValidateUzPhone(t *testing.T) {
	valid := []string{
		"+998901234567",
		"+998 90 123 45 67",
		"+998-90-123-45-67",
		"+998(90)1234567",
	}
	for _, phone := range valid {
		if !ValidateUzPhone(phone) {
			t.Errorf("Expected %q to be valid", phone)
		}
	}

	invalid := []string{
		"",
		"998901234567",    // missing +
		"+99890123456",    // 8 digits
		"+9989012345678",  // 10 digits
		"+7 912 345 6789", // wrong country
		"+99890123456a",
		"+998 90 123 45 6",
	}
	for _, phone := range invalid {
		if ValidateUzPhone(phone) {
			t.Errorf("Expected %q to be invalid", phone)
		}
	}
}

func TestCleanPhone(t *testing.T) {
	if got := CleanPhone("+998 (90) 123-45-67"); got != "+998901234567" {
		t.Errorf("CleanPhone: got %q", got)
	}
}

func TestUzphoneStructTag(t *testing.T) {
	type form struct {
		Phone string `validate:"required,uzphone"`
	}

	v := NewValidator()

	if err := v.ValidateStruct(&form{Phone: "+998901234567"}); err != nil {
		t.Errorf("Valid phone rejected: %v", err)
	}
	if err := v.ValidateStruct(&form{Phone: "12345"}); err == nil {
		t.Error("Invalid phone accepted")
	}

	errs := FormatValidationErrors(v.ValidateStruct(&form{Phone: "12345"}))
	if errs["phone"] == "" {
		t.Error("Expected a formatted error for the phone field")
	}
}
