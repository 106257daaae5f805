package validation

import (
	"strings"
	"testing"
)

func TestValidUsername_Valid(t *testing.T) {
	valids := []string{
		"a",
		"ab",
		"alice",
		"Alice",
		"maria_google",
		"maria_google_a1b2c3",
		"bob-2",
		"j.doe",
		// 64 chars (start/end alnum)
		"a" + strings.Repeat("b", 62) + "c",
	}
	for _, v := range valids {
		if !ValidUsername(v) {
			t.Errorf("expected valid: %q", v)
		}
	}
}

func TestValidUsername_Invalid(t *testing.T) {
	invalids := []string{
		"",
		" lead",
		"tail ",
		"a b",
		"_lead",
		"tail_",
		"ñoño",
		"a" + strings.Repeat("b", 64), // 65 chars
	}
	for _, v := range invalids {
		if ValidUsername(v) {
			t.Errorf("expected invalid: %q", v)
		}
	}
}

func TestValidEmail(t *testing.T) {
	valids := []string{"a@x.com", "maria+tag@sub.gmail.com", "A@B.CO"}
	for _, v := range valids {
		if !ValidEmail(v) {
			t.Errorf("expected valid: %q", v)
		}
	}
	invalids := []string{"", "a@b", "a b@x.com", "@x.com", "a@@x.com", strings.Repeat("a", 250) + "@x.com"}
	for _, v := range invalids {
		if ValidEmail(v) {
			t.Errorf("expected invalid: %q", v)
		}
	}
}
