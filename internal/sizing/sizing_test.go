package sizing

import "testing"

func TestParseCohorts(t *testing.T) {
	cases := []struct {
		token  string
		cohort Cohort
		value  float64
	}{
		{"10", Men, 10},
		{"10.5", Men, 10.5},
		{"8W", Women, 8},
		{"8w", Women, 8},
		{"1C", Infant, 1},
		{"7.5C", Infant, 7.5},
		{"8C", Toddler, 8},
		{"13.5C", Toddler, 13.5},
		{"1Y", Youth, 1},
		{"5.5Y", Youth, 5.5},
		{"6Y", BigKids, 6},
		{"8Y", BigKids, 8},
		{" 9 ", Men, 9},
	}
	for _, tc := range cases {
		s, err := Parse(tc.token)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error %v", tc.token, err)
		}
		if s.Cohort != tc.cohort || s.Value != tc.value {
			t.Fatalf("Parse(%q) = %+v, want cohort %v value %v", tc.token, s, tc.cohort, tc.value)
		}
	}
}

func TestParseRejectsMalformedTokens(t *testing.T) {
	for _, token := range []string{"", "abc", "10.3", "-2", "0", "14C", "9Y", "10X", "W"} {
		if _, err := Parse(token); err == nil {
			t.Fatalf("Parse(%q): expected error", token)
		}
	}
}

func TestTokenRoundTrip(t *testing.T) {
	for _, token := range []string{"10", "10.5", "8W", "3C", "12.5C", "4Y", "7Y"} {
		s, err := Parse(token)
		if err != nil {
			t.Fatalf("Parse(%q): %v", token, err)
		}
		if got := s.Token(); got != token {
			t.Fatalf("round trip %q -> %q", token, got)
		}
	}
}

func TestDefaultTokensAllParse(t *testing.T) {
	tokens := DefaultTokens()
	if len(tokens) == 0 {
		t.Fatal("expected non-empty default size run")
	}
	seen := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		if seen[token] {
			t.Fatalf("duplicate token %q", token)
		}
		seen[token] = true
		if _, err := Parse(token); err != nil {
			t.Fatalf("default token %q does not parse: %v", token, err)
		}
	}
}

func TestChildCohorts(t *testing.T) {
	for _, c := range []Cohort{Infant, Toddler, Youth, BigKids} {
		if !c.Child() {
			t.Fatalf("expected %v to be a child cohort", c)
		}
	}
	for _, c := range []Cohort{Men, Women} {
		if c.Child() {
			t.Fatalf("expected %v not to be a child cohort", c)
		}
	}
}
