package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"  ", ""},
		{"06 12345678", "+31612345678"},
		{"+31 6 1234 5678", "+31612345678"},
		{"+1 650-253-0000", "+16502530000"},
		{"not a number", "not a number"},
		{" 123 ", "123"},
	}

	for _, tc := range cases {
		if got := NormalizeE164(tc.in); got != tc.want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
