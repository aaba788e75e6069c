package sanitize

import (
	"reflect"
	"testing"
)

func TestText(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  Villa   Zuid ", "Villa Zuid"},
		{"<b>Jan</b> de Vries", "Jan de Vries"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;Centrum", "alert(1)Centrum"},
		{"Tom &amp; Jerry", "Tom & Jerry"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Text(tc.in); got != tc.want {
			t.Errorf("Text(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMultilineKeepsLineBreaks(t *testing.T) {
	got := Multiline("  first line  \n<i>second</i>\t\n")
	if got != "first line\nsecond" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestList(t *testing.T) {
	got := List([]string{" pool ", "", "<br>", "garden"})
	if !reflect.DeepEqual(got, []string{"pool", "garden"}) {
		t.Fatalf("unexpected %v", got)
	}
	if got := List(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
