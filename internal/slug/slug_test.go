package slug

import "testing"

func TestMake(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Abbey Road", "abbey-road"},
		{"L.A. Woman", "l-a-woman"},
		{"  OK Computer  ", "ok-computer"},
		{"Mezzanine", "mezzanine"},
		{"...And Justice for All", "and-justice-for-all"},
		{"What's Going On?", "what-s-going-on"},
		{"69 Love Songs", "69-love-songs"},
		{"---", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Make(tc.name); got != tc.want {
			t.Fatalf("Make(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}
