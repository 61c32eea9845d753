package feedxml

import "testing"

func TestSanitizeEscapesStrayAmpersands(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"bare ampersand", "<name>Black & Decker</name>", "<name>Black &amp; Decker</name>"},
		{"existing entity untouched", "<name>Tom &amp; Jerry</name>", "<name>Tom &amp; Jerry</name>"},
		{"named entities untouched", "<v>&lt;&gt;&quot;&apos;</v>", "<v>&lt;&gt;&quot;&apos;</v>"},
		{"numeric reference untouched", "<v>&#169; &#x1F600;</v>", "<v>&#169; &#x1F600;</v>"},
		{"unknown entity escaped", "<v>&nbsp;</v>", "<v>&amp;nbsp;</v>"},
		{"trailing ampersand", "<v>A&</v>", "<v>A&amp;</v>"},
		{"double escaped collapsed", "<v>&amp;amp;</v>", "<v>&amp;</v>"},
		{"bom stripped", "\uFEFF<root/>", "<root/>"},
		{"well formed untouched", "<a><b>1</b></a>", "<a><b>1</b></a>"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sanitize(tc.input); got != tc.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSanitizeIsIdempotent(t *testing.T) {
	input := "\uFEFF<v>Black & Decker &amp; Sons &#169;</v>"
	once := Sanitize(input)
	twice := Sanitize(once)
	if once != twice {
		t.Errorf("second pass changed output: %q vs %q", once, twice)
	}
}
