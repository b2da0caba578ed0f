package textnorm

import (
	"reflect"
	"testing"
)

func TestSplitIntoSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "empty",
			in:   "",
			want: nil,
		},
		{
			name: "whitespace only",
			in:   "  \n\t ",
			want: nil,
		},
		{
			name: "persian sentences",
			in:   "گوشی هوشمند یک محصول عالی است. گوشی هوشمند را همه دوست دارند.",
			want: []string{
				"گوشی هوشمند یک محصول عالی است.",
				"گوشی هوشمند را همه دوست دارند.",
			},
		},
		{
			name: "persian question mark",
			in:   "آیا این متن خوب است؟ بله این متن خیلی خوب است.",
			want: []string{
				"آیا این متن خوب است؟",
				"بله این متن خیلی خوب است.",
			},
		},
		{
			name: "decimal point",
			in:   "The price is 3.5 dollars today. It was cheap back then.",
			want: []string{
				"The price is 3.5 dollars today.",
				"It was cheap back then.",
			},
		},
		{
			name: "ellipsis",
			in:   "We waited... and waited for hours. Then it came back home.",
			want: []string{
				"We waited... and waited for hours.",
				"Then it came back home.",
			},
		},
		{
			name: "abbreviation",
			in:   "Dr. Smith arrived at noon today. He was late again.",
			want: []string{
				"Dr. Smith arrived at noon today.",
				"He was late again.",
			},
		},
		{
			name: "short sentence merged forward",
			in:   "Hi. This is a longer sentence here.",
			want: []string{"Hi. This is a longer sentence here."},
		},
		{
			name: "short trailing sentence kept",
			in:   "This is a long sentence. Ok.",
			want: []string{"This is a long sentence.", "Ok."},
		},
		{
			name: "punctuation only dropped",
			in:   "This is a long sentence. !!",
			want: []string{"This is a long sentence."},
		},
		{
			name: "no terminator",
			in:   "just some words without an ender",
			want: []string{"just some words without an ender"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitIntoSentences(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitIntoSentences(%q)\n got  %q\n want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAbbreviationMustStartWord(t *testing.T) {
	// "دارند." ends with "د." but is not the abbreviation.
	got := SplitIntoSentences("همه این محصول را دوست دارند. ما هم آن را دوست داریم.")
	if len(got) != 2 {
		t.Fatalf("expected 2 sentences, got %d: %q", len(got), got)
	}
}
