package knowledge

import "testing"

func TestChunkText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "splits on blank lines",
			in:   "First paragraph with enough text here.\n\nSecond paragraph also long enough.",
			want: []string{"First paragraph with enough text here.", "Second paragraph also long enough."},
		},
		{
			name: "blank line with interior whitespace still splits",
			in:   "First paragraph with enough text here.\n   \nSecond paragraph also long enough.",
			want: []string{"First paragraph with enough text here.", "Second paragraph also long enough."},
		},
		{
			name: "drops short fragments",
			in:   "tiny\n\nThis chunk is comfortably past the length floor.",
			want: []string{"This chunk is comfortably past the length floor."},
		},
		{
			name: "exactly twenty chars is dropped",
			in:   "12345678901234567890\n\nTwenty-one characters",
			want: []string{"Twenty-one characters"},
		},
		{
			name: "empty input",
			in:   "",
			want: []string{},
		},
		{
			name: "single newline does not split",
			in:   "Line one of the same paragraph.\nLine two of the same paragraph.",
			want: []string{"Line one of the same paragraph.\nLine two of the same paragraph."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chunkText(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("chunkText() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
