package slug

import "testing"

func TestMake(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Brain T1 Weighted":  "brain-t1-weighted",
		"  Ocean -- Waves! ": "ocean-waves",
		"???":                "untitled",
		"":                   "untitled",
		"Spine MRI (Lumbar)": "spine-mri-lumbar",
	}
	for in, want := range cases {
		if got := Make(in); got != want {
			t.Fatalf("Make(%q) = %q, want %q", in, got, want)
		}
	}
	long := Make("abcdefghij abcdefghij abcdefghij abcdefghij abcdefghij")
	if len(long) > 48 || long[len(long)-1] == '-' {
		t.Fatalf("unexpected long slug %q", long)
	}
}
