package textutil

import "testing"

func TestCategoryFolderName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Fiction", "Fiction"},
		{"  science fiction  ", "Science Fiction"},
		{"Sci/Fi", "Sci-Fi"},
		{`History: Ancient`, "History- Ancient"},
		{"a<b>c", "Abc"},
		{"", ""},
		{"   ", ""},
		{"..", ""},
		{"?\"<>|", ""},
	}
	for _, tc := range cases {
		if got := CategoryFolderName(tc.in); got != tc.want {
			t.Errorf("CategoryFolderName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
