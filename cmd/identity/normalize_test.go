package identity

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{in: "Alice", want: "alice"},
		{in: "  Alice  ", want: "alice"},
		{in: "ALICE@EXAMPLE.COM", want: "alice@example.com"},
		{in: "", want: ""},
		{in: "   ", want: ""},
	}

	for _, tc := range cases {
		if got := NormalizeUsername(tc.in); got != tc.want {
			t.Fatalf("NormalizeUsername(%q)=%q want=%q", tc.in, got, tc.want)
		}
		if got := NormalizeEmail(tc.in); got != tc.want {
			t.Fatalf("NormalizeEmail(%q)=%q want=%q", tc.in, got, tc.want)
		}
	}
}
