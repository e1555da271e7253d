package job

import "testing"

func TestStatusRoundTrip(t *testing.T) {
	for _, s := range []Status{Unknown, Pending, Processing, Completed, Dead} {
		text, err := s.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got Status
		if err := got.UnmarshalText(text); err != nil {
			t.Fatal(err)
		}
		if got != s {
			t.Fatalf("round trip mismatch: %v != %v", got, s)
		}
	}
}

func TestParseStatusUnknownValue(t *testing.T) {
	if _, err := ParseStatus("bogus"); err == nil {
		t.Fatal("expected error for unrecognized status")
	}
}
