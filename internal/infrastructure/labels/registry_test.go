package labels

import "testing"

func TestLookupCaseInsensitive(t *testing.T) {
	label, ok := Lookup("0x7a250D5630B4cF539739dF2C5dAcb4c659F2488D")
	if !ok {
		t.Fatal("expected known router to resolve")
	}
	if label != "Uniswap V2 Router" {
		t.Errorf("Lookup() = %q", label)
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, ok := Lookup("0x0000000000000000000000000000000000000001"); ok {
		t.Error("expected unknown address to miss")
	}
}

func TestIsWhitelistedSpender(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    bool
	}{
		{"permit2 is safe", "0x000000000022d473030f116ddee9f6b43ac78ba3", true},
		{"labeled but not a spender", "0x28c6c06298d514db089934071355e5743bf21d60", false},
		{"unknown address", "0x0000000000000000000000000000000000000001", false},
		{"mixed case", "0x000000000022D473030F116dDEE9F6B43aC78BA3", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWhitelistedSpender(tt.address); got != tt.want {
				t.Errorf("IsWhitelistedSpender(%s) = %v, want %v", tt.address, got, tt.want)
			}
		})
	}
}
