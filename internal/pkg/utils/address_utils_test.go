package utils

import "testing"

func TestNormalizeAddress(t *testing.T) {
	got := NormalizeAddress(" 0xD8dA6BF26964aF9D7eEd9e03E53415D37aA96045 ")
	want := "0xd8da6bf26964af9d7eed9e03e53415d37aa96045"
	if got != want {
		t.Errorf("NormalizeAddress() = %q, want %q", got, want)
	}
}

func TestChecksumAddress(t *testing.T) {
	got := ChecksumAddress("0xd8da6bf26964af9d7eed9e03e53415d37aa96045")
	want := "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"
	if got != want {
		t.Errorf("ChecksumAddress() = %q, want %q", got, want)
	}

	if got := ChecksumAddress("not-an-address"); got != "not-an-address" {
		t.Errorf("ChecksumAddress(invalid) = %q, want input unchanged", got)
	}
}

func TestShortenAddress(t *testing.T) {
	got := ShortenAddress("0xd8da6bf26964af9d7eed9e03e53415d37aa96045")
	if got != "0xd8da...6045" {
		t.Errorf("ShortenAddress() = %q", got)
	}
	if got := ShortenAddress("0xabc"); got != "0xabc" {
		t.Errorf("ShortenAddress(short) = %q, want input unchanged", got)
	}
}

func TestBatchStrings(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	batches := BatchStrings(items, 2)
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}
	if len(batches[2]) != 1 || batches[2][0] != "e" {
		t.Errorf("last batch = %v, want [e]", batches[2])
	}

	if got := BatchStrings(nil, 2); len(got) != 0 {
		t.Errorf("BatchStrings(nil) = %v, want empty", got)
	}

	whole := BatchStrings(items, 0)
	if len(whole) != 1 || len(whole[0]) != 5 {
		t.Errorf("BatchStrings with batchSize 0 = %v, want one batch of 5", whole)
	}
}
