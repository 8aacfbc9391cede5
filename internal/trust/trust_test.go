package trust

import (
	"testing"

	"go.uber.org/zap"
)

func TestCheckerIsTrusted(t *testing.T) {
	c := NewChecker([]string{"Corp.Example.COM", "partner.io"}, zap.NewNop())

	tests := []struct {
		address string
		want    bool
	}{
		{"alice@corp.example.com", true},
		{"alice@CORP.EXAMPLE.COM", true},
		{"bob@partner.io", true},
		{"bob@notpartner.io", false},
		{"bob@sub.partner.io", false},
		{"no-at-sign", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := c.IsTrusted(tt.address); got != tt.want {
			t.Errorf("IsTrusted(%q) = %t, want %t", tt.address, got, tt.want)
		}
	}
}

func TestCheckerEmptyList(t *testing.T) {
	c := NewChecker(nil, zap.NewNop())
	if c.IsTrusted("alice@anywhere.com") {
		t.Error("empty checker trusted an address")
	}
}
