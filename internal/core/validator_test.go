package core

import (
	"strings"
	"testing"
)

func TestValidateRuleBased(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		input   string
		valid   bool
		wantErr string
	}{
		{"simple valid", "alice@example.com", true, ""},
		{"subdomain", "ops@mail.internal.example.org", true, ""},
		{"plus tag", "alice+billing@example.com", true, ""},
		{"empty", "", false, "Email cannot be empty"},
		{"whitespace only", "   \t ", false, "Email cannot be empty"},
		{"missing at", "alice.example.com", false, "Invalid email format"},
		{"missing domain dot", "alice@localhost", false, "Invalid email format"},
		{"one letter tld", "alice@example.c", false, "Invalid email format"},
		{"space inside", "ali ce@example.com", false, "Invalid email format"},
		{"leading dot local", ".alice@example.com", false, "Invalid local part format"},
		{"trailing dot local", "alice.@example.com", false, "Invalid local part format"},
		{"double dot local", "ali..ce@example.com", false, "Invalid local part format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := v.Validate(tt.input)
			if rec.IsValid != tt.valid {
				t.Fatalf("Validate(%q).IsValid = %t, want %t (error: %q)", tt.input, rec.IsValid, tt.valid, rec.Error)
			}
			if !tt.valid && rec.Error != tt.wantErr {
				t.Errorf("Validate(%q).Error = %q, want %q", tt.input, rec.Error, tt.wantErr)
			}
			if rec.IsValid && rec.Method != MethodRegex {
				t.Errorf("Validate(%q).Method = %q, want %q", tt.input, rec.Method, MethodRegex)
			}
		})
	}
}

func TestValidateLengthLimits(t *testing.T) {
	v := NewValidator()

	longLocal := strings.Repeat("a", 65) + "@example.com"
	if rec := v.Validate(longLocal); rec.IsValid || rec.Error != "Email too long" {
		t.Errorf("65-char local accepted: valid=%t error=%q", rec.IsValid, rec.Error)
	}

	okLocal := strings.Repeat("a", 64) + "@example.com"
	if rec := v.Validate(okLocal); !rec.IsValid {
		t.Errorf("64-char local rejected: %q", rec.Error)
	}

	longDomain := "a@" + strings.Repeat("d", 250) + ".com"
	if rec := v.Validate(longDomain); rec.IsValid || rec.Error != "Email too long" {
		t.Errorf("254-char domain accepted: valid=%t error=%q", rec.IsValid, rec.Error)
	}
}

func TestValidateNormalization(t *testing.T) {
	v := NewValidator()

	rec := v.Validate("  Alice.Smith@Example.COM  ")
	if !rec.IsValid {
		t.Fatalf("unexpected rejection: %q", rec.Error)
	}
	if rec.Normalized != "alice.smith@example.com" {
		t.Errorf("Normalized = %q, want alice.smith@example.com", rec.Normalized)
	}
	if rec.LocalPart != "Alice.Smith" {
		t.Errorf("LocalPart = %q, want original case preserved", rec.LocalPart)
	}
	if rec.Domain != "example.com" {
		t.Errorf("Domain = %q, want example.com", rec.Domain)
	}
	if rec.Email != "Alice.Smith@Example.COM" {
		t.Errorf("Email = %q, want trimmed original", rec.Email)
	}
}

type stubDelegate struct {
	parsed *ParsedAddress
	err    error
	panics bool
	calls  int
}

func (d *stubDelegate) Parse(address string) (*ParsedAddress, error) {
	d.calls++
	if d.panics {
		panic("boom")
	}
	return d.parsed, d.err
}

func TestValidateDelegateAccepts(t *testing.T) {
	delegate := &stubDelegate{parsed: &ParsedAddress{
		Normalized:  "Bob@example.com",
		Local:       "Bob",
		Domain:      "example.com",
		ASCIIEmail:  "Bob@example.com",
		ASCIILocal:  "Bob",
		ASCIIDomain: "example.com",
	}}
	v := NewDelegateValidator(delegate)

	rec := v.Validate("Bob@example.com")
	if !rec.IsValid {
		t.Fatalf("unexpected rejection: %q", rec.Error)
	}
	if rec.Method != MethodLibrary {
		t.Errorf("Method = %q, want %q", rec.Method, MethodLibrary)
	}
	if rec.Normalized != "Bob@example.com" {
		t.Errorf("Normalized = %q, want delegate normalization kept", rec.Normalized)
	}
	if delegate.calls != 1 {
		t.Errorf("delegate called %d times, want 1", delegate.calls)
	}
}

func TestValidateDelegateRejects(t *testing.T) {
	delegate := &stubDelegate{err: &InvalidAddressError{Reason: "Invalid email format"}}
	v := NewDelegateValidator(delegate)

	rec := v.Validate("not-an-address@example.com")
	if rec.IsValid {
		t.Fatal("delegate rejection was not honored")
	}
	if rec.Method != MethodLibrary {
		t.Errorf("Method = %q, want %q", rec.Method, MethodLibrary)
	}
	if rec.Error != "Invalid email format" {
		t.Errorf("Error = %q, want delegate reason", rec.Error)
	}
}

func TestValidateDelegatePanicFallsBack(t *testing.T) {
	v := NewDelegateValidator(&stubDelegate{panics: true})

	rec := v.Validate("carol@example.com")
	if !rec.IsValid {
		t.Fatalf("fallback path rejected a valid address: %q", rec.Error)
	}
	if rec.Method != MethodSimpleFallback {
		t.Errorf("Method = %q, want %q", rec.Method, MethodSimpleFallback)
	}
}

func TestValidateDelegateUnexpectedErrorFallsBack(t *testing.T) {
	delegate := &stubDelegate{err: errDelegatePanic}
	v := NewDelegateValidator(delegate)

	rec := v.Validate("dave@example.com")
	if !rec.IsValid {
		t.Fatalf("fallback path rejected a valid address: %q", rec.Error)
	}
	if rec.Method != MethodSimpleFallback {
		t.Errorf("Method = %q, want %q", rec.Method, MethodSimpleFallback)
	}
}

func TestValidateNilDelegateFallsBack(t *testing.T) {
	v := NewDelegateValidator(nil)

	rec := v.Validate("erin@example.com")
	if !rec.IsValid {
		t.Fatalf("unexpected rejection: %q", rec.Error)
	}
	if rec.Method != MethodSimpleFallback {
		t.Errorf("Method = %q, want %q", rec.Method, MethodSimpleFallback)
	}
}

func TestValidateEmptySkipsDelegate(t *testing.T) {
	delegate := &stubDelegate{}
	v := NewDelegateValidator(delegate)

	rec := v.Validate("  ")
	if rec.IsValid || rec.Error != "Email cannot be empty" {
		t.Errorf("blank input: valid=%t error=%q", rec.IsValid, rec.Error)
	}
	if delegate.calls != 0 {
		t.Errorf("delegate called %d times for blank input, want 0", delegate.calls)
	}
}
