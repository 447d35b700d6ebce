package errors

import (
	"strings"
	"testing"
)

func TestValidateModuleName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "and", false},
		{"mixed case", "HalfAdder", false},
		{"underscore prefix", "_mux2", false},
		{"digits", "dff8", false},
		{"dollar", "reg$file", false},

		{"empty", "", true},
		{"leading digit", "2mux", true},
		{"space", "half adder", true},
		{"dash", "half-adder", true},
		{"keyword", "module", true},
		{"keyword wire", "wire", true},
		{"too long", strings.Repeat("a", 200), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateModuleName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateModuleName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidModule) {
				t.Errorf("ValidateModuleName(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidatePinName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"single letter", "a", false},
		{"indexed", "in0", false},
		{"underscore", "carry_out", false},

		{"empty", "", true},
		{"bracket", "a[0]", true},
		{"keyword", "input", true},
		{"leading digit", "0a", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePinName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePinName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPin) {
				t.Errorf("ValidatePinName(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "lib/and.toml", false},
		{"valid nested", "lib/gates/basic/nand.yaml", false},
		{"valid filename only", "half_adder.v", false},
		{"valid with dots", "v1.2.3/gates.json", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute path", "/etc/passwd", true},
		{"path traversal", "../../../etc/passwd", true},
		{"path traversal middle", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidModule,
		ErrCodeInvalidPin,
		ErrCodeInvalidFormat,
		ErrCodeInvalidMode,
		ErrCodeInvalidComponent,
		ErrCodeInvalidPath,
		ErrCodeInvalidConfig,
		ErrCodeNotFound,
		ErrCodeModuleNotFound,
		ErrCodePinNotFound,
		ErrCodeComponentNotFound,
		ErrCodeSessionNotFound,
		ErrCodeFileNotFound,
		ErrCodeStore,
		ErrCodeStoreDecode,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
