package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// identifierRegex matches a simple (non-escaped) Verilog identifier.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// maxIdentifierLength bounds module and pin names.
const maxIdentifierLength = 128

// verilogKeywords are reserved words that cannot name a module or port.
var verilogKeywords = map[string]bool{
	"module": true, "endmodule": true, "input": true, "output": true,
	"inout": true, "wire": true, "reg": true, "assign": true, "always": true,
	"begin": true, "end": true, "if": true, "else": true, "case": true,
	"endcase": true, "initial": true, "parameter": true, "integer": true,
}

// ValidateModuleName validates a hardware module name.
// Names become Verilog identifiers and file names, so they must be plain
// identifiers: a letter or underscore followed by letters, digits,
// underscores or dollar signs, and not a reserved word.
func ValidateModuleName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidModule, "module name cannot be empty")
	}
	if len(name) > maxIdentifierLength {
		return New(ErrCodeInvalidModule, "module name too long (max %d characters)", maxIdentifierLength)
	}
	if !identifierRegex.MatchString(name) {
		return New(ErrCodeInvalidModule, "invalid module name: %q", name)
	}
	if verilogKeywords[name] {
		return New(ErrCodeInvalidModule, "module name %q is a reserved word", name)
	}
	return nil
}

// ValidatePinName validates a pin or port name with the same identifier rules.
func ValidatePinName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPin, "pin name cannot be empty")
	}
	if len(name) > maxIdentifierLength {
		return New(ErrCodeInvalidPin, "pin name too long (max %d characters)", maxIdentifierLength)
	}
	if !identifierRegex.MatchString(name) {
		return New(ErrCodeInvalidPin, "invalid pin name: %q", name)
	}
	if verilogKeywords[name] {
		return New(ErrCodeInvalidPin, "pin name %q is a reserved word", name)
	}
	return nil
}

// ValidatePath validates a relative file path used for library or output files.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
