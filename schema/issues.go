package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes. Exported as consts for stable matching by callers.
const (
	CodeInvalidType          = "invalid_type"
	CodeRequired             = "required"
	CodeTooSmall             = "too_small"
	CodeTooBig               = "too_big"
	CodeTooShort             = "too_short"
	CodeTooLong              = "too_long"
	CodePattern              = "pattern"
	CodeInvalidEnum          = "invalid_enum"
	CodeInvalidFormat        = "invalid_format"
	CodeInvalidUnion         = "invalid_union"
	CodeDiscriminatorMissing = "discriminator_missing"
	CodeDiscriminatorUnknown = "discriminator_unknown"
	CodeNotMultipleOf        = "not_multiple_of"
	CodeNotUnique            = "not_unique"
)

// Issue is a single validation failure.
type Issue struct {
	Path    string `json:"path"` // JSON Pointer, e.g. /items/2/price
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Issues is a collection of validation failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	var b strings.Builder
	lim := min(len(iss), maxShown)
	for i := range lim {
		if i > 0 {
			b.WriteString("; ")
		}
		path := iss[i].Path
		if path == "" {
			path = "/"
		}
		fmt.Fprintf(&b, "%s at %s", iss[i].Code, path)
	}
	if len(iss) > lim {
		fmt.Fprintf(&b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// Flatten projects the issues onto their top-level field names. Issues
// without a path are collected under the empty key.
func (iss Issues) Flatten() map[string][]string {
	out := make(map[string][]string, len(iss))
	for _, it := range iss {
		field := ""
		if strings.HasPrefix(it.Path, "/") {
			field = it.Path[1:]
			if idx := strings.IndexByte(field, '/'); idx >= 0 {
				field = field[:idx]
			}
		}
		out[field] = append(out[field], it.Message)
	}
	return out
}

// AsIssues extracts Issues from an error using errors.As.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// prefixIssues rewrites every issue path in err to live under prefix.
// Non-Issues errors are wrapped as a single parse issue at prefix.
func prefixIssues(err error, prefix string) error {
	iss, ok := AsIssues(err)
	if !ok {
		return Issues{{Path: prefix, Code: CodeInvalidType, Message: err.Error()}}
	}
	out := make(Issues, len(iss))
	for i, it := range iss {
		it.Path = prefix + it.Path
		out[i] = it
	}
	return out
}

func issue(code, format string, args ...any) Issues {
	return Issues{{Code: code, Message: fmt.Sprintf(format, args...)}}
}
