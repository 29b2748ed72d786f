package schema

import (
	"context"
	"net/mail"
	"net/url"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// StringSchema validates string values with optional refinements.
type StringSchema struct {
	desc     string
	checks   []Check
	patterns []*regexp.Regexp
}

// String returns a new string schema.
func String() *StringSchema { return &StringSchema{} }

// Min requires at least n characters.
func (s *StringSchema) Min(n int) *StringSchema {
	s.checks = append(s.checks, Check{Kind: CheckMinLen, Length: n})
	return s
}

// Max allows at most n characters.
func (s *StringSchema) Max(n int) *StringSchema {
	s.checks = append(s.checks, Check{Kind: CheckMaxLen, Length: n})
	return s
}

// Length requires exactly n characters.
func (s *StringSchema) Length(n int) *StringSchema {
	s.checks = append(s.checks, Check{Kind: CheckLen, Length: n})
	return s
}

// Pattern requires the value to match the given regular expression.
// The expression must compile; invalid expressions panic at declaration
// time, matching the fail-fast behavior of route registration.
func (s *StringSchema) Pattern(expr string) *StringSchema {
	s.checks = append(s.checks, Check{Kind: CheckPattern, Pattern: expr})
	s.patterns = append(s.patterns, regexp.MustCompile(expr))
	return s
}

// Email requires an RFC 5322 address.
func (s *StringSchema) Email() *StringSchema {
	s.checks = append(s.checks, Check{Kind: CheckEmail})
	return s
}

// UUID requires an RFC 4122 UUID.
func (s *StringSchema) UUID() *StringSchema {
	s.checks = append(s.checks, Check{Kind: CheckUUID})
	return s
}

// URL requires an absolute URL.
func (s *StringSchema) URL() *StringSchema {
	s.checks = append(s.checks, Check{Kind: CheckURL})
	return s
}

// DateTime requires an RFC 3339 timestamp.
func (s *StringSchema) DateTime() *StringSchema {
	s.checks = append(s.checks, Check{Kind: CheckDateTime})
	return s
}

// Date requires an ISO 8601 calendar date (2006-01-02).
func (s *StringSchema) Date() *StringSchema {
	s.checks = append(s.checks, Check{Kind: CheckDate})
	return s
}

// Time requires an ISO 8601 time of day (15:04:05).
func (s *StringSchema) Time() *StringSchema {
	s.checks = append(s.checks, Check{Kind: CheckTime})
	return s
}

// Describe attaches a human-readable description.
func (s *StringSchema) Describe(text string) *StringSchema {
	s.desc = text
	return s
}

// Kind implements Schema.
func (s *StringSchema) Kind() Kind { return KindString }

// Node implements Schema.
func (s *StringSchema) Node() Node {
	return Node{Kind: KindString, Description: s.desc, Checks: s.checks}
}

// Parse implements Schema.
func (s *StringSchema) Parse(_ context.Context, v any) (any, error) {
	str, ok := v.(string)
	if !ok {
		return nil, issue(CodeInvalidType, "expected string, got %s", typeName(v))
	}

	var iss Issues
	patternIdx := 0
	for _, c := range s.checks {
		switch c.Kind {
		case CheckMinLen:
			if utf8.RuneCountInString(str) < c.Length {
				iss = append(iss, issue(CodeTooShort, "must contain at least %d character(s)", c.Length)...)
			}
		case CheckMaxLen:
			if utf8.RuneCountInString(str) > c.Length {
				iss = append(iss, issue(CodeTooLong, "must contain at most %d character(s)", c.Length)...)
			}
		case CheckLen:
			if utf8.RuneCountInString(str) != c.Length {
				iss = append(iss, issue(CodeInvalidFormat, "must contain exactly %d character(s)", c.Length)...)
			}
		case CheckPattern:
			re := s.patterns[patternIdx]
			patternIdx++
			if !re.MatchString(str) {
				iss = append(iss, issue(CodePattern, "must match pattern %s", c.Pattern)...)
			}
		case CheckEmail:
			if _, err := mail.ParseAddress(str); err != nil {
				iss = append(iss, issue(CodeInvalidFormat, "invalid email address")...)
			}
		case CheckUUID:
			if _, err := uuid.Parse(str); err != nil {
				iss = append(iss, issue(CodeInvalidFormat, "invalid uuid")...)
			}
		case CheckURL:
			if u, err := url.Parse(str); err != nil || u.Scheme == "" || u.Host == "" {
				iss = append(iss, issue(CodeInvalidFormat, "invalid url")...)
			}
		case CheckDateTime:
			if _, err := time.Parse(time.RFC3339, str); err != nil {
				iss = append(iss, issue(CodeInvalidFormat, "invalid datetime")...)
			}
		case CheckDate:
			if _, err := time.Parse(time.DateOnly, str); err != nil {
				iss = append(iss, issue(CodeInvalidFormat, "invalid date")...)
			}
		case CheckTime:
			if _, err := time.Parse(time.TimeOnly, str); err != nil {
				iss = append(iss, issue(CodeInvalidFormat, "invalid time")...)
			}
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return str, nil
}
