package headerscope

import (
	"regexp"
	"strings"
)

// TransformFunc is a function that transforms header values
type TransformFunc func(value string) string

// ToLower transforms a header value to lowercase
func ToLower(value string) string {
	return strings.ToLower(value)
}

// ToUpper transforms a header value to uppercase
func ToUpper(value string) string {
	return strings.ToUpper(value)
}

// TrimSpace trims whitespace from a header value
func TrimSpace(value string) string {
	return strings.TrimSpace(value)
}

// Normalize normalizes header values by trimming space and converting to lowercase
func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// AddPrefix adds a prefix to a header value
func AddPrefix(prefix string) TransformFunc {
	return func(value string) string {
		return prefix + value
	}
}

// RemovePrefix removes a prefix from a header value
func RemovePrefix(prefix string) TransformFunc {
	return func(value string) string {
		return strings.TrimPrefix(value, prefix)
	}
}

// AddSuffix adds a suffix to the value
func AddSuffix(suffix string) TransformFunc {
	return func(value string) string {
		return value + suffix
	}
}

// RemoveSuffix removes a suffix from the value
func RemoveSuffix(suffix string) TransformFunc {
	return func(value string) string {
		return strings.TrimSuffix(value, suffix)
	}
}

// ExtractBearerToken extracts the token from "Bearer <token>" format
func ExtractBearerToken(value string) string {
	const bearerPrefix = "Bearer "
	if strings.HasPrefix(value, bearerPrefix) {
		return strings.TrimSpace(value[len(bearerPrefix):])
	}
	return value
}

// MaskSensitive masks sensitive information, showing only first and last few characters
func MaskSensitive(showChars int) TransformFunc {
	return func(value string) string {
		if len(value) <= showChars*2 {
			return strings.Repeat("*", len(value))
		}
		return value[:showChars] + strings.Repeat("*", len(value)-showChars*2) + value[len(value)-showChars:]
	}
}

// ConditionalTransform applies a transform only if condition is met
func ConditionalTransform(condition func(string) bool, transform TransformFunc) TransformFunc {
	return func(value string) string {
		if condition(value) {
			return transform(value)
		}
		return value
	}
}

// RegexReplace performs regex-based replacement
func RegexReplace(pattern, replacement string) TransformFunc {
	re := regexp.MustCompile(pattern)
	return func(value string) string {
		return re.ReplaceAllString(value, replacement)
	}
}

// Truncate truncates the value to a maximum length
func Truncate(maxLength int) TransformFunc {
	return func(value string) string {
		if len(value) <= maxLength {
			return value
		}
		return value[:maxLength]
	}
}

// DefaultIfEmpty returns a default value if the input is empty
func DefaultIfEmpty(defaultValue string) TransformFunc {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return defaultValue
		}
		return value
	}
}

// ChainTransforms chains multiple transformation functions
func ChainTransforms(transforms ...TransformFunc) TransformFunc {
	return func(value string) string {
		result := value
		for _, transform := range transforms {
			if transform != nil {
				result = transform(result)
			}
		}
		return result
	}
}
