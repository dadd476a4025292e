package respond

import (
	"regexp"
)

var (
	// anthropicKeyPattern must run before openaiKeyPattern, which would
	// otherwise match the "sk-ant-" prefix.
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`)
	// openaiKeyPattern skips already masked strings.
	openaiKeyPattern = regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`)
	// huggingFaceTokenPattern matches user access tokens.
	huggingFaceTokenPattern = regexp.MustCompile(`hf_[a-zA-Z0-9]{8,}`)
	// bearerPattern catches tokens echoed back in Authorization headers.
	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[^\s"']+`)

	// urlPasswordPattern matches credentials in connection URLs such as
	// CACHE_REDIS_URL.
	urlPasswordPattern = regexp.MustCompile(`://([^:/@\s]*):([^@\s]+)@`)
)

// SanitizeError returns the error message with provider secrets and URL
// passwords masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error())
}

// SanitizeString masks provider secrets and URL passwords in s.
func SanitizeString(s string) string {
	s = anthropicKeyPattern.ReplaceAllString(s, "sk-ant-****")
	s = openaiKeyPattern.ReplaceAllString(s, "sk-****")
	s = huggingFaceTokenPattern.ReplaceAllString(s, "hf_****")
	s = bearerPattern.ReplaceAllString(s, "Bearer ****")
	s = urlPasswordPattern.ReplaceAllString(s, "://$1:****@")
	return s
}
