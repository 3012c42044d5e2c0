package sanitize

import (
	"fmt"
	"regexp"
	"strings"
)

// TruncationMarker replaces the tail of over-length content so truncation
// stays visible to downstream consumers.
const TruncationMarker = "[TRUNCATED]"

// Rule is a single masking pattern applied during sanitization.
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// Sanitizer scrubs code, command lines, and identifying content from text.
// The zero value is not usable; construct with New. Safe for concurrent use
// once constructed.
type Sanitizer struct {
	rules []Rule
}

// New creates a sanitizer with the built-in masking rules.
func New() *Sanitizer {
	return &Sanitizer{rules: defaultRules()}
}

// AddRule appends a custom masking rule, applied after the built-in set.
func (s *Sanitizer) AddRule(name, pattern, replacement string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("compile mask rule %q: %w", name, err)
	}
	s.rules = append(s.rules, Rule{Name: name, Pattern: re, Replacement: replacement})
	return nil
}

// Sanitize applies the full masking pipeline: code and command removal,
// URL/path/email/IP/secret masking, whitespace normalization, and
// truncation to maxLength (maxLength <= 0 disables truncation).
// The pipeline is idempotent: sanitizing already-sanitized text is a no-op.
func (s *Sanitizer) Sanitize(text string, maxLength int) string {
	if text == "" {
		return ""
	}
	out := stripCode(text)
	out = dropCommandLines(out)
	for _, r := range s.rules {
		out = r.Pattern.ReplaceAllString(out, r.Replacement)
	}
	out = whitespacePattern.ReplaceAllString(out, " ")
	out = strings.TrimSpace(out)
	return truncate(out, maxLength)
}

// ContainsSensitiveContent re-scans text for residual maskable patterns and
// code-like punctuation density. Used as a gate before text is surfaced
// verbatim, on top of the masking pass.
func (s *Sanitizer) ContainsSensitiveContent(text string) bool {
	for _, r := range s.rules {
		if r.Pattern.MatchString(text) {
			return true
		}
	}
	return codeLike(text)
}

// FilterNames reports which sanitization filters this sanitizer applies,
// in pipeline order, for safety metadata.
func (s *Sanitizer) FilterNames() []string {
	names := []string{"code", "commands"}
	seen := make(map[string]struct{}, len(s.rules))
	for _, r := range s.rules {
		if _, ok := seen[r.Name]; ok {
			continue
		}
		seen[r.Name] = struct{}{}
		names = append(names, r.Name)
	}
	return names
}

// PlaceholderOnly reports whether text consists solely of masking
// placeholders and whitespace, carrying no content of its own.
func PlaceholderOnly(text string) bool {
	return placeholderPattern.MatchString(strings.TrimSpace(text))
}

var (
	fencedCodePattern  = regexp.MustCompile("(?s)```.*?```")
	openFencePattern   = regexp.MustCompile("(?s)```.*$")
	inlineCodePattern  = regexp.MustCompile("`[^`\n]*`")
	whitespacePattern  = regexp.MustCompile(`\s+`)
	placeholderPattern = regexp.MustCompile(`^(?:\[(?:URL|PATH|EMAIL|IP|SECRET|TRUNCATED)\]\s*)+$`)
)

// defaultRules returns the built-in masking rules. Order matters: URLs must
// be masked before paths (a URL's path segment would otherwise be mis-masked)
// and vendor secret shapes before the generic hex/base64 fallbacks.
func defaultRules() []Rule {
	return []Rule{
		{"urls", regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"')\]]+`), "[URL]"},
		{"paths", regexp.MustCompile(`[A-Za-z]:\\[^\s"'<>|*?]+`), "[PATH]"},
		{"paths", regexp.MustCompile(`~(?:/[A-Za-z0-9._-]+)+/?`), "[PATH]"},
		{"paths", regexp.MustCompile(`\.{1,2}(?:/[A-Za-z0-9._-]+)+/?`), "[PATH]"},
		{"paths", regexp.MustCompile(`(^|[\s"'(])/[A-Za-z0-9._-]+(?:/[A-Za-z0-9._-]+)+/?`), "$1[PATH]"},
		{"emails", regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`), "[EMAIL]"},
		{"ips", regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`), "[IP]"},
		{"ips", regexp.MustCompile(`\b(?:[0-9A-Fa-f]{1,4}:){7}[0-9A-Fa-f]{1,4}\b`), "[IP]"},
		{"ips", regexp.MustCompile(`\b(?:[0-9A-Fa-f]{1,4}:){1,6}:(?:[0-9A-Fa-f]{1,4}(?::[0-9A-Fa-f]{1,4}){0,5})?\b`), "[IP]"},
		{"secrets", regexp.MustCompile(`(?s)-----BEGIN [A-Z ]*PRIVATE KEY-----.*?(?:-----END [A-Z ]*PRIVATE KEY-----|$)`), "[SECRET]"},
		{"secrets", regexp.MustCompile(`\b(?:AKIA|ABIA|ACCA|ASIA)[A-Z0-9]{16}\b`), "[SECRET]"},
		{"secrets", regexp.MustCompile(`\beyJ[A-Za-z0-9_-]{8,}\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*`), "[SECRET]"},
		{"secrets", regexp.MustCompile(`(?i)\b(?:sk|pk|api|key|token|secret|auth|github|ghp|gho|ghu|ghs|ghr|glpat|npm|xox[abprs])[-_][A-Za-z0-9_-]{16,}\b`), "[SECRET]"},
		{"secrets", regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._~+/=-]{8,}`), "[SECRET]"},
		{"secrets", regexp.MustCompile(`\b[A-Fa-f0-9]{32,}\b`), "[SECRET]"},
		{"secrets", regexp.MustCompile(`[A-Za-z0-9+/]{40,}={0,2}`), "[SECRET]"},
	}
}

func stripCode(text string) string {
	out := fencedCodePattern.ReplaceAllString(text, " ")
	out = openFencePattern.ReplaceAllString(out, " ")
	out = inlineCodePattern.ReplaceAllString(out, " ")
	return out
}

// commandVerbs lists tools whose invocations are dropped when they open a
// line. Deliberately excludes words common in prose ("go", "make", "cat").
var commandVerbs = map[string]struct{}{
	"sudo": {}, "git": {}, "svn": {}, "hg": {},
	"npm": {}, "npx": {}, "yarn": {}, "pnpm": {},
	"pip": {}, "pip3": {}, "pipx": {}, "gem": {}, "composer": {}, "cargo": {},
	"brew": {}, "apt": {}, "apt-get": {}, "dnf": {}, "yum": {}, "pacman": {},
	"python": {}, "python3": {}, "node": {}, "deno": {}, "bun": {},
	"ruby": {}, "perl": {}, "php": {}, "bash": {}, "zsh": {},
	"docker": {}, "docker-compose": {}, "podman": {}, "kubectl": {}, "helm": {}, "minikube": {},
	"curl": {}, "wget": {}, "ssh": {}, "scp": {}, "rsync": {},
	"chmod": {}, "chown": {}, "tar": {}, "systemctl": {}, "journalctl": {},
}

func dropCommandLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if isCommandLine(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// isCommandLine reports whether a line is a pasted shell invocation: a
// prompt-style prefix, or a known command verb opening the line with at
// least one argument. The verb must open the line so that prose mentioning
// a tool mid-sentence survives.
func isCommandLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 2 {
		return false
	}
	switch trimmed[0] {
	case '$', '>', '#':
		if trimmed[1] == ' ' {
			return true
		}
	}
	fields := strings.Fields(trimmed)
	if len(fields) < 2 {
		return false
	}
	_, ok := commandVerbs[strings.ToLower(fields[0])]
	return ok
}

// codeLike flags text whose code punctuation density suggests a pasted
// snippet rather than prose. Square brackets are excluded so masking
// placeholders do not trip the check.
func codeLike(text string) bool {
	runes := []rune(text)
	if len(runes) < 12 {
		return false
	}
	count := 0
	for _, r := range runes {
		if strings.ContainsRune("{}();<>=$|`\\", r) {
			count++
		}
	}
	return float64(count)/float64(len(runes)) > 0.1
}

// truncate cuts text to max runes, ending with the truncation marker when
// anything was removed.
func truncate(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	marker := []rune(TruncationMarker)
	if max <= len(marker) {
		return string(runes[:max])
	}
	return string(runes[:max-len(marker)]) + TruncationMarker
}
