package rules

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ruleFunc applies one substitution and reports whether it changed the
// input.
type ruleFunc func(input string) (string, bool)

// Engine applies deterministic text substitutions loaded from a rules file.
// Two line formats are supported: literal `from => to` replacements, always
// case-insensitive, and sed-style `s/pattern/replacement/flags` rules.
type Engine struct {
	rules     []ruleFunc
	loopLimit int
}

// NewEngine compiles the rules file at path. A missing or empty path yields
// an engine that passes text through unchanged.
func NewEngine(path string, loopLimit int) (*Engine, error) {
	if loopLimit <= 0 {
		loopLimit = 30
	}

	if strings.TrimSpace(path) == "" {
		return &Engine{loopLimit: loopLimit}, nil
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Engine{loopLimit: loopLimit}, nil
		}
		return nil, fmt.Errorf("failed to read rules file %q: %w", path, err)
	}

	rules, err := compileRules(string(contents))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rules file %q: %w", path, err)
	}

	return &Engine{rules: rules, loopLimit: loopLimit}, nil
}

// Count reports how many rules are loaded.
func (e *Engine) Count() int {
	return len(e.rules)
}

// Apply runs the rule set repeatedly until the text stops changing or the
// loop limit is hit, so chained rules (a => b, b => c) settle.
func (e *Engine) Apply(text string) (string, error) {
	if len(e.rules) == 0 {
		return text, nil
	}

	result := text
	for i := 0; i < e.loopLimit; i++ {
		changed := false
		for _, rule := range e.rules {
			next, ruleChanged := rule(result)
			if ruleChanged {
				result = next
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return result, nil
}

func compileRules(contents string) ([]ruleFunc, error) {
	lines := strings.Split(contents, "\n")
	rules := make([]ruleFunc, 0, len(lines))

	for index, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var (
			rule ruleFunc
			err  error
		)
		switch {
		case looksLikeRegexRule(line):
			rule, err = compileRegexRule(line)
		case strings.Contains(line, "=>"):
			rule, err = compileLiteralRule(line)
		default:
			err = errors.New("unsupported rule format")
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", index+1, err)
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

func compileLiteralRule(line string) (ruleFunc, error) {
	parts := strings.SplitN(line, "=>", 2)
	from := strings.TrimSpace(parts[0])
	to := strings.TrimSpace(parts[1])
	if from == "" {
		return nil, errors.New("literal rule source cannot be empty")
	}

	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(from))
	if err != nil {
		return nil, fmt.Errorf("invalid literal source: %w", err)
	}

	return func(input string) (string, bool) {
		output := re.ReplaceAllString(input, to)
		return output, output != input
	}, nil
}

// compileRegexRule handles `s<delim>pattern<delim>replacement<delim>flags`.
// Case-insensitivity is the default; `g` switches from first-match to
// global replacement.
func compileRegexRule(line string) (ruleFunc, error) {
	delim := line[1]

	pattern, pos, err := scanDelimited(line, 2, delim)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}
	replacement, pos, err := scanDelimited(line, pos, delim)
	if err != nil {
		return nil, fmt.Errorf("invalid regex replacement: %w", err)
	}

	global := false
	inlineFlags := "i"
	for _, flag := range strings.TrimSpace(line[pos:]) {
		switch flag {
		case 'i':
			// Already the default.
		case 'g':
			global = true
		case 'm':
			inlineFlags += "m"
		case 's':
			inlineFlags += "s"
		case ' ':
			continue
		default:
			return nil, fmt.Errorf("unsupported regex flag %q", flag)
		}
	}

	re, err := regexp.Compile("(?" + inlineFlags + ")" + pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex: %w", err)
	}

	if global {
		return func(input string) (string, bool) {
			output := re.ReplaceAllString(input, replacement)
			return output, output != input
		}, nil
	}
	return func(input string) (string, bool) {
		loc := re.FindStringIndex(input)
		if loc == nil {
			return input, false
		}
		segment := re.ReplaceAllString(input[loc[0]:loc[1]], replacement)
		output := input[:loc[0]] + segment + input[loc[1]:]
		return output, output != input
	}, nil
}

// scanDelimited reads up to the next unescaped delimiter, keeping escape
// sequences intact for the regexp compiler.
func scanDelimited(line string, start int, delim byte) (string, int, error) {
	if start >= len(line) {
		return "", 0, errors.New("unexpected end of expression")
	}

	var builder strings.Builder
	escaped := false
	for index := start; index < len(line); index++ {
		char := line[index]
		switch {
		case escaped:
			builder.WriteByte(char)
			escaped = false
		case char == '\\':
			escaped = true
			builder.WriteByte(char)
		case char == delim:
			return builder.String(), index + 1, nil
		default:
			builder.WriteByte(char)
		}
	}
	return "", 0, errors.New("unterminated expression")
}

func looksLikeRegexRule(line string) bool {
	return len(line) > 1 && line[0] == 's' && !isWordChar(line[1])
}

func isWordChar(char byte) bool {
	return (char >= 'a' && char <= 'z') ||
		(char >= 'A' && char <= 'Z') ||
		(char >= '0' && char <= '9') ||
		char == ' ' || char == '\t'
}
