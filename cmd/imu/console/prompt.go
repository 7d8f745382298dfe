package console

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"
)

const (
	Yes = "y"
	No  = "n"
)

// Confirm asks a yes/no question defaulting to no.
func Confirm(question string) (bool, error) {
	answer, err := Prompt(question, No, Yes)
	if err != nil {
		return false, err
	}
	return answer == Yes, nil
}

// Prompt reads one line of input. When choices are given the answer is
// restricted to them and the first one is returned for anything else.
func Prompt(question string, choices ...string) (string, error) {
	if len(choices) > 0 {
		options := append([]string{strings.ToUpper(choices[0])}, choices[1:]...)
		question = fmt.Sprintf("%s [%s]: ", question, strings.Join(options, "/"))
	}
	rl, err := readline.New(question)
	if err != nil {
		return "", fmt.Errorf("could not open terminal: %w", err)
	}
	defer func() { _ = rl.Close() }()
	line, err := rl.Readline()
	if err != nil {
		return "", err
	}
	if len(choices) == 0 {
		return line, nil
	}
	return matchConstraint(line, choices), nil
}

// matchConstraint returns the choice matching response or the default.
func matchConstraint(response string, choices []string) string {
	normalized := strings.ToLower(strings.TrimSpace(response))
	for _, c := range choices {
		if normalized == c {
			return normalized
		}
	}
	return choices[0]
}
