package menu

import (
	"fmt"
	"strconv"
	"strings"
)

func label(name, def string) string {
	if def == "" {
		return name + ": "
	}
	return fmt.Sprintf("%s [%s]: ", name, def)
}

// askText asks until the answer is not blank. An empty answer keeps def
// when there is one.
func (m *Menu) askText(name, def string) (string, error) {
	for {
		answer, err := m.ask(label(name, def))
		if err != nil {
			return "", err
		}
		if answer == "" {
			answer = def
		}
		if answer != "" {
			return answer, nil
		}
		fmt.Fprintf(m.out, "%s cannot be empty\n", name)
	}
}

// askNumber asks until the answer parses as a number.
func (m *Menu) askNumber(name, def string) (string, error) {
	for {
		answer, err := m.askText(name, def)
		if err != nil {
			return "", err
		}
		if _, err := strconv.ParseFloat(answer, 64); err == nil {
			return answer, nil
		}
		fmt.Fprintf(m.out, "%s must be a number\n", name)
	}
}

// askInt asks until the answer is an integer.
func (m *Menu) askInt(name, def string) (string, error) {
	for {
		answer, err := m.askText(name, def)
		if err != nil {
			return "", err
		}
		if _, err := strconv.Atoi(answer); err == nil {
			return answer, nil
		}
		fmt.Fprintf(m.out, "%s must be a whole number\n", name)
	}
}

// askChoice asks for a number between 1 and n; 0 cancels.
func (m *Menu) askChoice(n int) (int, error) {
	for {
		answer, err := m.ask(fmt.Sprintf("Choose 1-%d (0 to cancel): ", n))
		if err != nil {
			return 0, err
		}
		i, err := strconv.Atoi(answer)
		if err == nil && i >= 0 && i <= n {
			return i, nil
		}
		fmt.Fprintln(m.out, "Invalid choice")
	}
}

func (m *Menu) confirm(question string) (bool, error) {
	for {
		answer, err := m.ask(question + " (y/n): ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes", "s", "si":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}
