package helpers

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// readAnswer prints the prompt and returns the trimmed reply. EOF reads as
// an empty reply so scripted runs fall through to defaults.
func readAnswer(out io.Writer, reader *bufio.Reader, promptText, hint string) string {
	fmt.Fprintf(out, "%s [%s]: ", promptText, hint)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// PromptForChoice returns the reply, or defaultValue when it is blank.
func PromptForChoice(out io.Writer, reader *bufio.Reader, promptText string, defaultValue string) string {
	if line := readAnswer(out, reader, promptText, defaultValue); line != "" {
		return line
	}
	return defaultValue
}

// PromptForOption accepts only one of allowed (case-insensitive). Anything
// else keeps defaultValue.
func PromptForOption(out io.Writer, reader *bufio.Reader, promptText, defaultValue string, allowed []string) string {
	line := readAnswer(out, reader, promptText, defaultValue)
	if line == "" {
		return defaultValue
	}
	for _, option := range allowed {
		if strings.EqualFold(option, line) {
			return option
		}
	}
	fmt.Fprintf(out, "  %q is not one of %s; keeping %s\n", line, strings.Join(allowed, ", "), defaultValue)
	return defaultValue
}

// PromptForYesNo returns true for y/yes, the default for a blank reply.
func PromptForYesNo(out io.Writer, reader *bufio.Reader, promptText string, defaultValue bool) bool {
	line := strings.ToLower(readAnswer(out, reader, promptText, buildYesNoLabel(defaultValue)))
	if line == "" {
		return defaultValue
	}
	return isAffirmativeResponse(line)
}

// PromptForInt reads a non-negative integer; invalid input keeps the default.
func PromptForInt(out io.Writer, reader *bufio.Reader, promptText string, defaultValue int) int {
	line := readAnswer(out, reader, promptText, strconv.Itoa(defaultValue))
	if line == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 0 {
		fmt.Fprintf(out, "  %q is not a non-negative number; keeping %d\n", line, defaultValue)
		return defaultValue
	}
	return n
}

func buildYesNoLabel(defaultIsYes bool) string {
	if defaultIsYes {
		return "Y/n"
	}
	return "y/N"
}

func isAffirmativeResponse(response string) bool {
	return response == "y" || response == "yes"
}
