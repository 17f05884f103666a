package config

import (
	"fmt"
	"regexp"
	"strings"
)

// goccy error messages start with a "[line:column] message" marker.
var goccyErrorPattern = regexp.MustCompile(`\[(\d+):(\d+)\]\s*(.*)`)

// extractYAMLErrorPosition extracts line and column information from YAML
// parsing errors. Handles the goccy "[L:C] message" marker as well as the
// classic "yaml: line L: message" format. Falls back to the raw error text
// with no position when neither matches.
func extractYAMLErrorPosition(err error) (line int, column int, message string) {
	errStr := err.Error()

	if match := goccyErrorPattern.FindStringSubmatch(errStr); match != nil {
		fmt.Sscanf(match[1], "%d", &line)
		fmt.Sscanf(match[2], "%d", &column)
		// The annotated source snippet goccy appends is rendered separately.
		message = strings.TrimSpace(firstLine(match[3]))
		if message == "" {
			message = "syntax error"
		}
		return line, column, message
	}

	if strings.Contains(errStr, "yaml: line ") {
		parts := strings.SplitN(errStr, "yaml: line ", 2)
		lineInfo := parts[1]
		if colonIndex := strings.Index(lineInfo, ":"); colonIndex > 0 {
			if _, parseErr := fmt.Sscanf(lineInfo[:colonIndex], "%d", &line); parseErr == nil {
				return line, 1, strings.TrimSpace(lineInfo[colonIndex+1:])
			}
		}
	}

	return 0, 0, errStr
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
