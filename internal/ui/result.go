package ui

import (
	"strings"
)

// Detail is one key/value line of a result box.
type Detail struct {
	Key   string
	Value string
}

// RenderSuccessBox renders a success result box. Details keep their order.
func RenderSuccessBox(title string, details []Detail, width int) string {
	lines := []string{
		"",
		SuccessTitleStyle.Render(SuccessMarker + "  " + title),
		"",
	}
	for _, d := range details {
		lines = append(lines, ResultKeyStyle.Render(d.Key+":")+" "+ResultValueStyle.Render(d.Value))
	}
	return SuccessBoxStyle(width).Render(strings.Join(lines, "\n"))
}

// RenderErrorBox renders a failure box with the error and an optional hint.
func RenderErrorBox(title string, err error, hint string, width int) string {
	lines := []string{
		"",
		ErrorTitleStyle.Render(FailureMarker + "  " + title),
		"",
	}
	if err != nil {
		lines = append(lines, ErrorMessageStyle.Render("Error: "+err.Error()), "")
	}
	if hint != "" {
		lines = append(lines, HintStyle.Render(hint))
	}
	return ErrorBoxStyle(width).Render(strings.Join(lines, "\n"))
}
