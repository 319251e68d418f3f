package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/ewcportal/internal/page"
)

// navClass marks menu entries rendered into the header.
const navClass = "lb-item"

// RenderPage renders page elements as a bordered terminal view. Hidden
// elements and empty display elements are skipped; menu entries are joined
// into a single navigation line under the brand.
func RenderPage(path string, elements []page.Element, width int) string {
	var lines []string
	var nav []string

	flushNav := func() {
		if len(nav) > 0 {
			lines = append(lines, "  "+strings.Join(nav, MutedStyle.Render(" · ")))
			nav = nil
		}
	}

	for _, el := range elements {
		if el.Hidden {
			continue
		}
		if el.HasClass(navClass) {
			nav = append(nav, NavStyle.Render(el.Content))
			continue
		}
		flushNav()
		if line := renderElement(el); line != "" {
			lines = append(lines, line)
		}
	}
	flushNav()

	dividerWidth := width - 6
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	title := MutedStyle.Render(path)
	body := strings.Join(lines, "\n")
	content := lipgloss.JoinVertical(lipgloss.Left, title, RenderHorizontalDivider(dividerWidth, "─"), body)
	return PageBoxStyle(width).Render(content)
}

func renderElement(el page.Element) string {
	switch {
	case el.ID == page.IDHeader:
		return ""
	case el.ID == page.IDBrand:
		if el.Content == "" {
			return ""
		}
		return BrandStyle.Render(el.Content) + " " + MutedStyle.Render(el.Href)
	case strings.HasPrefix(el.ID, page.SSIDItemPrefix):
		return renderNetwork(el)
	case el.ID == page.IDSSIDCurrent:
		if el.Content == "" {
			return ""
		}
		return StatusStyle.Render(el.Content)
	case el.ID == page.IDBusy:
		return MutedStyle.Render("  " + el.Content)
	case strings.HasPrefix(el.ID, "title_"):
		return TitleStyle.Render(el.Content)
	}

	if el.Kind == page.KindInput {
		return renderInput(el)
	}
	if el.Content == "" {
		return ""
	}
	return LabelStyle.Render(el.Content)
}

func renderInput(el page.Element) string {
	switch el.Type {
	case "button":
		label := ButtonStyle.Render("[ " + el.Value + " ]")
		if el.Disabled {
			label = MutedStyle.Render("[ " + el.Value + " ]")
		}
		return "  " + label
	case "password":
		return "  " + MutedStyle.Render(el.ID+":") + " " + InputStyle.Render(strings.Repeat("•", len([]rune(el.Value))))
	default:
		return "  " + MutedStyle.Render(el.ID+":") + " " + InputStyle.Render(el.Value)
	}
}

func renderNetwork(el page.Element) string {
	var b strings.Builder
	b.WriteString(el.Value)
	if el.Value == "" {
		b.WriteString(MutedStyle.Render("<hidden>"))
	}
	b.WriteString("  ")
	b.WriteString(MutedStyle.Render(el.Content))
	if el.HasClass("encrypted") {
		b.WriteString(" " + EncryptedMark)
	}
	return NetworkStyle.Render(b.String())
}
