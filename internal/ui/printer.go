package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/muurk/ewcportal/internal/device"
	"github.com/muurk/ewcportal/internal/page"
)

// Printer writes styled output for one-shot commands.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a Printer writing to w. If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// SetWidth overrides the detected terminal width.
func (p *Printer) SetWidth(width int) *Printer {
	p.width = ClampWidth(width, nil)
	return p
}

// Width returns the width used for boxes.
func (p *Printer) Width() int {
	return p.width
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Printf writes formatted content.
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// PrintPage renders a page snapshot.
func (p *Printer) PrintPage(path string, elements []page.Element) {
	p.Println(RenderPage(path, elements, p.width))
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Detail) {
	p.Println(RenderSuccessBox(title, details, p.width))
}

// PrintError prints err in a failure box with its troubleshooting hint.
func (p *Printer) PrintError(title string, err error) {
	p.Println(RenderErrorBox(title, err, ErrorHint(err), p.width))
}

// ErrorHint returns the advice shown under a failed command. Validation
// errors never reached the device, so they get no device troubleshooting.
func ErrorHint(err error) string {
	if device.IsValidationError(err) {
		return "Nothing was sent to the device. Correct the value and run the command again."
	}

	hint := device.GetTroubleshootingHint(err)
	switch {
	case device.IsAuthError(err):
		hint += "\n  • EWC_PASSWORD is used when --password is not given"
	case device.IsParseError(err):
		hint += "\n  • Run with --log-level debug to log the raw response"
	case device.IsNetworkError(err):
		hint += "\n  • Pass --device with the IP address to skip discovery"
	}
	if device.IsRetryable(err) {
		hint += "\n\nThis looks temporary. Running the command again may succeed."
	}
	return hint
}
