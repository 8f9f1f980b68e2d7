package cli

import (
	"log"
	"time"

	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter renders a progress bar while files are parsed.
type CLIProgressReporter struct {
	quiet bool
	bar   *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a progress reporter. When quiet is true
// all output is suppressed.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{quiet: quiet}
}

func (c *CLIProgressReporter) OnParseStart(totalFiles int) {
	if c.quiet {
		return
	}

	c.bar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetDescription("Parsing files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionClearOnFinish(),
	)
}

func (c *CLIProgressReporter) OnFileParsed(relPath string) {
	if c.quiet || c.bar == nil {
		return
	}
	_ = c.bar.Add(1)
}

func (c *CLIProgressReporter) OnParseComplete(parsed int, duration time.Duration) {
	if c.quiet {
		return
	}
	if c.bar != nil {
		_ = c.bar.Finish()
	}
	log.Printf("Parsed %d files in %s", parsed, duration.Round(time.Millisecond))
}
