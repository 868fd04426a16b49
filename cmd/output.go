package cmd

import (
	"fmt"
	"io"
	"os"
)

// Status icons shared by every command.
const (
	iconOK   = "✓"
	iconErr  = "✗"
	iconWarn = "⚠"
	iconSkip = "○"
	iconMiss = "-"
	iconInfo = "~"
)

// Command output goes through these so tests can capture it.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// printSection prints a top-level header, e.g. "=== docmeta build ===".
func printSection(title string) {
	fmt.Fprintf(stdout, "\n=== %s ===\n", title)
}

// printBullet prints a grouped-section bullet, e.g. "● Skipped:".
func printBullet(title string) {
	fmt.Fprintf(stdout, "\n● %s\n", title)
}

// statusLine writes "  <icon>  msg", or "  <icon>  [name] msg" when the
// line is about one page.
func statusLine(w io.Writer, icon, name, msg string) {
	if name != "" {
		msg = "[" + name + "] " + msg
	}
	fmt.Fprintf(w, "  %s  %s\n", icon, msg)
}

func printOK(name, msg string) { statusLine(stdout, iconOK, name, msg) }

// printErr goes to stderr.
func printErr(name, msg string) { statusLine(stderr, iconErr, name, msg) }

func printWarn(name, msg string) { statusLine(stdout, iconWarn, name, msg) }

func printSkip(name, msg string) { statusLine(stdout, iconSkip, name, msg) }

func printMiss(name, msg string) { statusLine(stdout, iconMiss, name, msg) }

func printInfo(name, msg string) { statusLine(stdout, iconInfo, name, msg) }
