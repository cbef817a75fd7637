//go:build darwin

package platform

import (
	"os/exec"
	"strings"
)

// appleQuote quotes s as an AppleScript string literal.
func appleQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

// Notify displays a desktop notification using macOS Notification Center.
// Notification Center has no icon or timeout control from AppleScript.
func Notify(title, body string, opts Options) error {
	script := "display notification " + appleQuote(body) +
		" with title " + appleQuote(title) +
		" subtitle " + appleQuote(AppName)
	return exec.Command("osascript", "-e", script).Run()
}
