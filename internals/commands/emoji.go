package commands

import (
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
)

var emojiSupport = detectEmojiSupport()

// detectEmojiSupport uses the same tty/CI gating as the logger. On
// windows only the windows terminal renders emoji, conhost draws boxes
func detectEmojiSupport() bool {
	if os.Getenv("CI") != "" {
		return false
	}
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return false
	}
	if runtime.GOOS == "windows" {
		return os.Getenv("WT_SESSION") != ""
	}
	return true
}

// Emoji returns e when the terminal can probably render it
func Emoji(e string) string {
	if emojiSupport {
		return e
	}
	return ""
}
