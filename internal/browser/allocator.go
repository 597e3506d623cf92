// internal/browser/allocator.go
package browser

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/xkilldash9x/folio/internal/config"
)

// Flag is a single command line switch passed to the browser process.
type Flag struct {
	Name  string
	Value interface{}
}

// AllocatorFlags assembles the switches applied on top of chromedp's defaults.
// Headless sessions get a fixed window size; headed sessions start maximized.
// Later entries override earlier ones with the same name.
func AllocatorFlags(cfg config.BrowserConfig) []Flag {
	flags := []Flag{
		{Name: "no-first-run", Value: true},
		{Name: "no-default-browser-check", Value: true},
		{Name: "disable-extensions", Value: true},
	}

	if cfg.Headless {
		w, h := cfg.ViewportSize()
		flags = append(flags,
			Flag{Name: "headless", Value: true},
			Flag{Name: "hide-scrollbars", Value: true},
			Flag{Name: "mute-audio", Value: true},
			Flag{Name: "disable-gpu", Value: true},
			Flag{Name: "window-size", Value: fmt.Sprintf("%d,%d", w, h)},
		)
	} else {
		flags = append(flags,
			Flag{Name: "headless", Value: false},
			Flag{Name: "start-maximized", Value: true},
		)
	}

	// Containers on linux need these or the renderer crashes on start.
	if runtime.GOOS == "linux" {
		flags = append(flags,
			Flag{Name: "no-sandbox", Value: true},
			Flag{Name: "disable-dev-shm-usage", Value: true},
			Flag{Name: "disable-setuid-sandbox", Value: true},
		)
	}

	for _, arg := range cfg.Args {
		parts := strings.SplitN(arg, "=", 2)
		name := strings.TrimLeft(parts[0], "-")
		if name == "" {
			continue
		}
		if len(parts) == 2 {
			flags = append(flags, Flag{Name: name, Value: parts[1]})
		} else {
			flags = append(flags, Flag{Name: name, Value: true})
		}
	}
	return flags
}

// DefaultAllocatorOptions converts cfg into the options used to launch one
// browser process per session.
func DefaultAllocatorOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := make([]chromedp.ExecAllocatorOption, 0, len(chromedp.DefaultExecAllocatorOptions)+16)
	opts = append(opts, chromedp.DefaultExecAllocatorOptions[:]...)

	for _, f := range AllocatorFlags(cfg) {
		opts = append(opts, chromedp.Flag(f.Name, f.Value))
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	return opts
}

// BrowserBinaries are the executable names probed by FindExecPath, in order.
var BrowserBinaries = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
}

// FindExecPath returns CHROME_PATH when set, otherwise the first of
// BrowserBinaries on PATH. It returns "" if no browser is found.
func FindExecPath() string {
	if p := os.Getenv("CHROME_PATH"); p != "" {
		return p
	}
	for _, name := range BrowserBinaries {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	return ""
}
