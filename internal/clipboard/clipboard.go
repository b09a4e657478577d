// Package clipboard copies report text to the system clipboard.
package clipboard

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// CopyText copies plain text to the system clipboard using the first
// available platform tool.
func CopyText(text string) error {
	tools, err := toolsFor(runtime.GOOS)
	if err != nil {
		return err
	}

	var names []string
	for _, tool := range tools {
		names = append(names, tool[0])
		if !isCommandAvailable(tool[0]) {
			continue
		}
		cmd := exec.Command(tool[0], tool[1:]...)
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no suitable clipboard tool found (tried: %s)", strings.Join(names, ", "))
}

// toolsFor lists clipboard commands in order of preference.
func toolsFor(goos string) ([][]string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd":
		return [][]string{
			{"wl-copy"},                          // Wayland
			{"xclip", "-selection", "clipboard"}, // X11
			{"xsel", "--clipboard", "--input"},   // X11 alternative
		}, nil
	case "darwin":
		return [][]string{{"pbcopy"}}, nil
	case "windows":
		return [][]string{{"clip"}}, nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

func isCommandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
