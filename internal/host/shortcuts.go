package host

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
)

// shortcutPattern matches program entries relative to a Start Menu root.
const shortcutPattern = "**/*.{lnk,url,desktop}"

func walkShortcuts(ctx context.Context, roots []string) ([]Shortcut, error) {
	var (
		mu  sync.Mutex
		out []Shortcut
	)

	conf := fastwalk.Config{Follow: false}
	for _, root := range roots {
		if root == "" {
			continue
		}
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			continue
		}

		err := fastwalk.Walk(&conf, root, func(p string, d os.DirEntry, err error) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if err != nil || d.IsDir() {
				return nil
			}

			rel, err := filepath.Rel(root, p)
			if err != nil {
				return nil
			}
			matched, _ := doublestar.Match(shortcutPattern, strings.ToLower(filepath.ToSlash(rel)))
			if !matched {
				return nil
			}

			mu.Lock()
			out = append(out, Shortcut{Path: p, DisplayName: shortcutName(p)})
			mu.Unlock()
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	// fastwalk visits directories concurrently
	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})
	return out, nil
}

func shortcutName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// readIniValue returns the first "key=value" line with the given key.
func readIniValue(path, key string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	prefix := key + "="
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix)), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("%s: no %s entry", path, key)
}

// desktopExec extracts the program from a freedesktop Exec line, dropping
// field codes such as %u and %F.
func desktopExec(path string) (string, error) {
	line, err := readIniValue(path, "Exec")
	if err != nil {
		return "", err
	}
	for _, field := range strings.Fields(line) {
		if strings.HasPrefix(field, "%") || strings.Contains(field, "=") {
			continue
		}
		return strings.Trim(field, `"`), nil
	}
	return "", fmt.Errorf("%s: empty Exec entry", path)
}
