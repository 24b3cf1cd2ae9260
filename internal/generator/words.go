package generator

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// DefaultWords is the built-in list used when no word file is given.
var DefaultWords = []string{
	"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog", "cat", "paw",
	"keyboard", "type", "fast", "slow", "word", "line", "note", "page", "text", "edit",
	"write", "read", "space", "shift", "enter", "tab", "home", "end", "mouse", "desk",
	"time", "tick", "sleep", "purr", "tail", "whisker", "yarn", "milk", "fish", "nap",
	"window", "screen", "light", "dark", "code", "test", "build", "run", "stop", "start",
}

// LoadWords reads one word per line from the provided file path. Blank lines and
// lines starting with # are skipped.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}
