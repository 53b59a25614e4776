// Package wordlist loads drill word lists.
package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"
)

// ErrEmpty is returned for a list without any words.
var ErrEmpty = errors.New("word list is empty")

// LoadWords reads the word list at path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()
	return Parse(file)
}

// Parse reads whitespace-separated words. Text after '#' on a line is a
// comment. Words are uppercased and the first occurrence wins.
func Parse(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line, _, _ := strings.Cut(scanner.Text(), "#")
		for _, field := range strings.Fields(line) {
			words = append(words, strings.ToUpper(field))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	words = lo.Uniq(words)
	if len(words) == 0 {
		return nil, ErrEmpty
	}
	return words, nil
}
