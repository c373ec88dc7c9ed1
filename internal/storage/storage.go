// /internal/storage/storage.go
package storage

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrConfiguration marks a missing or unreadable definition file.
var ErrConfiguration = errors.New("configuration error")

const (
	CommandsFile    = "commands.txt"
	RolesFile       = "roles.txt"
	JoinMessageFile = "joinmessage.txt"
	EmotesFile      = "emotes.csv"
	RoleMessageFile = "rolesdata.bin"
)

// Paths resolves every data file relative to one directory.
type Paths struct {
	Dir string
}

func (p Paths) Commands() string    { return filepath.Join(p.Dir, CommandsFile) }
func (p Paths) Roles() string       { return filepath.Join(p.Dir, RolesFile) }
func (p Paths) JoinMessage() string { return filepath.Join(p.Dir, JoinMessageFile) }
func (p Paths) Emotes() string      { return filepath.Join(p.Dir, EmotesFile) }
func (p Paths) RoleMessage() string { return filepath.Join(p.Dir, RoleMessageFile) }

// Line is one line of a definition file with its 1-based line number.
type Line struct {
	No   int
	Text string
}

// ReadLines reads a newline-delimited file. Trailing "\r" is stripped so files
// edited on Windows parse the same way.
//
// If the file does not exist and create is true, an empty file is created. Either
// way a missing file is reported as ErrConfiguration wrapping os.ErrNotExist.
func ReadLines(path string, create bool) ([]Line, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		if create {
			if cerr := createEmpty(path); cerr != nil {
				return nil, fmt.Errorf("%w: create %s: %w", ErrConfiguration, path, cerr)
			}
		}
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	defer f.Close()

	var lines []Line
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; sc.Scan(); n++ {
		lines = append(lines, Line{No: n, Text: strings.TrimSuffix(sc.Text(), "\r")})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrConfiguration, path, err)
	}
	return lines, nil
}

// ReadText returns the whole file content.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return string(data), nil
}

func createEmpty(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}
