package env

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadBook reads starting positions, one per line. A line is a FEN or an
// EPD record; anything after the first four fields that is not a move
// counter is dropped, as is a trailing "[result]" annotation. Blank lines
// and lines starting with '#' are skipped.
func LoadBook(r io.Reader) ([]string, error) {
	var fens []string
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if i := strings.IndexByte(line, '['); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, fmt.Errorf("book line %d: expected at least 4 fields, got %d", lineNo, len(fields))
		}
		fen := strings.Join(fields[:4], " ")
		if len(fields) >= 6 && isNumber(fields[4]) && isNumber(fields[5]) {
			fen += " " + fields[4] + " " + fields[5]
		} else {
			fen += " 0 1"
		}
		fens = append(fens, fen)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return fens, nil
}

// LoadBookFile is LoadBook on a file.
func LoadBookFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return LoadBook(file)
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
