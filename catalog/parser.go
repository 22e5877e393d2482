package catalog

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// dueDateLayout is the only accepted due-date format (ISO-8601 calendar date).
const dueDateLayout = "2006-01-02"

// lineShape validates the canonical record layout before any field is
// interpreted: title,author,genre,status[,due_date]. Text fields may not
// contain commas or semicolons; the trailing optional field may be empty.
var lineShape = regexp.MustCompile(`^[^,;]+,[^,;]+,[^,;]+,[^,;]+(,[^,;]*)?$`)

// ParseResult summarizes one file ingestion pass.
type ParseResult struct {
	Parsed  int `json:"parsed"`
	Skipped int `json:"skipped"`
}

// ParseLine converts one comma-delimited line into a Book. It reports false
// for any line that fails shape validation or carries an unknown status
// token; such lines are filtered, never errors. A malformed trailing due
// date is the one lenient case: the book is kept, just without a due date.
func ParseLine(line string) (Book, bool) {
	if !lineShape.MatchString(line) {
		return Book{}, false
	}

	fields := strings.Split(line, ",")

	status, ok := ParseStatus(fields[3])
	if !ok {
		return Book{}, false
	}

	book := Book{
		Title:  fields[0],
		Author: fields[1],
		Genre:  fields[2],
		Status: status,
	}

	if len(fields) > 4 {
		if _, err := time.Parse(dueDateLayout, fields[4]); err == nil {
			book.DueDate = fields[4]
		}
	}

	return book, true
}

// ReadBooks reads every line of the text file at path and returns the books
// that survived validation, in source order, duplicates and all. Barcodes
// are left unset; the repository assigns them on insert. One bad line never
// aborts the file, but a file that cannot be opened or read is a single
// error for the whole operation.
func ReadBooks(path string) ([]Book, ParseResult, error) {
	var result ParseResult

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, result, fmt.Errorf("open book file: %w", err)
	}
	defer f.Close()

	var books []Book
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		book, ok := ParseLine(scanner.Text())
		if !ok {
			result.Skipped++
			continue
		}
		books = append(books, book)
		result.Parsed++
	}
	if err := scanner.Err(); err != nil {
		return nil, ParseResult{}, fmt.Errorf("read book file: %w", err)
	}

	log.Printf("read %d books from %s (%d lines skipped)", result.Parsed, path, result.Skipped)

	return books, result, nil
}
