package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"library-catalog/catalog"
	"library-catalog/config"
)

// batchNotifier is a non-interactive Notifier: previews are auto-accepted
// and outcomes go to the log.
type batchNotifier struct{}

func (batchNotifier) Message(text string) { log.Print(text) }

func (batchNotifier) Error(text string) { log.Printf("error: %s", text) }

func (batchNotifier) ConfirmDelete(string, catalog.Book) bool { return false }

func (batchNotifier) UpdateContent([]catalog.Book) {}

func (batchNotifier) PreviewBooks(books []catalog.Book) bool {
	log.Printf("read %d books, committing", len(books))
	return true
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <books.txt>\n", os.Args[0])
		os.Exit(1)
	}
	path := os.Args[1]

	cfg := config.NewConfig()

	var (
		repo catalog.Repository
		err  error
	)
	if cfg.Store.Backend == config.BackendMemory {
		repo = catalog.NewMemoryRepository()
	} else {
		repo, err = catalog.NewDatabase(cfg.Store.Path, cfg.Store.Table)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
			os.Exit(1)
		}
	}
	defer repo.Close()

	core := catalog.NewLibraryCore(repo).WithLoanWeeks(cfg.Loan.Weeks)

	fmt.Printf("Importing books from %s...\n", path)
	core.GetBooksFromTextFile(path, batchNotifier{})

	books := core.GetLibraryBooks()
	fmt.Printf("\nImport complete! The collection now holds %d books.\n", len(books))

	if len(books) > 0 {
		fmt.Printf("%-8s %-50s %-30s %-12s\n", "Barcode", "Title", "Author", "Status")
		fmt.Println(strings.Repeat("-", 102))
		for _, book := range books {
			fmt.Printf("%-8d %-50s %-30s %-12s\n", book.Barcode, truncateString(book.Title, 50), truncateString(book.Author, 30), book.Status)
		}
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
