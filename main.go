package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"library-catalog/catalog"
	"library-catalog/config"
)

// consoleNotifier renders core notifications on the terminal.
type consoleNotifier struct {
	scanner *bufio.Scanner
}

func (c *consoleNotifier) Message(text string) { fmt.Println(text) }

func (c *consoleNotifier) Error(text string) { fmt.Println("Error:", text) }

func (c *consoleNotifier) ConfirmDelete(text string, _ catalog.Book) bool {
	return c.confirm(text)
}

func (c *consoleNotifier) UpdateContent(books []catalog.Book) {
	printBooks(books)
}

func (c *consoleNotifier) PreviewBooks(books []catalog.Book) bool {
	fmt.Println("The following books were read:")
	printBooks(books)
	return c.confirm("Add these books to the collection?")
}

func (c *consoleNotifier) confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	if !c.scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(c.scanner.Text()))
	return answer == "y" || answer == "yes"
}

func printBooks(books []catalog.Book) {
	if len(books) == 0 {
		fmt.Println("The collection is empty.")
		return
	}
	fmt.Printf("%-8s %-35s %-25s %-20s %-12s %-10s\n", "Barcode", "Title", "Author", "Genre", "Status", "Due Date")
	fmt.Println(strings.Repeat("-", 115))
	for _, b := range books {
		fmt.Printf("%-8d %-35s %-25s %-20s %-12s %-10s\n",
			b.Barcode, truncate(b.Title, 35), truncate(b.Author, 25), truncate(b.Genre, 20), b.Status, b.DueDate)
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// readPassword securely reads a password with masking.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println() // Add newline after password input
	return strings.TrimSpace(string(bytePassword)), nil
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "library-catalog",
		Short: "Manage a library's book collection from the terminal",
		Long: "An interactive catalog manager: import books from text files or " +
			"external databases, look them up, and track check-outs and returns.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole()
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func runConsole() error {
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
			return fmt.Errorf("open catalog database: %w", err)
		}
	}
	defer repo.Close()

	core := catalog.NewLibraryCore(repo).WithLoanWeeks(cfg.Loan.Weeks)

	scanner := bufio.NewScanner(os.Stdin)
	notifier := &consoleNotifier{scanner: scanner}

	fmt.Println("Welcome to the Library Catalog Manager!")
	fmt.Println("Available commands:")
	fmt.Println("  Import: import file, import database")
	fmt.Println("  Collection: list books, find title, find barcode, remove book")
	fmt.Println("  Circulation: check out, check in")
	fmt.Println("  System: exit")

	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		cmd := strings.TrimSpace(scanner.Text())

		switch cmd {
		case "import file":
			handleImportFile(scanner, core, notifier)
		case "import database":
			handleImportDatabase(scanner, core, notifier)
		case "list books":
			printBooks(core.GetLibraryBooks())
		case "find title":
			handleFindTitle(scanner, core)
		case "find barcode":
			handleFindBarcode(scanner, core)
		case "remove book":
			handleRemoveBook(scanner, core, notifier)
		case "check out":
			handleCirculation(scanner, core, notifier, core.CheckOutBook)
		case "check in":
			handleCirculation(scanner, core, notifier, core.CheckInBook)
		case "exit":
			fmt.Println("Goodbye!")
			return nil
		default:
			fmt.Println("Unknown command. Type one of the available commands listed above.")
		}
	}
	return nil
}

func prompt(sc *bufio.Scanner, label string) (string, bool) {
	fmt.Print(label)
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}

func handleImportFile(sc *bufio.Scanner, core *catalog.LibraryCore, n catalog.Notifier) {
	path, ok := prompt(sc, "Path to text file: ")
	if !ok || path == "" {
		return
	}
	core.GetBooksFromTextFile(path, n)
}

func handleImportDatabase(sc *bufio.Scanner, core *catalog.LibraryCore, n catalog.Notifier) {
	driver, ok := prompt(sc, "Source type (sqlite/mysql): ")
	if !ok {
		return
	}

	form := catalog.SourceForm{Table: "books"}
	if table, ok := prompt(sc, "Table name [books]: "); ok && table != "" {
		form.Table = table
	}

	switch strings.ToLower(driver) {
	case "mysql":
		form.Driver = catalog.SourceMySQL
		if form.Server, ok = prompt(sc, "Server (host:port): "); !ok {
			return
		}
		if form.Database, ok = prompt(sc, "Database name: "); !ok {
			return
		}
		if form.Username, ok = prompt(sc, "Username: "); !ok {
			return
		}
		password, err := readPassword("Password: ")
		if err != nil {
			log.Printf("read password: %v", err)
			return
		}
		form.Password = password
	default:
		form.Driver = catalog.SourceSQLite
		if form.Path, ok = prompt(sc, "Path to database file: "); !ok {
			return
		}
	}

	core.GetBooksFromSource(form, n)
}

func handleFindTitle(sc *bufio.Scanner, core *catalog.LibraryCore) {
	title, ok := prompt(sc, "Title: ")
	if !ok || title == "" {
		return
	}
	book := core.FindBookByTitle(title)
	if book == nil {
		fmt.Printf("No book titled %q was found.\n", title)
		return
	}
	printBooks([]catalog.Book{*book})
}

func handleFindBarcode(sc *bufio.Scanner, core *catalog.LibraryCore) {
	raw, ok := prompt(sc, "Barcode: ")
	if !ok {
		return
	}
	barcode, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Println("Barcode must be a number.")
		return
	}
	book := core.FindBookByBarcode(barcode)
	if book == nil {
		fmt.Printf("No book with barcode %d was found.\n", barcode)
		return
	}
	printBooks([]catalog.Book{*book})
}

func handleRemoveBook(sc *bufio.Scanner, core *catalog.LibraryCore, n catalog.Notifier) {
	book, ok := lookupBook(sc, core)
	if !ok {
		return
	}
	core.RemoveBookFromCollection(book, n)
}

func handleCirculation(sc *bufio.Scanner, core *catalog.LibraryCore, n catalog.Notifier, action func(catalog.Book, catalog.Notifier)) {
	book, ok := lookupBook(sc, core)
	if !ok {
		return
	}
	action(book, n)
}

// lookupBook resolves a user-entered title to a stored book.
func lookupBook(sc *bufio.Scanner, core *catalog.LibraryCore) (catalog.Book, bool) {
	title, ok := prompt(sc, "Title: ")
	if !ok || title == "" {
		return catalog.Book{}, false
	}
	book := core.FindBookByTitle(title)
	if book == nil {
		fmt.Printf("No book titled %q was found.\n", title)
		return catalog.Book{}, false
	}
	return *book, true
}
