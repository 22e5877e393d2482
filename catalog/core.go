package catalog

import (
	"fmt"
	"time"
)

// DefaultLoanWeeks is the fixed loan period applied on checkout.
const DefaultLoanWeeks = 4

// LibraryCore is the business-logic layer. It orchestrates ingestion,
// circulation, and removal flows, delegates all persistence to the
// Repository, and reports every outcome through the attached Notifier.
// Errors never cross the notifier seam.
type LibraryCore struct {
	repo      Repository
	loanWeeks int
	now       func() time.Time
}

// NewLibraryCore wires the core to its repository with the default loan
// period.
func NewLibraryCore(repo Repository) *LibraryCore {
	return &LibraryCore{repo: repo, loanWeeks: DefaultLoanWeeks, now: time.Now}
}

// WithLoanWeeks overrides the loan period. Values below one week are ignored.
func (c *LibraryCore) WithLoanWeeks(weeks int) *LibraryCore {
	if weeks >= 1 {
		c.loanWeeks = weeks
	}
	return c
}

// withClock substitutes the time source. Tests use it to pin "today".
func (c *LibraryCore) withClock(now func() time.Time) *LibraryCore {
	c.now = now
	return c
}

// GetBooksFromTextFile reads books from a user-supplied text file and hands
// them to the notifier's preview. Nothing is persisted until the previewed
// batch is committed through AddBooksToCollection.
func (c *LibraryCore) GetBooksFromTextFile(path string, n Notifier) {
	books, _, err := ReadBooks(path)
	if err != nil || len(books) == 0 {
		n.Error("Unable to read any books from file.")
		return
	}

	if n.PreviewBooks(books) {
		c.AddBooksToCollection(books, n)
	}
}

// GetBooksFromSource reads books from a user-provided external database and
// hands them to the notifier's preview, following the same two-phase flow as
// text-file ingestion.
func (c *LibraryCore) GetBooksFromSource(form SourceForm, n Notifier) {
	books, err := ReadBooksFromSource(form)
	if err != nil || len(books) == 0 {
		n.Error("Unable to read any books from database.")
		return
	}

	if n.PreviewBooks(books) {
		c.AddBooksToCollection(books, n)
	}
}

// AddBooksToCollection commits a batch of books to the repository. At least
// one persisted row counts as success.
func (c *LibraryCore) AddBooksToCollection(books []Book, n Notifier) {
	inserted, err := c.repo.InsertBooks(books)
	if err != nil || inserted == 0 {
		n.Error("Unable to insert books.")
		return
	}

	c.refreshContent(n)
	n.Message("Books were added successfully.")
}

// RemoveBookFromCollection deletes the given book from the repository after
// the user confirms through the notifier. A declined confirmation is a
// silent no-op.
func (c *LibraryCore) RemoveBookFromCollection(book Book, n Notifier) {
	prompt := fmt.Sprintf("Are you sure you want to remove %s from the collection?", book.Title)
	if !n.ConfirmDelete(prompt, book) {
		return
	}

	deleted, err := c.repo.DeleteBook(book)
	if err != nil || !deleted {
		n.Error("Unable to delete book.")
		return
	}

	c.refreshContent(n)
	n.Message(book.Title + " was successfully removed from the collection.")
}

// CheckOutBook checks the given book out for the configured loan period.
// Checking out an already-checked-out book is rejected with no state change.
// The caller's record is never mutated: a copy carries the new status and
// due date, and only the repository-confirmed copy is reflected back through
// the notifier.
func (c *LibraryCore) CheckOutBook(book Book, n Notifier) {
	if book.Status == CheckedOut {
		n.Error("You cannot check out a book that is already checked out.")
		return
	}

	updated := book
	updated.Status = CheckedOut
	updated.DueDate = c.now().AddDate(0, 0, c.loanWeeks*7).Format(dueDateLayout)

	ok, err := c.repo.UpdateBook(updated)
	if err != nil || !ok {
		n.Error("Unable to update book.")
		return
	}

	c.refreshContent(n)
	n.Message(fmt.Sprintf("%s was successfully checked out.\nThe new due date is %s.", updated.Title, updated.DueDate))
}

// CheckInBook checks the given book back in and clears its due date.
// Checking in an already-checked-in book is rejected with no state change.
func (c *LibraryCore) CheckInBook(book Book, n Notifier) {
	if book.Status == CheckedIn {
		n.Error("You cannot check in a book that is already checked in.")
		return
	}

	updated := book
	updated.Status = CheckedIn
	updated.DueDate = ""

	ok, err := c.repo.UpdateBook(updated)
	if err != nil || !ok {
		n.Error("Unable to update book.")
		return
	}

	c.refreshContent(n)
	n.Message(updated.Title + " was successfully checked in.")
}

// FindBookByTitle looks a book up by exact title, case-insensitively.
// Returns nil when no book matches.
func (c *LibraryCore) FindBookByTitle(title string) *Book {
	book, err := c.repo.SearchByTitle(title)
	if err != nil {
		return nil
	}
	return book
}

// FindBookByBarcode looks a book up by its unique barcode.
func (c *LibraryCore) FindBookByBarcode(barcode int64) *Book {
	book, err := c.repo.SearchByBarcode(barcode)
	if err != nil {
		return nil
	}
	return book
}

// GetLibraryBooks returns a snapshot of the whole collection.
func (c *LibraryCore) GetLibraryBooks() []Book {
	books, err := c.repo.GetAllBooks()
	if err != nil {
		return nil
	}
	return books
}

// refreshContent pushes the current collection to the front end after any
// successful mutation.
func (c *LibraryCore) refreshContent(n Notifier) {
	books, err := c.repo.GetAllBooks()
	if err != nil {
		n.Error("Unable to refresh the collection.")
		return
	}
	n.UpdateContent(books)
}
