package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockNotifier records every callback so tests can assert on the exact
// conversation between the core and its front end.
type mockNotifier struct {
	messages      []string
	errors        []string
	previewed     [][]Book
	content       [][]Book
	acceptPreview bool
	confirmDelete bool
}

func (m *mockNotifier) Message(text string) { m.messages = append(m.messages, text) }

func (m *mockNotifier) Error(text string) { m.errors = append(m.errors, text) }

func (m *mockNotifier) ConfirmDelete(string, Book) bool { return m.confirmDelete }

func (m *mockNotifier) UpdateContent(books []Book) { m.content = append(m.content, books) }

func (m *mockNotifier) PreviewBooks(books []Book) bool {
	m.previewed = append(m.previewed, books)
	return m.acceptPreview
}

func (m *mockNotifier) lastContent() []Book {
	if len(m.content) == 0 {
		return nil
	}
	return m.content[len(m.content)-1]
}

// seededCore mirrors the hardcoded stand-in collection the relational store
// replaces during tests.
func seededCore() *LibraryCore {
	repo := NewSeededMemoryRepository([]Book{
		{Barcode: 1, Title: "Cinder", Author: "Marissa Meyer", Genre: "Science Fiction", Status: CheckedIn},
		{Barcode: 2, Title: "Scarlet", Author: "Marissa Meyer", Genre: "Science Fiction", Status: CheckedOut, DueDate: "2024-04-24"},
		{Barcode: 3, Title: "Cress", Author: "Marissa Meyer", Genre: "Science Fiction", Status: CheckedIn},
		{Barcode: 4, Title: "Winter", Author: "Marissa Meyer", Genre: "Science Fiction", Status: CheckedOut, DueDate: "2024-03-07"},
		{Barcode: 5, Title: "Game Programming Patterns", Author: "Robert Nystrom", Genre: "Non-Fiction", Status: CheckedIn},
	})
	return NewLibraryCore(repo)
}

func TestGetBooksFromTextFile_AddsFourBooks(t *testing.T) {
	core := seededCore()
	before := len(core.GetLibraryBooks())

	path := filepath.Join(t.TempDir(), "new-books.txt")
	require.NoError(t, os.WriteFile(path, []byte(
		"Fairest,Marissa Meyer,Science Fiction,CHECKED_IN\n"+
			"Heartless,Marissa Meyer,Fantasy,CHECKED_IN\n"+
			"Renegades,Marissa Meyer,Science Fiction,CHECKED_OUT,2024-06-01\n"+
			"Archenemies,Marissa Meyer,Science Fiction,CHECKED_IN\n"), 0o644))

	n := &mockNotifier{acceptPreview: true}
	core.GetBooksFromTextFile(path, n)

	require.Len(t, n.previewed, 1)
	assert.Len(t, n.previewed[0], 4)
	assert.Len(t, core.GetLibraryBooks(), before+4)
	assert.Contains(t, n.messages, "Books were added successfully.")
	assert.Empty(t, n.errors)
}

func TestGetBooksFromTextFile_DeclinedPreviewPersistsNothing(t *testing.T) {
	core := seededCore()
	before := len(core.GetLibraryBooks())

	path := filepath.Join(t.TempDir(), "new-books.txt")
	require.NoError(t, os.WriteFile(path, []byte("Fairest,Marissa Meyer,Science Fiction,CHECKED_IN\n"), 0o644))

	n := &mockNotifier{acceptPreview: false}
	core.GetBooksFromTextFile(path, n)

	require.Len(t, n.previewed, 1)
	assert.Len(t, core.GetLibraryBooks(), before, "nothing may be persisted on parse alone")
	assert.Empty(t, n.content)
}

func TestGetBooksFromTextFile_UnreadableFile(t *testing.T) {
	core := seededCore()
	n := &mockNotifier{acceptPreview: true}

	core.GetBooksFromTextFile(filepath.Join(t.TempDir(), "missing.txt"), n)

	assert.Equal(t, []string{"Unable to read any books from file."}, n.errors)
	assert.Empty(t, n.previewed)
}

func TestGetBooksFromTextFile_AllLinesMalformed(t *testing.T) {
	core := seededCore()
	path := filepath.Join(t.TempDir(), "garbage.txt")
	require.NoError(t, os.WriteFile(path, []byte("not a book\nstill;not,a,book\n"), 0o644))

	n := &mockNotifier{acceptPreview: true}
	core.GetBooksFromTextFile(path, n)

	assert.Equal(t, []string{"Unable to read any books from file."}, n.errors)
	assert.Empty(t, n.previewed)
}

func TestRemoveBookFromCollection(t *testing.T) {
	core := seededCore()
	winter := core.FindBookByTitle("Winter")
	require.NotNil(t, winter)

	n := &mockNotifier{confirmDelete: true}
	core.RemoveBookFromCollection(*winter, n)

	assert.Empty(t, n.errors)
	require.Len(t, n.messages, 1)
	assert.Contains(t, n.messages[0], "Winter")
	assert.Nil(t, core.FindBookByTitle("Winter"))

	// Removing the same book again fails: it is gone.
	core.RemoveBookFromCollection(*winter, n)
	assert.Equal(t, []string{"Unable to delete book."}, n.errors)
}

func TestRemoveBookFromCollection_Declined(t *testing.T) {
	core := seededCore()
	winter := core.FindBookByTitle("Winter")
	require.NotNil(t, winter)

	n := &mockNotifier{confirmDelete: false}
	core.RemoveBookFromCollection(*winter, n)

	assert.NotNil(t, core.FindBookByTitle("Winter"))
	assert.Empty(t, n.errors)
	assert.Empty(t, n.messages)
}

func TestCheckOutBook(t *testing.T) {
	core := seededCore()
	cress := core.FindBookByTitle("Cress")
	require.NotNil(t, cress)

	n := &mockNotifier{}
	core.CheckOutBook(*cress, n)

	assert.Empty(t, n.errors)
	updated := core.FindBookByTitle("Cress")
	require.NotNil(t, updated)
	assert.Equal(t, CheckedOut, updated.Status)
	wantDue := time.Now().AddDate(0, 0, 28).Format("2006-01-02")
	assert.Equal(t, wantDue, updated.DueDate)
	require.Len(t, n.messages, 1)
	assert.Contains(t, n.messages[0], wantDue)
}

func TestCheckOutBook_AlreadyCheckedOut(t *testing.T) {
	core := seededCore()
	scarlet := core.FindBookByTitle("Scarlet")
	require.NotNil(t, scarlet)

	n := &mockNotifier{}
	core.CheckOutBook(*scarlet, n)

	assert.Equal(t, []string{"You cannot check out a book that is already checked out."}, n.errors)
	unchanged := core.FindBookByTitle("Scarlet")
	assert.Equal(t, CheckedOut, unchanged.Status)
	assert.Equal(t, "2024-04-24", unchanged.DueDate, "rejected transition must not touch state")
	assert.Empty(t, n.content)
}

func TestCheckInBook(t *testing.T) {
	core := seededCore()
	winter := core.FindBookByTitle("Winter")
	require.NotNil(t, winter)

	n := &mockNotifier{}
	core.CheckInBook(*winter, n)

	assert.Empty(t, n.errors)
	updated := core.FindBookByTitle("Winter")
	require.NotNil(t, updated)
	assert.Equal(t, CheckedIn, updated.Status)
	assert.Empty(t, updated.DueDate, "check-in must clear the due date")
	assert.Contains(t, n.messages[0], "Winter")
}

func TestCheckInBook_AlreadyCheckedIn(t *testing.T) {
	core := seededCore()
	cinder := core.FindBookByTitle("Cinder")
	require.NotNil(t, cinder)

	n := &mockNotifier{}
	core.CheckInBook(*cinder, n)

	assert.Equal(t, []string{"You cannot check in a book that is already checked in."}, n.errors)
	assert.Equal(t, CheckedIn, core.FindBookByTitle("Cinder").Status)
}

// A persistence failure must leave the caller's record untouched: the core
// mutates a copy and only the confirmed copy reaches the front end.
func TestCheckOutBook_PersistenceFailure(t *testing.T) {
	core := seededCore()

	phantom := Book{Barcode: 999, Title: "Phantom", Author: "Nobody", Genre: "Mystery", Status: CheckedIn}
	n := &mockNotifier{}
	core.CheckOutBook(phantom, n)

	assert.Equal(t, []string{"Unable to update book."}, n.errors)
	assert.Equal(t, CheckedIn, phantom.Status)
	assert.Empty(t, phantom.DueDate)
	assert.Empty(t, n.content, "no refreshed collection on failure")
}

func TestConfiguredLoanPeriod(t *testing.T) {
	core := seededCore().WithLoanWeeks(2)
	cress := core.FindBookByTitle("Cress")
	require.NotNil(t, cress)

	n := &mockNotifier{}
	core.CheckOutBook(*cress, n)

	wantDue := time.Now().AddDate(0, 0, 14).Format("2006-01-02")
	assert.Equal(t, wantDue, core.FindBookByTitle("Cress").DueDate)
}

func TestDueDateUsesInjectedClock(t *testing.T) {
	core := seededCore().withClock(func() time.Time {
		return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	})
	cress := core.FindBookByTitle("Cress")
	require.NotNil(t, cress)

	n := &mockNotifier{}
	core.CheckOutBook(*cress, n)

	assert.Equal(t, "2024-03-29", core.FindBookByTitle("Cress").DueDate)
}

func TestFindBookByBarcode(t *testing.T) {
	core := seededCore()

	book := core.FindBookByBarcode(3)
	require.NotNil(t, book)
	assert.Equal(t, "Cress", book.Title)

	assert.Nil(t, core.FindBookByBarcode(999))
}

func TestAddBooksToCollection_RefreshesContent(t *testing.T) {
	core := seededCore()
	before := len(core.GetLibraryBooks())

	n := &mockNotifier{}
	core.AddBooksToCollection([]Book{
		{Title: "Fairest", Author: "Marissa Meyer", Genre: "Science Fiction", Status: CheckedIn},
	}, n)

	assert.Empty(t, n.errors)
	assert.Len(t, n.lastContent(), before+1)
}

// failingRepo simulates a storage layer that accepts nothing.
type failingRepo struct{ *MemoryRepository }

func (failingRepo) InsertBooks([]Book) (int, error) { return 0, errors.New("disk full") }

func TestAddBooksToCollection_InsertFailure(t *testing.T) {
	core := NewLibraryCore(failingRepo{NewMemoryRepository()})

	n := &mockNotifier{}
	core.AddBooksToCollection([]Book{
		{Title: "Fairest", Author: "Marissa Meyer", Genre: "Science Fiction", Status: CheckedIn},
	}, n)

	assert.Equal(t, []string{"Unable to insert books."}, n.errors)
	assert.Empty(t, n.content)
}
