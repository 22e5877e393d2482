package catalog

// Notifier is the seam between the core and whatever front end is attached
// (console, GUI, or a test double). The core reports every outcome through
// it and never returns an error across it.
type Notifier interface {
	// Message displays an informational message.
	Message(text string)
	// Error displays a user-facing error message.
	Error(text string)
	// ConfirmDelete asks the user to confirm removal of the given book.
	ConfirmDelete(text string, book Book) bool
	// UpdateContent replaces the front end's view of the collection.
	UpdateContent(books []Book)
	// PreviewBooks shows newly read books before they are committed and
	// reports whether the user accepted them.
	PreviewBooks(books []Book) bool
}
