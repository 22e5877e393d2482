package catalog

import (
	"sort"
	"strings"
)

// Repository owns the canonical collection of books. It is the only place
// where barcode uniqueness is enforced; the core never bypasses it.
//
// Two implementations exist: MemoryRepository for tests and offline use, and
// Database backed by SQLite. Both honor the same contracts: InsertBooks
// assigns fresh barcodes and reports how many rows were persisted, lookups
// report absence through a nil book or a false flag rather than an error,
// and GetAllBooks hands back a caller-owned snapshot.
type Repository interface {
	InsertBooks(books []Book) (int, error)
	UpdateBook(book Book) (bool, error)
	DeleteBook(book Book) (bool, error)
	SearchByTitle(title string) (*Book, error)
	SearchByBarcode(barcode int64) (*Book, error)
	GetAllBooks() ([]Book, error)
	Close() error
}

// MemoryRepository keeps the collection in a map keyed by barcode. It stands
// in for the relational store during tests and offline runs. nextBarcode
// only ever grows, mirroring the relational store's AUTOINCREMENT: keys
// freed by deletion are never handed out again.
type MemoryRepository struct {
	books       map[int64]Book
	nextBarcode int64
}

// NewMemoryRepository returns an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{books: make(map[int64]Book), nextBarcode: 1}
}

// NewSeededMemoryRepository returns an in-memory store preloaded with the
// given books. Seed books keep their barcodes; later inserts continue above
// the highest seeded key.
func NewSeededMemoryRepository(seed []Book) *MemoryRepository {
	repo := NewMemoryRepository()
	for _, book := range seed {
		repo.books[book.Barcode] = book
		if book.Barcode >= repo.nextBarcode {
			repo.nextBarcode = book.Barcode + 1
		}
	}
	return repo
}

// InsertBooks assigns a fresh barcode to every incoming book and stores it.
func (r *MemoryRepository) InsertBooks(books []Book) (int, error) {
	inserted := 0
	for _, book := range books {
		book.Barcode = r.nextBarcode
		r.nextBarcode++
		r.books[book.Barcode] = book
		inserted++
	}
	return inserted, nil
}

// UpdateBook replaces the stored book with the same barcode wholesale.
// Reports false with no side effect when the barcode is unknown.
func (r *MemoryRepository) UpdateBook(book Book) (bool, error) {
	if _, ok := r.books[book.Barcode]; !ok {
		return false, nil
	}
	r.books[book.Barcode] = book
	return true, nil
}

// DeleteBook removes the book with the same barcode.
func (r *MemoryRepository) DeleteBook(book Book) (bool, error) {
	if _, ok := r.books[book.Barcode]; !ok {
		return false, nil
	}
	delete(r.books, book.Barcode)
	return true, nil
}

// SearchByTitle returns the first case-insensitive exact title match in
// barcode order, or nil. With duplicate titles the winner is simply the
// lowest barcode.
func (r *MemoryRepository) SearchByTitle(title string) (*Book, error) {
	books, _ := r.GetAllBooks()
	for i := range books {
		if strings.EqualFold(books[i].Title, title) {
			return &books[i], nil
		}
	}
	return nil, nil
}

// SearchByBarcode returns the book with the given barcode, or nil.
func (r *MemoryRepository) SearchByBarcode(barcode int64) (*Book, error) {
	if book, ok := r.books[barcode]; ok {
		return &book, nil
	}
	return nil, nil
}

// GetAllBooks returns a snapshot sorted by barcode. Mutating the returned
// slice never touches the store.
func (r *MemoryRepository) GetAllBooks() ([]Book, error) {
	books := make([]Book, 0, len(r.books))
	for _, book := range r.books {
		books = append(books, book)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].Barcode < books[j].Barcode })
	return books, nil
}

// Close is a no-op for the in-memory store.
func (r *MemoryRepository) Close() error { return nil }
