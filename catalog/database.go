package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	_ "github.com/mattn/go-sqlite3"
)

// Database is the SQLite-backed Repository. It enforces the same contracts
// as MemoryRepository but with durable storage: barcodes come from the
// AUTOINCREMENT primary key, so deleted keys are never reused, and an absent
// due date is a true NULL rather than an empty string.
type Database struct {
	db    *sql.DB
	table string

	insertBookStmt *sql.Stmt
}

var _ Repository = (*Database)(nil)

// identPattern restricts table names to plain SQL identifiers. Table names
// come from configuration and user forms and are interpolated into
// statements, so anything fancier is rejected outright.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NewDatabase opens (or creates) the SQLite database at dbPath, creates the
// books table on first run, and prepares common statements.
func NewDatabase(dbPath, table string) (*Database, error) {
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	// Enable busy_timeout and foreign keys.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applySchema(db, table); err != nil {
		db.Close()
		return nil, err
	}

	database := &Database{db: db, table: table}
	if err := database.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return database, nil
}

// Close releases prepared statements and closes the DB.
func (d *Database) Close() error {
	if d.insertBookStmt != nil {
		d.insertBookStmt.Close()
	}
	return d.db.Close()
}

func applySchema(db *sql.DB, table string) error {
	// WAL improves write concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// due_date is declared TEXT, not DATE: the sqlite driver decodes
	// DATE-typed columns as time.Time, which would mangle the plain
	// YYYY-MM-DD strings the catalog stores. NULL still represents absence.
	create := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
        barcode INTEGER PRIMARY KEY AUTOINCREMENT,
        title TEXT NOT NULL,
        author TEXT NOT NULL,
        genre TEXT NOT NULL DEFAULT '',
        book_status TEXT NOT NULL,
        due_date TEXT
    );`, table)
	if _, err := tx.Exec(create); err != nil {
		return fmt.Errorf("create books table: %w", err)
	}

	return tx.Commit()
}

func (d *Database) prepareStatements() error {
	var err error
	insert := fmt.Sprintf(`INSERT INTO %s(title,author,genre,book_status,due_date) VALUES(?,?,?,?,?)`, d.table)
	if d.insertBookStmt, err = d.db.Prepare(insert); err != nil {
		return err
	}
	return nil
}

// dueDateValue maps the empty string to NULL for storage.
func dueDateValue(book Book) sql.NullString {
	return sql.NullString{String: book.DueDate, Valid: book.DueDate != ""}
}

// InsertBooks persists the whole batch in one transaction: every row commits
// together or none do. Returns the total number of rows inserted.
func (d *Database) InsertBooks(books []Book) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt := tx.Stmt(d.insertBookStmt)
	defer stmt.Close()

	inserted := 0
	for _, book := range books {
		if _, err := stmt.Exec(book.Title, book.Author, book.Genre, string(book.Status), dueDateValue(book)); err != nil {
			return 0, fmt.Errorf("insert book %q: %w", book.Title, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// UpdateBook replaces the stored row with the same barcode wholesale.
// Reports false with no side effect when the barcode is unknown.
func (d *Database) UpdateBook(book Book) (bool, error) {
	update := fmt.Sprintf(`UPDATE %s SET title=?, author=?, genre=?, book_status=?, due_date=? WHERE barcode=?`, d.table)
	res, err := d.db.Exec(update, book.Title, book.Author, book.Genre, string(book.Status), dueDateValue(book), book.Barcode)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// DeleteBook removes the row with the same barcode.
func (d *Database) DeleteBook(book Book) (bool, error) {
	del := fmt.Sprintf(`DELETE FROM %s WHERE barcode=?`, d.table)
	res, err := d.db.Exec(del, book.Barcode)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func scanBook(scanner interface{ Scan(...any) error }) (Book, error) {
	var book Book
	var status string
	var dueDate sql.NullString
	if err := scanner.Scan(&book.Barcode, &book.Title, &book.Author, &book.Genre, &status, &dueDate); err != nil {
		return Book{}, err
	}
	book.Status = Status(status)
	if dueDate.Valid {
		book.DueDate = dueDate.String
	}
	return book, nil
}

// SearchByTitle returns the first case-insensitive exact title match in
// barcode order, or nil.
func (d *Database) SearchByTitle(title string) (*Book, error) {
	query := fmt.Sprintf(`SELECT barcode,title,author,genre,book_status,due_date FROM %s WHERE title=? COLLATE NOCASE ORDER BY barcode LIMIT 1`, d.table)
	book, err := scanBook(d.db.QueryRow(query, title))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// SearchByBarcode returns the book with the given barcode, or nil.
func (d *Database) SearchByBarcode(barcode int64) (*Book, error) {
	query := fmt.Sprintf(`SELECT barcode,title,author,genre,book_status,due_date FROM %s WHERE barcode=?`, d.table)
	book, err := scanBook(d.db.QueryRow(query, barcode))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetAllBooks returns every book ordered by barcode.
func (d *Database) GetAllBooks() ([]Book, error) {
	query := fmt.Sprintf(`SELECT barcode,title,author,genre,book_status,due_date FROM %s ORDER BY barcode`, d.table)
	rows, err := d.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}
