package catalog

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// SourceDriver selects the kind of external database to import from.
type SourceDriver string

const (
	SourceSQLite SourceDriver = "sqlite"
	SourceMySQL  SourceDriver = "mysql"
)

// SourceForm carries user-provided connection details for an external
// database import. For SQLite only Path and Table are used; for MySQL the
// server, database name, and credentials are required.
type SourceForm struct {
	Driver   SourceDriver
	Table    string
	Path     string // SQLite file path
	Server   string // MySQL host[:port]
	Database string // MySQL database name
	Username string
	Password string
}

func (f SourceForm) dsn() (driverName, dsn string) {
	if f.Driver == SourceMySQL {
		return "mysql", fmt.Sprintf("%s:%s@tcp(%s)/%s", f.Username, f.Password, f.Server, f.Database)
	}
	return "sqlite3", fmt.Sprintf("file:%s?mode=ro", f.Path)
}

// ReadBooksFromSource bulk-reads every row of the source's book table. The
// connection is read-only from the catalog's point of view: imported rows
// come back with barcodes unset so the repository assigns fresh ones on
// commit. Rows whose status column holds an unknown value are skipped, the
// same filtering the text parser applies.
// normalizeDueDate converts whatever the source driver hands back for a
// due-date column into the catalog's plain YYYY-MM-DD string. Foreign
// schemas legitimately declare the column DATE, which the sqlite driver
// decodes as time.Time.
func normalizeDueDate(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		return v.Format(dueDateLayout)
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func ReadBooksFromSource(form SourceForm) ([]Book, error) {
	if !identPattern.MatchString(form.Table) {
		return nil, fmt.Errorf("invalid table name %q", form.Table)
	}

	driverName, dsn := form.dsn()

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open source database: %w", err)
	}
	defer db.Close()

	query := fmt.Sprintf(`SELECT title, author, genre, book_status, due_date FROM %s`, form.Table)
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query source table %s: %w", form.Table, err)
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		var book Book
		var rawStatus string
		var dueDate any
		if err := rows.Scan(&book.Title, &book.Author, &book.Genre, &rawStatus, &dueDate); err != nil {
			return nil, fmt.Errorf("scan source row: %w", err)
		}
		status, ok := ParseStatus(rawStatus)
		if !ok {
			continue
		}
		book.Status = status
		book.DueDate = normalizeDueDate(dueDate)
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read source rows: %w", err)
	}

	return books, nil
}
