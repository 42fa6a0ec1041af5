// seed-import loads catalog fixture data (CSV files) into the database.
// Expected files in the data directory: category.csv, genre.csv,
// titles.csv, genre_title.csv. Rows that already exist are skipped, so
// the import is safe to re-run.
package main

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	log.Println("Starting catalog import...")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	dataDir := "data"
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	categories, err := importSlugged(tx, filepath.Join(dataDir, "category.csv"), "categories")
	if err != nil {
		log.Fatalf("Failed to import categories: %v", err)
	}
	log.Printf("Imported %d categories", categories)

	genres, err := importSlugged(tx, filepath.Join(dataDir, "genre.csv"), "genres")
	if err != nil {
		log.Fatalf("Failed to import genres: %v", err)
	}
	log.Printf("Imported %d genres", genres)

	titles, err := importTitles(tx, filepath.Join(dataDir, "titles.csv"))
	if err != nil {
		log.Fatalf("Failed to import titles: %v", err)
	}
	log.Printf("Imported %d titles", titles)

	links, err := importTitleGenres(tx, filepath.Join(dataDir, "genre_title.csv"))
	if err != nil {
		log.Fatalf("Failed to import title-genre links: %v", err)
	}
	log.Printf("Created %d title-genre links", links)

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}
	log.Println("Import complete")
}

// readCSV opens a file and returns its rows minus the header. Column
// order follows the header row.
func readCSV(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err = r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, col := range header {
		if col == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("column %q not found in header %v", name, header)
}

// importSlugged handles the category and genre files, which share the
// id,name,slug layout.
func importSlugged(tx *sql.Tx, path, table string) (int, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}
	idIdx, err := columnIndex(header, "id")
	if err != nil {
		return 0, err
	}
	nameIdx, err := columnIndex(header, "name")
	if err != nil {
		return 0, err
	}
	slugIdx, err := columnIndex(header, "slug")
	if err != nil {
		return 0, err
	}

	count := 0
	stmt := fmt.Sprintf(
		"INSERT INTO %s (id, name, slug) VALUES ($1, $2, $3) ON CONFLICT (slug) DO NOTHING", table)
	for _, row := range rows {
		res, err := tx.Exec(stmt, row[idIdx], row[nameIdx], row[slugIdx])
		if err != nil {
			return count, fmt.Errorf("insert into %s: %w", table, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			count++
		}
	}
	if err := bumpSequence(tx, table); err != nil {
		return count, err
	}
	return count, nil
}

func importTitles(tx *sql.Tx, path string) (int, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}
	idIdx, err := columnIndex(header, "id")
	if err != nil {
		return 0, err
	}
	nameIdx, err := columnIndex(header, "name")
	if err != nil {
		return 0, err
	}
	yearIdx, err := columnIndex(header, "year")
	if err != nil {
		return 0, err
	}
	categoryIdx, err := columnIndex(header, "category")
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range rows {
		year, err := strconv.Atoi(row[yearIdx])
		if err != nil {
			return count, fmt.Errorf("title %s: bad year %q", row[idIdx], row[yearIdx])
		}
		res, err := tx.Exec(
			"INSERT INTO titles (id, name, year, category_id) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING",
			row[idIdx], row[nameIdx], year, row[categoryIdx])
		if err != nil {
			return count, fmt.Errorf("insert title %s: %w", row[idIdx], err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			count++
		}
	}
	if err := bumpSequence(tx, "titles"); err != nil {
		return count, err
	}
	return count, nil
}

func importTitleGenres(tx *sql.Tx, path string) (int, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}
	titleIdx, err := columnIndex(header, "title_id")
	if err != nil {
		return 0, err
	}
	genreIdx, err := columnIndex(header, "genre_id")
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range rows {
		res, err := tx.Exec(
			"INSERT INTO title_genres (title_id, genre_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			row[titleIdx], row[genreIdx])
		if err != nil {
			return count, fmt.Errorf("link title %s genre %s: %w", row[titleIdx], row[genreIdx], err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			count++
		}
	}
	return count, nil
}

// bumpSequence moves the id sequence past any explicitly inserted ids so
// later API-created rows do not collide.
func bumpSequence(tx *sql.Tx, table string) error {
	stmt := fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE(MAX(id), 1)) FROM %s", table, table)
	if _, err := tx.Exec(stmt); err != nil {
		return fmt.Errorf("bump %s sequence: %w", table, err)
	}
	return nil
}
