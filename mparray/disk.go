package mparray

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fumin/tensor"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const (
	tableShape = "shape"
	tableLTens = "ltens"
)

// Save writes a to a SQLite database at dbPath.
// Zero entries are not stored.
func Save(dbPath string, a *MPArray) error {
	db, err := newDB(dbPath)
	if err != nil {
		return errors.Wrap(err, "")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	for site := 0; site < a.Len(); site++ {
		lt := a.LocalTensor(site)
		for axis, dim := range lt.Shape() {
			if err := setDim(ctx, db, site, axis, dim); err != nil {
				return errors.Wrap(err, "")
			}
		}
		for ijk, v := range lt.All() {
			if v == 0 {
				continue
			}
			if err := setItem(ctx, db, site, flatIndex(lt.Shape(), ijk), v); err != nil {
				return errors.Wrap(err, "")
			}
		}
	}
	return nil
}

// Load reads a matrix product array from a SQLite database at dbPath.
func Load(dbPath string) (*MPArray, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s", dbPath))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	shapes, err := readShapes(ctx, db)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}

	ltens := make([]*tensor.Dense, 0, len(shapes))
	for _, shape := range shapes {
		ltens = append(ltens, tensor.Zeros(shape...))
	}
	if err := readItems(ctx, db, shapes, ltens); err != nil {
		return nil, errors.Wrap(err, "")
	}

	a, err := New(ltens)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return a, nil
}

func readShapes(ctx context.Context, db *sql.DB) ([][]int, error) {
	sqlStr := fmt.Sprintf(`SELECT site, dim FROM %s ORDER BY site, axis`, tableShape)
	rows, err := db.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	defer rows.Close()

	shapes := make([][]int, 0)
	for rows.Next() {
		var site, dim int
		if err := rows.Scan(&site, &dim); err != nil {
			return nil, errors.Wrap(err, "")
		}
		if site != len(shapes)-1 && site != len(shapes) {
			return nil, errors.Errorf("site %d %d", site, len(shapes))
		}
		if site == len(shapes) {
			shapes = append(shapes, make([]int, 0, 3))
		}
		shapes[site] = append(shapes[site], dim)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "")
	}
	if len(shapes) == 0 {
		return nil, errors.Errorf("no sites")
	}
	return shapes, nil
}

func readItems(ctx context.Context, db *sql.DB, shapes [][]int, ltens []*tensor.Dense) error {
	sqlStr := fmt.Sprintf(`SELECT site, i, re, im FROM %s`, tableLTens)
	rows, err := db.QueryContext(ctx, sqlStr)
	if err != nil {
		return errors.Wrap(err, "")
	}
	defer rows.Close()

	ijk := make([]int, 0)
	for rows.Next() {
		var site, i int
		var re, im float32
		if err := rows.Scan(&site, &i, &re, &im); err != nil {
			return errors.Wrap(err, "")
		}
		if site < 0 || site >= len(ltens) {
			return errors.Errorf("site %d %d", site, len(ltens))
		}

		shape := shapes[site]
		ijk = ijk[:0]
		for range shape {
			ijk = append(ijk, 0)
		}
		indexDigits(shape, i, ijk)
		ltens[site].SetAt(ijk, complex(re, im))
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func setDim(ctx context.Context, db *sql.DB, site, axis, dim int) error {
	sqlStr := fmt.Sprintf(`INSERT OR REPLACE INTO %s (site, axis, dim) VALUES (?, ?, ?)`, tableShape)
	if _, err := db.ExecContext(ctx, sqlStr, site, axis, dim); err != nil {
		return errors.Wrap(err, fmt.Sprintf("%d %d %d", site, axis, dim))
	}
	return nil
}

func setItem(ctx context.Context, db *sql.DB, site, i int, v complex64) error {
	sqlStr := fmt.Sprintf(`INSERT OR REPLACE INTO %s (site, i, re, im) VALUES (?, ?, ?, ?)`, tableLTens)
	if _, err := db.ExecContext(ctx, sqlStr, site, i, real(v), imag(v)); err != nil {
		return errors.Wrap(err, fmt.Sprintf("%d %d", site, i))
	}
	return nil
}

// flatIndex returns the row-major offset of the multi-index ijk.
func flatIndex(shape, ijk []int) int {
	idx := 0
	for i, d := range shape {
		idx = idx*d + ijk[i]
	}
	return idx
}

// indexDigits writes the multi-index of the row-major offset flat into ijk.
func indexDigits(shape []int, flat int, ijk []int) {
	for i := len(shape) - 1; i >= 0; i-- {
		ijk[i] = flat % shape[i]
		flat /= shape[i]
	}
}

func newDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s", dbPath))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}

	if err := prepareDB(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "")
	}

	return db, nil
}

func prepareDB(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	for _, sqlStr := range []string{
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, tableShape),
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, tableLTens),
		fmt.Sprintf(`CREATE TABLE %s (site INTEGER, axis INTEGER, dim INTEGER, PRIMARY KEY (site, axis)) STRICT`, tableShape),
		fmt.Sprintf(`CREATE TABLE %s (site INTEGER, i INTEGER, re REAL, im REAL, PRIMARY KEY (site, i)) STRICT`, tableLTens),
	} {
		if _, err := db.ExecContext(ctx, sqlStr); err != nil {
			return errors.Wrap(err, sqlStr)
		}
	}
	return nil
}
