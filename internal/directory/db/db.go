package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"ms-directory/internal/models"
)

// DB wraps either the root connection pool or an open transaction, so every
// read and write helper works the same way inside and outside InTx.
type DB struct {
	Bun bun.IDB
}

func New(bunDB bun.IDB) *DB {
	return &DB{Bun: bunDB}
}

// InTx runs fn in a single transaction. The transaction commits when fn
// returns nil and rolls back on an error or panic; it is released either way.
func (d *DB) InTx(ctx context.Context, fn func(ctx context.Context, tx *DB) error) error {
	return d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &DB{Bun: tx})
	})
}

// CreateSchema creates the venues, artists and shows tables. Shows carry
// foreign keys that cascade when the owning venue or artist is deleted.
func (d *DB) CreateSchema(ctx context.Context) error {
	for _, model := range []interface{}{(*models.Venue)(nil), (*models.Artist)(nil)} {
		if _, err := d.Bun.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}

	_, err := d.Bun.NewCreateTable().
		Model((*models.Show)(nil)).
		IfNotExists().
		ForeignKey(`("venue_id") REFERENCES "venues" ("id") ON DELETE CASCADE`).
		ForeignKey(`("artist_id") REFERENCES "artists" ("id") ON DELETE CASCADE`).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create table for shows: %w", err)
	}

	for _, column := range []string{"venue_id", "artist_id"} {
		_, err := d.Bun.NewCreateIndex().
			Model((*models.Show)(nil)).
			Index("shows_" + column + "_idx").
			IfNotExists().
			Column(column).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("create index on shows.%s: %w", column, err)
		}
	}
	return nil
}

// DropSchema removes the tables in reverse dependency order.
func (d *DB) DropSchema(ctx context.Context) error {
	for _, model := range []interface{}{(*models.Show)(nil), (*models.Artist)(nil), (*models.Venue)(nil)} {
		if _, err := d.Bun.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("drop table for %T: %w", model, err)
		}
	}
	return nil
}

// likePattern turns a search term into a lowercase LIKE pattern matching it
// anywhere. LIKE wildcards in the term are matched literally. Line breaks are
// dropped so a term never spans the name and area lines of a search key.
func likePattern(term string) string {
	term = strings.NewReplacer("\r", "", "\n", "").Replace(strings.ToLower(term))
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}

// searchWhere matches the pattern against the row's search key, which holds
// name, city, state and "city, state" already lowercased.
func searchWhere(q *bun.SelectQuery, alias, pattern string) *bun.SelectQuery {
	return q.Where("?.search_key LIKE ? ESCAPE '\\'", bun.Ident(alias), pattern)
}
