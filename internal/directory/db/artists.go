package db

import (
	"context"

	"ms-directory/internal/models"
)

// ListRecentArtists returns up to limit artists, most recently created first.
// Only id and name are loaded.
func (d *DB) ListRecentArtists(ctx context.Context, limit int) ([]models.Artist, error) {
	var artists []models.Artist
	err := d.Bun.NewSelect().
		Model(&artists).
		Column("a.id", "a.name").
		Order("a.id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return artists, nil
}

func (d *DB) SearchArtists(ctx context.Context, term string) ([]models.Artist, error) {
	var artists []models.Artist
	q := d.Bun.NewSelect().Model(&artists)
	err := searchWhere(q, "a", likePattern(term)).
		Order("a.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return artists, nil
}

func (d *DB) GetArtistByID(ctx context.Context, id int64) (*models.Artist, error) {
	var artist models.Artist
	err := d.Bun.NewSelect().
		Model(&artist).
		Where("a.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &artist, nil
}

func (d *DB) ArtistExists(ctx context.Context, id int64) (bool, error) {
	return d.Bun.NewSelect().
		Model((*models.Artist)(nil)).
		Where("a.id = ?", id).
		Exists(ctx)
}

func (d *DB) CreateArtist(ctx context.Context, artist *models.Artist) error {
	artist.SearchKey = models.SearchKey(artist.Name, artist.City, artist.State)
	_, err := d.Bun.NewInsert().
		Model(artist).
		Exec(ctx)
	return err
}

func (d *DB) UpdateArtist(ctx context.Context, artist *models.Artist) error {
	artist.SearchKey = models.SearchKey(artist.Name, artist.City, artist.State)
	_, err := d.Bun.NewUpdate().
		Model(artist).
		Column("name", "city", "state", "phone", "genres", "image_link",
			"facebook_link", "website_link", "seeking_venue", "seeking_description", "search_key").
		WherePK().
		Exec(ctx)
	return err
}

// DeleteArtist removes the artist's shows and then the artist itself.
func (d *DB) DeleteArtist(ctx context.Context, id int64) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Show)(nil)).
		Where("artist_id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = d.Bun.NewDelete().
		Model((*models.Artist)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
