package db

import (
	"context"

	"github.com/uptrace/bun"

	"ms-directory/internal/models"
)

func (d *DB) CreateShow(ctx context.Context, show *models.Show) error {
	_, err := d.Bun.NewInsert().
		Model(show).
		Exec(ctx)
	return err
}

// GetShowByID loads one show with its venue and artist.
func (d *DB) GetShowByID(ctx context.Context, id int64) (*models.Show, error) {
	var show models.Show
	err := d.Bun.NewSelect().
		Model(&show).
		Relation("Venue").
		Relation("Artist").
		Where("s.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &show, nil
}

// ListShows returns every show, most recently created first, with its venue
// and artist loaded.
func (d *DB) ListShows(ctx context.Context) ([]models.Show, error) {
	var shows []models.Show
	err := d.Bun.NewSelect().
		Model(&shows).
		Relation("Venue").
		Relation("Artist").
		Order("s.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return shows, nil
}

// ShowsAtVenue returns the venue's shows with the performing artist loaded.
func (d *DB) ShowsAtVenue(ctx context.Context, venueID int64) ([]models.Show, error) {
	var shows []models.Show
	err := d.Bun.NewSelect().
		Model(&shows).
		Relation("Artist").
		Where("s.venue_id = ?", venueID).
		Order("s.start_time ASC", "s.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return shows, nil
}

// ShowsByArtist returns the artist's shows with the hosting venue loaded.
func (d *DB) ShowsByArtist(ctx context.Context, artistID int64) ([]models.Show, error) {
	var shows []models.Show
	err := d.Bun.NewSelect().
		Model(&shows).
		Relation("Venue").
		Where("s.artist_id = ?", artistID).
		Order("s.start_time ASC", "s.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return shows, nil
}

// ShowTimesForVenues loads the owner ids and start times of every show held
// at one of the given venues.
func (d *DB) ShowTimesForVenues(ctx context.Context, venueIDs []int64) ([]models.Show, error) {
	return d.showTimes(ctx, "venue_id", venueIDs)
}

func (d *DB) ShowTimesForArtists(ctx context.Context, artistIDs []int64) ([]models.Show, error) {
	return d.showTimes(ctx, "artist_id", artistIDs)
}

func (d *DB) showTimes(ctx context.Context, column string, ids []int64) ([]models.Show, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var shows []models.Show
	err := d.Bun.NewSelect().
		Model(&shows).
		Column("s.id", "s.venue_id", "s.artist_id", "s.start_time").
		Where("s.? IN (?)", bun.Ident(column), bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return shows, nil
}

func (d *DB) CountShows(ctx context.Context) (int, error) {
	return d.Bun.NewSelect().
		Model((*models.Show)(nil)).
		Count(ctx)
}
