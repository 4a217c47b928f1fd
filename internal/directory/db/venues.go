package db

import (
	"context"

	"ms-directory/internal/models"
)

// ListRecentVenues returns up to limit venues, most recently created first.
func (d *DB) ListRecentVenues(ctx context.Context, limit int) ([]models.Venue, error) {
	var venues []models.Venue
	err := d.Bun.NewSelect().
		Model(&venues).
		Order("v.id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return venues, nil
}

// SearchVenues returns every venue whose name, city, state or "city, state"
// contains term, ignoring case.
func (d *DB) SearchVenues(ctx context.Context, term string) ([]models.Venue, error) {
	var venues []models.Venue
	q := d.Bun.NewSelect().Model(&venues)
	err := searchWhere(q, "v", likePattern(term)).
		Order("v.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return venues, nil
}

func (d *DB) GetVenueByID(ctx context.Context, id int64) (*models.Venue, error) {
	var venue models.Venue
	err := d.Bun.NewSelect().
		Model(&venue).
		Where("v.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

func (d *DB) VenueExists(ctx context.Context, id int64) (bool, error) {
	return d.Bun.NewSelect().
		Model((*models.Venue)(nil)).
		Where("v.id = ?", id).
		Exists(ctx)
}

func (d *DB) CreateVenue(ctx context.Context, venue *models.Venue) error {
	venue.SearchKey = models.SearchKey(venue.Name, venue.City, venue.State)
	_, err := d.Bun.NewInsert().
		Model(venue).
		Exec(ctx)
	return err
}

// UpdateVenue overwrites every editable column of the venue with the given id.
func (d *DB) UpdateVenue(ctx context.Context, venue *models.Venue) error {
	venue.SearchKey = models.SearchKey(venue.Name, venue.City, venue.State)
	_, err := d.Bun.NewUpdate().
		Model(venue).
		Column("name", "city", "state", "address", "phone", "image_link", "genres",
			"facebook_link", "website_link", "seeking_talent", "seeking_description", "search_key").
		WherePK().
		Exec(ctx)
	return err
}

// DeleteVenue removes the venue's shows and then the venue itself.
func (d *DB) DeleteVenue(ctx context.Context, id int64) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Show)(nil)).
		Where("venue_id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = d.Bun.NewDelete().
		Model((*models.Venue)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
