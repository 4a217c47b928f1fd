package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"ms-directory/internal/directory"
	"ms-directory/internal/directory/db"
	"ms-directory/internal/kafka"
	"ms-directory/internal/logger"
	"ms-directory/internal/models"
)

// TxStore opens the transaction every mutation runs in.
type TxStore interface {
	InTx(ctx context.Context, fn func(ctx context.Context, tx *db.DB) error) error
}

type VenueInput struct {
	Name               string   `json:"name" validate:"required"`
	City               string   `json:"city" validate:"required"`
	State              string   `json:"state" validate:"required"`
	Address            string   `json:"address" validate:"required"`
	Phone              string   `json:"phone"`
	ImageLink          string   `json:"image_link"`
	Genres             []string `json:"genres" validate:"required,min=1,dive,required"`
	FacebookLink       string   `json:"facebook_link"`
	WebsiteLink        string   `json:"website_link"`
	SeekingTalent      bool     `json:"seeking_talent"`
	SeekingDescription string   `json:"seeking_description"`
}

type ArtistInput struct {
	Name               string   `json:"name" validate:"required"`
	City               string   `json:"city" validate:"required"`
	State              string   `json:"state" validate:"required"`
	Phone              string   `json:"phone"`
	ImageLink          string   `json:"image_link"`
	Genres             []string `json:"genres" validate:"required,min=1,dive,required"`
	FacebookLink       string   `json:"facebook_link"`
	WebsiteLink        string   `json:"website_link"`
	SeekingVenue       bool     `json:"seeking_venue"`
	SeekingDescription string   `json:"seeking_description"`
}

type ShowInput struct {
	ArtistID  int64
	VenueID   int64
	StartTime time.Time
}

// MutationService runs every create, update and delete inside one
// transaction and reports the result as an Outcome.
type MutationService struct {
	DB        TxStore
	Publisher kafka.Publisher
	Logger    *logger.Logger
	Clock     directory.Clock
}

func NewMutationService(store TxStore, publisher kafka.Publisher, log *logger.Logger, clock directory.Clock) *MutationService {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	if clock == nil {
		clock = directory.SystemClock{}
	}
	if log == nil {
		log = logger.NewWithWriter(io.Discard)
	}
	return &MutationService{DB: store, Publisher: publisher, Logger: log, Clock: clock}
}

func (s *MutationService) CreateVenue(ctx context.Context, in VenueInput) directory.Outcome {
	const op = "create venue"
	name := strings.TrimSpace(in.Name)

	var id int64
	err := s.inTx(ctx, op, func(ctx context.Context, tx *db.DB) error {
		venue, err := in.venue(op)
		if err != nil {
			return err
		}
		if err := tx.CreateVenue(ctx, venue); err != nil {
			return err
		}
		id = venue.ID
		return nil
	})
	if err != nil {
		return directory.NotListed(directory.EntityVenue, name, directory.KindOf(err))
	}

	s.publish(ctx, directory.EntityVenue, kafka.ActionCreated, id, name)
	return directory.Listed(directory.EntityVenue, name, id)
}

// UpdateVenue replaces every editable field of the venue.
func (s *MutationService) UpdateVenue(ctx context.Context, id int64, in VenueInput) directory.Outcome {
	const op = "update venue"
	name := strings.TrimSpace(in.Name)

	err := s.inTx(ctx, op, func(ctx context.Context, tx *db.DB) error {
		venue, err := in.venue(op)
		if err != nil {
			return err
		}
		exists, err := tx.VenueExists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return directory.NotFound(op, "venue %d not found", id)
		}
		venue.ID = id
		return tx.UpdateVenue(ctx, venue)
	})
	if err != nil {
		return directory.NotUpdated(directory.EntityVenue, name, directory.KindOf(err))
	}

	s.publish(ctx, directory.EntityVenue, kafka.ActionUpdated, id, name)
	return directory.Updated(directory.EntityVenue, name, id)
}

// DeleteVenue removes the venue and all of its shows.
func (s *MutationService) DeleteVenue(ctx context.Context, id int64) directory.Outcome {
	const op = "delete venue"

	var name string
	err := s.inTx(ctx, op, func(ctx context.Context, tx *db.DB) error {
		venue, err := tx.GetVenueByID(ctx, id)
		if err != nil {
			return notFoundOr(op, err, "venue %d not found", id)
		}
		name = venue.Name
		return tx.DeleteVenue(ctx, id)
	})
	if err != nil {
		return directory.NotDeleted(directory.EntityVenue, directory.KindOf(err))
	}

	s.publish(ctx, directory.EntityVenue, kafka.ActionDeleted, id, name)
	return directory.Deleted(directory.EntityVenue, id)
}

func (s *MutationService) CreateArtist(ctx context.Context, in ArtistInput) directory.Outcome {
	const op = "create artist"
	name := strings.TrimSpace(in.Name)

	var id int64
	err := s.inTx(ctx, op, func(ctx context.Context, tx *db.DB) error {
		artist, err := in.artist(op)
		if err != nil {
			return err
		}
		if err := tx.CreateArtist(ctx, artist); err != nil {
			return err
		}
		id = artist.ID
		return nil
	})
	if err != nil {
		return directory.NotListed(directory.EntityArtist, name, directory.KindOf(err))
	}

	s.publish(ctx, directory.EntityArtist, kafka.ActionCreated, id, name)
	return directory.Listed(directory.EntityArtist, name, id)
}

func (s *MutationService) UpdateArtist(ctx context.Context, id int64, in ArtistInput) directory.Outcome {
	const op = "update artist"
	name := strings.TrimSpace(in.Name)

	err := s.inTx(ctx, op, func(ctx context.Context, tx *db.DB) error {
		artist, err := in.artist(op)
		if err != nil {
			return err
		}
		exists, err := tx.ArtistExists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return directory.NotFound(op, "artist %d not found", id)
		}
		artist.ID = id
		return tx.UpdateArtist(ctx, artist)
	})
	if err != nil {
		return directory.NotUpdated(directory.EntityArtist, name, directory.KindOf(err))
	}

	s.publish(ctx, directory.EntityArtist, kafka.ActionUpdated, id, name)
	return directory.Updated(directory.EntityArtist, name, id)
}

func (s *MutationService) DeleteArtist(ctx context.Context, id int64) directory.Outcome {
	const op = "delete artist"

	var name string
	err := s.inTx(ctx, op, func(ctx context.Context, tx *db.DB) error {
		artist, err := tx.GetArtistByID(ctx, id)
		if err != nil {
			return notFoundOr(op, err, "artist %d not found", id)
		}
		name = artist.Name
		return tx.DeleteArtist(ctx, id)
	})
	if err != nil {
		return directory.NotDeleted(directory.EntityArtist, directory.KindOf(err))
	}

	s.publish(ctx, directory.EntityArtist, kafka.ActionDeleted, id, name)
	return directory.Deleted(directory.EntityArtist, id)
}

// CreateShow books an artist at a venue. Both must already exist.
func (s *MutationService) CreateShow(ctx context.Context, in ShowInput) directory.Outcome {
	const op = "create show"

	var id int64
	err := s.inTx(ctx, op, func(ctx context.Context, tx *db.DB) error {
		if in.StartTime.IsZero() {
			return directory.ConstraintViolation(op, "start_time is required")
		}

		artistExists, err := tx.ArtistExists(ctx, in.ArtistID)
		if err != nil {
			return err
		}
		if !artistExists {
			return directory.ConstraintViolation(op, "artist %d does not exist", in.ArtistID)
		}

		venueExists, err := tx.VenueExists(ctx, in.VenueID)
		if err != nil {
			return err
		}
		if !venueExists {
			return directory.ConstraintViolation(op, "venue %d does not exist", in.VenueID)
		}

		show := &models.Show{
			ArtistID:  in.ArtistID,
			VenueID:   in.VenueID,
			StartTime: in.StartTime.UTC(),
		}
		if err := tx.CreateShow(ctx, show); err != nil {
			return err
		}
		id = show.ID
		return nil
	})
	if err != nil {
		return directory.ShowNotListed(directory.KindOf(err))
	}

	s.publish(ctx, directory.EntityShow, kafka.ActionCreated, id, "")
	return directory.ShowListed(id)
}

// inTx is the envelope shared by all mutations: stage, commit, roll back on
// any failure, then log how it ended.
func (s *MutationService) inTx(ctx context.Context, op string, fn func(ctx context.Context, tx *db.DB) error) error {
	if err := s.DB.InTx(ctx, fn); err != nil {
		classified := directory.Classify(op, err)
		s.Logger.LogMutation(op, classified.Kind.String(), classified)
		return classified
	}
	s.Logger.LogMutation(op, directory.KindNone.String(), nil)
	return nil
}

// publish announces a committed change. A failed publish is logged and does
// not change the outcome, since the change is already durable.
func (s *MutationService) publish(ctx context.Context, entity, action string, id int64, name string) {
	event := kafka.NewChangeEvent(entity, action, id, name, s.Clock.Now())
	if err := s.Publisher.Publish(ctx, event); err != nil {
		s.Logger.Warn("KAFKA", fmt.Sprintf("Failed to publish %s for %s %d: %v", event.Type, event.Entity, id, err))
	}
}

// validate reports failed fields by their json names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput checks an already trimmed input against its validate tags.
func validateInput(op string, in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return directory.ConstraintViolation(op, "invalid input: %v", err)
	}
	missing := make([]string, 0, len(fieldErrs))
	seen := make(map[string]bool, len(fieldErrs))
	for _, fe := range fieldErrs {
		// dive reports genres[0], genres[1], ...
		field := strings.SplitN(fe.Field(), "[", 2)[0]
		if seen[field] {
			continue
		}
		seen[field] = true
		missing = append(missing, field)
	}
	return directory.ConstraintViolation(op, "%s required", strings.Join(missing, ", "))
}

func (in VenueInput) normalized() VenueInput {
	return VenueInput{
		Name:               strings.TrimSpace(in.Name),
		City:               strings.TrimSpace(in.City),
		State:              strings.TrimSpace(in.State),
		Address:            strings.TrimSpace(in.Address),
		Phone:              strings.TrimSpace(in.Phone),
		ImageLink:          strings.TrimSpace(in.ImageLink),
		Genres:             models.NewGenres(in.Genres...),
		FacebookLink:       strings.TrimSpace(in.FacebookLink),
		WebsiteLink:        strings.TrimSpace(in.WebsiteLink),
		SeekingTalent:      in.SeekingTalent,
		SeekingDescription: strings.TrimSpace(in.SeekingDescription),
	}
}

func (in VenueInput) venue(op string) (*models.Venue, error) {
	in = in.normalized()
	if err := validateInput(op, in); err != nil {
		return nil, err
	}
	return &models.Venue{
		Name:               in.Name,
		City:               in.City,
		State:              in.State,
		Address:            in.Address,
		Phone:              in.Phone,
		ImageLink:          in.ImageLink,
		Genres:             models.Genres(in.Genres),
		FacebookLink:       in.FacebookLink,
		WebsiteLink:        in.WebsiteLink,
		SeekingTalent:      in.SeekingTalent,
		SeekingDescription: in.SeekingDescription,
	}, nil
}

func (in ArtistInput) normalized() ArtistInput {
	return ArtistInput{
		Name:               strings.TrimSpace(in.Name),
		City:               strings.TrimSpace(in.City),
		State:              strings.TrimSpace(in.State),
		Phone:              strings.TrimSpace(in.Phone),
		ImageLink:          strings.TrimSpace(in.ImageLink),
		Genres:             models.NewGenres(in.Genres...),
		FacebookLink:       strings.TrimSpace(in.FacebookLink),
		WebsiteLink:        strings.TrimSpace(in.WebsiteLink),
		SeekingVenue:       in.SeekingVenue,
		SeekingDescription: strings.TrimSpace(in.SeekingDescription),
	}
}

func (in ArtistInput) artist(op string) (*models.Artist, error) {
	in = in.normalized()
	if err := validateInput(op, in); err != nil {
		return nil, err
	}
	return &models.Artist{
		Name:               in.Name,
		City:               in.City,
		State:              in.State,
		Phone:              in.Phone,
		ImageLink:          in.ImageLink,
		Genres:             models.Genres(in.Genres),
		FacebookLink:       in.FacebookLink,
		WebsiteLink:        in.WebsiteLink,
		SeekingVenue:       in.SeekingVenue,
		SeekingDescription: in.SeekingDescription,
	}, nil
}
