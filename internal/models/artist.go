package models

import (
	"github.com/uptrace/bun"
)

type Artist struct {
	bun.BaseModel `bun:"table:artists,alias:a"`

	ID                 int64  `bun:"id,pk,autoincrement" json:"id"`
	Name               string `bun:"name,notnull,unique" json:"name"`
	City               string `bun:"city,notnull" json:"city"`
	State              string `bun:"state,notnull" json:"state"`
	Phone              string `bun:"phone,nullzero" json:"phone,omitempty"`
	Genres             Genres `bun:"genres,type:text,notnull" json:"genres"`
	ImageLink          string `bun:"image_link,nullzero" json:"image_link,omitempty"`
	FacebookLink       string `bun:"facebook_link,nullzero" json:"facebook_link,omitempty"`
	WebsiteLink        string `bun:"website_link,nullzero" json:"website_link,omitempty"`
	SeekingVenue       bool   `bun:"seeking_venue,notnull,default:false" json:"seeking_venue"`
	SeekingDescription string `bun:"seeking_description,nullzero" json:"seeking_description,omitempty"`
	SearchKey          string `bun:"search_key,notnull" json:"-"`

	Shows []*Show `bun:"rel:has-many,join:id=artist_id" json:"-"`
}
