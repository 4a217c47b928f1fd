package models

import (
	"github.com/uptrace/bun"
)

type Venue struct {
	bun.BaseModel `bun:"table:venues,alias:v"`

	ID                 int64  `bun:"id,pk,autoincrement" json:"id"`
	Name               string `bun:"name,notnull,unique" json:"name"`
	City               string `bun:"city,notnull" json:"city"`
	State              string `bun:"state,notnull" json:"state"`
	Address            string `bun:"address,notnull" json:"address"`
	Phone              string `bun:"phone,nullzero" json:"phone,omitempty"`
	ImageLink          string `bun:"image_link,nullzero" json:"image_link,omitempty"`
	Genres             Genres `bun:"genres,type:text,notnull" json:"genres"`
	FacebookLink       string `bun:"facebook_link,nullzero" json:"facebook_link,omitempty"`
	WebsiteLink        string `bun:"website_link,nullzero" json:"website_link,omitempty"`
	SeekingTalent      bool   `bun:"seeking_talent,notnull,default:false" json:"seeking_talent"`
	SeekingDescription string `bun:"seeking_description,nullzero" json:"seeking_description,omitempty"`
	SearchKey          string `bun:"search_key,notnull" json:"-"`

	Shows []*Show `bun:"rel:has-many,join:id=venue_id" json:"-"`
}

// AreaKey identifies the city/state area a venue belongs to, ignoring case.
func (v *Venue) AreaKey() string {
	return AreaKey(v.City, v.State)
}
