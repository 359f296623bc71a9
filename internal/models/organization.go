package models

// Organization owns configurations and shipping addresses.
type Organization struct {
	Slug    string `db:"slug" json:"slug"`
	Name    string `db:"name" json:"name"`
	Channel string `db:"channel" json:"channel"`
	Email   string `db:"email" json:"email"`
	Units   int    `db:"units" json:"units"`
}
