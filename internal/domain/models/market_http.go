package models

// Requests for the simulation HTTP endpoints. Defined in domain for
// consistency and reuse.

type TickRequest struct {
	Days int `query:"days" json:"days" default:"1" validate:"gte=1,lte=365"`
}

type NewsQueryRequest struct {
	Day   int    `query:"day" json:"day" default:"-1" validate:"gte=-1"`
	Type  string `query:"type" json:"type"`
	Limit int    `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=1000"`
}

type TriggerRequest struct {
	Symbol     string  `json:"symbol" validate:"required"`
	Phenomenon string  `json:"phenomenon" validate:"required"`
	Ratio      float64 `json:"ratio" default:"0" validate:"gte=0"`
	Tier       int     `json:"tier" default:"2" validate:"gte=1,lte=3"`
}

type FlagRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}
