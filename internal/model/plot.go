package model

import "time"

// Plot outcome statuses
const (
	PlotStatusDelivered     = "delivered"
	PlotStatusInvalidArgs   = "invalid_args"
	PlotStatusUnknownTicker = "unknown_ticker"
	PlotStatusNoData        = "no_data"
	PlotStatusFetchFailed   = "fetch_failed"
	PlotStatusBadData       = "bad_data"
	PlotStatusRenderFailed  = "render_failed"
	PlotStatusUploadFailed  = "upload_failed"
)

// PlotRecord is one handled /plot command
type PlotRecord struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ChatID    int64     `json:"chat_id"`
	Ticker    string    `json:"ticker"`
	Period    string    `json:"period"`
	Interval  string    `json:"interval"`
	URL       string    `json:"url,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
