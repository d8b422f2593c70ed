package server

import "mmr-history/internal/chart"

const (
	HistoryServicePath = "/mmr.v1.HistoryService/"

	CreateSessionProcedure    = HistoryServicePath + "CreateSession"
	SelectPrimaryProcedure    = HistoryServicePath + "SelectPrimary"
	ToggleComparisonProcedure = HistoryServicePath + "ToggleComparison"
	GetViewProcedure          = HistoryServicePath + "GetView"
)

type CreateSessionRequest struct{}

type SessionRequest struct {
	SessionID string `json:"session_id"`
}

type SelectPrimaryRequest struct {
	SessionID string `json:"session_id"`
	Player    string `json:"player"`
}

type ViewResponse struct {
	SessionID         string       `json:"session_id"`
	Primary           string       `json:"primary"`
	ComparisonEnabled bool         `json:"comparison_enabled"`
	ComparisonPlayer  string       `json:"comparison_player,omitempty"`
	Charts            chart.Charts `json:"charts"`
}
