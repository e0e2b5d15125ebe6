package model

// Listing is a free-game entry relayed from the upstream feed bot.
type Listing struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	GameURL     string  `json:"game_url,omitempty"`
	Platform    string  `json:"platform"`
	Genre       string  `json:"genre"`
	GameType    string  `json:"game_type"`
	Store       string  `json:"store,omitempty"`
	FreeUntil   *string `json:"free_until"`
	Source      string  `json:"source,omitempty"`
}

// GameSummary is one row of the listing API's game list.
// The API is loosely typed: numeric fields may arrive as JSON strings.
type GameSummary struct {
	ID            any    `json:"id"`
	Title         string `json:"title"`
	Platform      string `json:"platform"`
	AverageRating any    `json:"average_rating"`
}

// Rating is a review submitted through the listing API.
type Rating struct {
	GameID     int     `json:"game_id"`
	UserID     string  `json:"user_id"`
	Story      int     `json:"story_rating"`
	Gameplay   int     `json:"gameplay_rating"`
	Graphics   int     `json:"graphics_rating"`
	Soundtrack int     `json:"soundtrack_rating"`
	ReviewText *string `json:"review_text"`
}

// PlatformStats mirrors the listing API's /stats payload.
type PlatformStats struct {
	TotalGames   any `json:"total_games"`
	FreeGames    any `json:"free_games"`
	ActivePromos any `json:"active_promos"`
	TotalUsers   any `json:"total_users"`
	AvgRating    any `json:"avg_rating"`
	TotalRatings any `json:"total_ratings"`
}
