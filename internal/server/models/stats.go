package models

// AdminStats is the dashboard summary.
type AdminStats struct {
	TotalUsers     int64            `json:"totalUsers"`
	ActiveUsers    int64            `json:"activeUsers"`
	TotalFavorites int64            `json:"totalFavorites"`
	TopCoins       []CoinPopularity `json:"topCoins"`
}
