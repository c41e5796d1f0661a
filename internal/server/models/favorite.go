package models

import "time"

// Favorite links a user to a coin by id only.
type Favorite struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	CoinID    string    `json:"coinId"`
	CreatedAt time.Time `json:"createdAt"`
}

// CoinPopularity is the number of users that favorited a coin.
type CoinPopularity struct {
	CoinID string `json:"coinId"`
	Count  int64  `json:"count"`
}
