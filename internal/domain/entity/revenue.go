package entity

// Revenue is the revenue booked in one month
type Revenue struct {
	Month   string `json:"month" db:"month"`
	Revenue int64  `json:"revenue" db:"revenue"`
}
