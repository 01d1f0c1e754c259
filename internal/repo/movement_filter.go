package repo

import "time"

type MovementFilter struct {
	Since  *time.Time
	Until  *time.Time
	Offset *int
	Limit  *int
}

type PriceHistoryFilter struct {
	Offset *int
	Limit  *int
}
