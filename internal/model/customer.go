package model

import "time"

type Customer struct {
	ID        string
	Name      string
	Email     string
	Active    bool
	CreatedAt time.Time
}

// Activity is one line of the dashboard's recent-activity feed.
type Activity struct {
	ID          int64
	Timestamp   time.Time
	Type        string
	Description string
	Status      string
}
