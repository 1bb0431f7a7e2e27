package model

// Temporal fields hold Unix epoch seconds, the same representation the
// tables use.

type Event struct {
	ID                int64  `db:"id" json:"id"`
	Name              string `db:"event_name" json:"event_name"`
	Category          string `db:"category" json:"category"`
	RegistrationStart int64  `db:"registration_start" json:"registration_start"`
	RegistrationEnd   int64  `db:"registration_end" json:"registration_end"`
	EventDate         int64  `db:"event_date" json:"event_date"`
	Created           int64  `db:"created" json:"created"`
}

// OpenAt reports whether the registration window contains t.
func (e Event) OpenAt(t int64) bool {
	return e.RegistrationStart <= t && t <= e.RegistrationEnd
}

type Registration struct {
	ID          int64  `db:"id" json:"id"`
	EventID     int64  `db:"event_id" json:"event_id"`
	FullName    string `db:"full_name" json:"full_name"`
	Email       string `db:"email" json:"email"`
	CollegeName string `db:"college_name" json:"college_name"`
	Department  string `db:"department" json:"department"`
	Category    string `db:"category" json:"category"`
	EventDate   int64  `db:"event_date" json:"event_date"`
	EventName   string `db:"event_name" json:"event_name"`
	Created     int64  `db:"created" json:"created"`
}

// RegistrationFilter narrows registration listings. Zero values are unset.
type RegistrationFilter struct {
	EventDate int64
	EventID   int64
}

type Settings struct {
	NotifyAdmin            bool   `json:"notify_admin"`
	AdminNotificationEmail string `json:"admin_notification_email"`
}

type Category struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}
