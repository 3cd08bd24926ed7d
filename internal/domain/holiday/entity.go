package holiday

import "time"

// Holiday - a public holiday that counts as a designated rest day
type Holiday struct {
	Date time.Time
	Name string
}
