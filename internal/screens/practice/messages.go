package practice

import "time"

// timerTickMsg is sent every second to count the session timer down.
type timerTickMsg time.Time
