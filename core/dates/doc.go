// Package dates provides calendar-date helpers for night-based occupancy.
//
// A calendar date is represented as a time.Time at midnight UTC. Time-of-day and
// the original location are discarded once a value has been converted with Civil,
// so two dates can be compared with Equal, Before and After directly.
//
// # Windows
//
// Window is an inclusive [From, To] pair of calendar dates, used for every
// reconciliation and availability query. DefaultWindow derives one relative to
// "today" in a unit's local time zone.
//
// # Usage
//
//	loc := dates.LoadLocation("America/Cancun")
//	today := dates.Today(time.Now(), loc)
//	w := dates.DefaultWindow(today, 60, 180)
//	checkIn, err := dates.Parse("2024-04-10")
package dates
