// Command flick is a terminal news swiper.
//
// Usage:
//
//	flick                   Swipe through stories (TUI)
//	flick serve             Run the JSON API
//	flick prefs             Show saved topics
//	flick prefs set a b     Save topics
//	flick stats             Engagement and swipe totals
//	flick export            Preferences and tallies as CSV
package main

func main() {
	Execute()
}
