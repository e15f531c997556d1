// Command lectern manages worship service programs: an always-available
// live queue plus saved schedules of songs, announcements, Bible passages
// and grouped verse slides, presented frame by frame over a local
// websocket API.
package main
