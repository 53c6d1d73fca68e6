// Package broadcast carries committed actions toward other players. The
// wire protocol does not exist yet; the log publisher stands in for it so
// the rest of the app already routes every action through a Publisher.
package broadcast

import (
	"log"

	"github.com/mp2468/tarkov-tactical-map/internal/board"
)

// LogPublisher prints each action it receives. It is the stock Publisher
// until a real transport lands.
type LogPublisher struct{}

// NewLogPublisher returns a publisher that only logs.
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

// Publish implements board.Publisher.
func (p *LogPublisher) Publish(a board.Action) {
	if a.ExpireAt.IsZero() {
		log.Printf("broadcast: %s %s by %s (%.0f,%.0f)->(%.0f,%.0f) permanent",
			a.Tool, a.ID, a.AuthorName, a.Start.X, a.Start.Y, a.End.X, a.End.Y)
		return
	}
	log.Printf("broadcast: %s %s by %s (%.0f,%.0f)->(%.0f,%.0f) until %s",
		a.Tool, a.ID, a.AuthorName, a.Start.X, a.Start.Y, a.End.X, a.End.Y,
		a.ExpireAt.Format("15:04:05"))
}
