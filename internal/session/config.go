package session

import "time"

// Config carries the server's environment-driven settings. Defaults mirror
// the protocol constants the stock clients expect.
type Config struct {
	ServerName    string        `env:"TRIVIA_SERVER_NAME" envDefault:"Mystic"`
	UDPPort       int           `env:"TRIVIA_UDP_PORT" envDefault:"13117"`
	TCPPort       int           `env:"TRIVIA_TCP_PORT" envDefault:"12345"`
	PortScanSpan  int           `env:"TRIVIA_PORT_SCAN_SPAN" envDefault:"16"`
	BroadcastAddr string        `env:"TRIVIA_BROADCAST_ADDR" envDefault:"255.255.255.255"`
	OfferCadence  time.Duration `env:"TRIVIA_OFFER_CADENCE" envDefault:"1s"`
	JoinGrace     time.Duration `env:"TRIVIA_JOIN_GRACE" envDefault:"10s"`
	AnswerWindow  time.Duration `env:"TRIVIA_ANSWER_WINDOW" envDefault:"10s"`
	Handshake     time.Duration `env:"TRIVIA_HANDSHAKE_TIMEOUT" envDefault:"10s"`
	QuestionsPath string        `env:"TRIVIA_QUESTIONS_PATH"`
	StatsPath     string        `env:"TRIVIA_STATS_PATH" envDefault:"trivia-stats.db"`
	// KickSilent removes non-responders entirely instead of grading them
	// incorrect.
	KickSilent bool `env:"TRIVIA_KICK_SILENT" envDefault:"true"`
}
