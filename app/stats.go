package app

import "time"

// Stats counts frames and the time between them.
type Stats struct {
	Frames    uint64
	LastFrame time.Duration
	Total     time.Duration
}

func (s *Stats) record(delta time.Duration) {
	s.Frames++
	s.LastFrame = delta
	s.Total += delta
}

func (s Stats) AverageFrame() time.Duration {
	if s.Frames == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Frames)
}
