package types

// RosterStats summarizes a roster for the dashboard header.
type RosterStats struct {
	Registered int                  `json:"registered"`
	Capacity   int                  `json:"capacity"`
	Tiers      map[Tier]int         `json:"tiers"`
	Statuses   map[MemberStatus]int `json:"statuses"`
}

// StatsOf counts members by tier and status. Every known tier and status is
// present in the result, with zero when absent.
func StatsOf(members []Member, capacity int) RosterStats {
	s := RosterStats{
		Registered: len(members),
		Capacity:   capacity,
		Tiers:      make(map[Tier]int, len(Tiers)),
		Statuses:   make(map[MemberStatus]int, 3),
	}
	for _, t := range Tiers {
		s.Tiers[t] = 0
	}
	for _, st := range []MemberStatus{StatusActive, StatusExpired, StatusSuspended} {
		s.Statuses[st] = 0
	}
	for _, m := range members {
		s.Tiers[m.Tier]++
		s.Statuses[m.Status]++
	}
	return s
}
