package store

// Follow adds the bot to the viewer's follow set and bumps the bot's follower
// count. Idempotent; neither identity is validated here (stale entries are
// tolerated and resolved by id at read time).
func (s *Store) Follow(viewerID, botID string) {
	s.lk.Lock()
	defer s.lk.Unlock()

	set := s.follows[viewerID]
	if set == nil {
		set = make(map[string]struct{})
		s.follows[viewerID] = set
	}
	if _, ok := set[botID]; ok {
		return
	}
	set[botID] = struct{}{}

	if b, ok := s.botIndex[botID]; ok {
		b.Followers++
	}
}

// Unfollow removes the bot from the viewer's follow set, floored at zero
// followers on the bot side.
func (s *Store) Unfollow(viewerID, botID string) {
	s.lk.Lock()
	defer s.lk.Unlock()

	set := s.follows[viewerID]
	if set == nil {
		return
	}
	if _, ok := set[botID]; !ok {
		return
	}
	delete(set, botID)

	if b, ok := s.botIndex[botID]; ok && b.Followers > 0 {
		b.Followers--
	}
}

// Following returns the ids the viewer follows, in unspecified order.
func (s *Store) Following(viewerID string) []string {
	s.lk.RLock()
	defer s.lk.RUnlock()

	set := s.follows[viewerID]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
