package memory

import (
	"context"
	"slices"
)

type pushTokenStore struct{ d *DB }

func (s *pushTokenStore) Add(_ context.Context, userID, token string) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	set, ok := s.d.pushTokens[userID]
	if !ok {
		set = make(map[string]struct{})
		s.d.pushTokens[userID] = set
	}
	set[token] = struct{}{}
	return nil
}

func (s *pushTokenStore) Remove(_ context.Context, userID, token string) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	delete(s.d.pushTokens[userID], token)
	return nil
}

func (s *pushTokenStore) RemoveTokens(_ context.Context, tokens []string) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	for _, set := range s.d.pushTokens {
		for _, t := range tokens {
			delete(set, t)
		}
	}
	return nil
}

func (s *pushTokenStore) TokensByUserIDs(_ context.Context, userIDs []string) (map[string][]string, error) {
	s.d.mu.RLock()
	defer s.d.mu.RUnlock()

	out := make(map[string][]string)
	for _, id := range userIDs {
		for t := range s.d.pushTokens[id] {
			out[id] = append(out[id], t)
		}
		slices.Sort(out[id])
	}
	return out, nil
}
