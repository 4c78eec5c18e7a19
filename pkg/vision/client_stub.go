package vision

import "context"

// StubClient is an in-memory Client for tests.
type StubClient struct {
	Reply string
	Err   error

	LastImage       []byte
	LastContentType string
}

func (s *StubClient) ExtractEvent(_ context.Context, image []byte, contentType string) (string, error) {
	s.LastImage = image
	s.LastContentType = contentType
	if s.Err != nil {
		return "", s.Err
	}
	return s.Reply, nil
}
