package relay

import (
	"context"
	"sync"

	"RentalNegotiator/internal/probe"
)

type spectrumSource struct {
	hub  *Hub
	once sync.Once
}

func (s *spectrumSource) NextSpectrum(ctx context.Context) ([]uint8, error) {
	gone := s.hub.goneChan()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-gone:
		return nil, probe.ErrSourceClosed
	case bins := <-s.hub.spectrum:
		return bins, nil
	case err := <-s.hub.failures[ToolNoise]:
		return nil, err
	}
}

func (s *spectrumSource) Close() error {
	s.once.Do(func() { s.hub.end(ToolNoise) })
	return nil
}

type orientationSource struct {
	hub  *Hub
	once sync.Once
}

func (s *orientationSource) NextOrientation(ctx context.Context) (probe.Orientation, error) {
	gone := s.hub.goneChan()
	select {
	case <-ctx.Done():
		return probe.Orientation{}, ctx.Err()
	case <-gone:
		return probe.Orientation{}, probe.ErrSourceClosed
	case o := <-s.hub.orientation:
		return o, nil
	case err := <-s.hub.failures[ToolLevel]:
		return probe.Orientation{}, err
	}
}

func (s *orientationSource) Close() error {
	s.once.Do(func() { s.hub.end(ToolLevel) })
	return nil
}
