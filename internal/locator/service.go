// Package locator finds healthcare providers near a coordinate.
package locator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/healthequalizer/api/internal/platform/metrics"
	"github.com/healthequalizer/api/internal/platform/places"
)

// Fixed search parameters for provider lookups.
const (
	SearchRadiusMeters = 5000
	PlaceType          = "hospital"
)

var (
	ErrMissingLocation = errors.New("location parameter is required")
	ErrInvalidLocation = errors.New("invalid location format, expected lat,lng")
	ErrProvider        = errors.New("places provider failed")
)

// Searcher runs a nearby search against the places provider.
type Searcher interface {
	SearchNearby(ctx context.Context, search places.SearchRequest) (*places.Envelope, error)
}

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64
	Lng float64
}

// ParseCoordinate parses "lat,lng". Whitespace around either part is
// ignored. Values are not range checked.
func ParseCoordinate(location string) (Coordinate, error) {
	if strings.TrimSpace(location) == "" {
		return Coordinate{}, ErrMissingLocation
	}

	parts := strings.Split(location, ",")
	if len(parts) != 2 {
		return Coordinate{}, ErrInvalidLocation
	}

	lat, err := parseDegrees(parts[0])
	if err != nil {
		return Coordinate{}, err
	}
	lng, err := parseDegrees(parts[1])
	if err != nil {
		return Coordinate{}, err
	}

	return Coordinate{Lat: lat, Lng: lng}, nil
}

func parseDegrees(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidLocation
	}
	return v, nil
}

// Service looks up hospitals around a location.
type Service struct {
	searcher Searcher
}

// NewService creates a new locator service instance
func NewService(searcher Searcher) *Service {
	return &Service{searcher: searcher}
}

// FindHospitals returns the raw place records within SearchRadiusMeters of
// location. The provider is only called once location parses. A search with
// no matches yields an empty, non-nil slice.
func (s *Service) FindHospitals(ctx context.Context, location string) ([]json.RawMessage, error) {
	coord, err := ParseCoordinate(location)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	envelope, err := s.searcher.SearchNearby(ctx, places.SearchRequest{
		Lat:          coord.Lat,
		Lng:          coord.Lng,
		RadiusMeters: SearchRadiusMeters,
		Type:         PlaceType,
	})
	metrics.ObserveProviderCall(metrics.ProviderPlaces, start, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}

	if envelope == nil || envelope.Results == nil {
		return []json.RawMessage{}, nil
	}
	return envelope.Results, nil
}
