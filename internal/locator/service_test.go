package locator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/healthequalizer/api/internal/platform/places"
	"github.com/healthequalizer/api/internal/testutil"
)

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		name     string
		location string
		want     Coordinate
		wantErr  error
	}{
		{name: "valid", location: "40.7,-74.0", want: Coordinate{Lat: 40.7, Lng: -74.0}},
		{name: "whitespace", location: " 51.5 , -0.12 ", want: Coordinate{Lat: 51.5, Lng: -0.12}},
		{name: "out of range is accepted", location: "123,456", want: Coordinate{Lat: 123, Lng: 456}},
		{name: "empty", location: "", wantErr: ErrMissingLocation},
		{name: "blank", location: "   ", wantErr: ErrMissingLocation},
		{name: "no comma", location: "bad-input", wantErr: ErrInvalidLocation},
		{name: "three parts", location: "1,2,3", wantErr: ErrInvalidLocation},
		{name: "non numeric", location: "north,west", wantErr: ErrInvalidLocation},
		{name: "missing lng", location: "40.7,", wantErr: ErrInvalidLocation},
		{name: "nan", location: "NaN,1", wantErr: ErrInvalidLocation},
		{name: "inf", location: "1,Inf", wantErr: ErrInvalidLocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCoordinate(tt.location)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindHospitals_UnwrapsEnvelope(t *testing.T) {
	searcher := new(testutil.MockPlacesSearcher)
	results := []json.RawMessage{
		json.RawMessage(`{"name":"Bellevue Hospital","vicinity":"462 1st Avenue"}`),
		json.RawMessage(`{"name":"NYU Langone","rating":4.5}`),
	}
	searcher.On("SearchNearby", mock.Anything, places.SearchRequest{
		Lat:          40.7,
		Lng:          -74.0,
		RadiusMeters: SearchRadiusMeters,
		Type:         PlaceType,
	}).Return(&places.Envelope{Results: results, Status: places.StatusOK}, nil)

	service := NewService(searcher)

	got, err := service.FindHospitals(context.Background(), "40.7,-74.0")

	require.NoError(t, err)
	assert.Equal(t, results, got)
	searcher.AssertExpectations(t)
}

func TestFindHospitals_NoResults(t *testing.T) {
	searcher := new(testutil.MockPlacesSearcher)
	searcher.On("SearchNearby", mock.Anything, mock.Anything).
		Return(&places.Envelope{Status: places.StatusZeroResults}, nil)

	service := NewService(searcher)

	got, err := service.FindHospitals(context.Background(), "0,0")

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFindHospitals_InvalidLocation_NoProviderCall(t *testing.T) {
	for _, location := range []string{"", "bad-input", "1;2"} {
		searcher := new(testutil.MockPlacesSearcher)
		service := NewService(searcher)

		_, err := service.FindHospitals(context.Background(), location)

		assert.Error(t, err)
		searcher.AssertNotCalled(t, "SearchNearby", mock.Anything, mock.Anything)
	}
}

func TestFindHospitals_ProviderError(t *testing.T) {
	searcher := new(testutil.MockPlacesSearcher)
	searcher.On("SearchNearby", mock.Anything, mock.Anything).
		Return(nil, errors.New("places API returned status REQUEST_DENIED"))

	service := NewService(searcher)

	_, err := service.FindHospitals(context.Background(), "40.7,-74.0")

	assert.ErrorIs(t, err, ErrProvider)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}
