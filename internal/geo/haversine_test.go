package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMetersZero(t *testing.T) {
	assert.Zero(t, DistanceMeters(0, 0, 0, 0))
	assert.Zero(t, DistanceMeters(13.0827, 80.2707, 13.0827, 80.2707))
}

func TestDistanceMetersOneDegreeLatitude(t *testing.T) {
	// One degree of latitude is ~111,195 m on a 6,371 km sphere.
	d := DistanceMeters(0, 0, 1, 0)
	assert.InEpsilon(t, 111195, d, 0.01)
}

func TestDistanceMetersSymmetric(t *testing.T) {
	cases := []struct {
		lat1, lon1, lat2, lon2 float64
	}{
		{13.0827, 80.2707, 13.0830, 80.2710},
		{12.9, 80.1, 13.0, 80.2},
		{-33.8688, 151.2093, 51.5074, -0.1278},
	}
	for _, tc := range cases {
		fwd := DistanceMeters(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
		rev := DistanceMeters(tc.lat2, tc.lon2, tc.lat1, tc.lon1)
		assert.Equal(t, fwd, rev)
	}
}

func TestDistanceMetersKnownPoints(t *testing.T) {
	// ~15 m apart near Chennai.
	d := DistanceMeters(12.9, 80.1, 12.9001, 80.1001)
	assert.Less(t, d, 200.0)
	assert.Greater(t, d, 10.0)

	// ~15 km apart.
	far := DistanceMeters(12.9, 80.1, 13.0, 80.2)
	assert.Greater(t, far, 10000.0)
	assert.False(t, math.IsNaN(far))
}

func TestValidCoordinates(t *testing.T) {
	assert.True(t, ValidCoordinates(0, 0))
	assert.True(t, ValidCoordinates(-90, 180))
	assert.True(t, ValidCoordinates(90, -180))
	assert.False(t, ValidCoordinates(90.1, 0))
	assert.False(t, ValidCoordinates(-91, 0))
	assert.False(t, ValidCoordinates(0, 180.5))
	assert.False(t, ValidCoordinates(0, -181))
}
