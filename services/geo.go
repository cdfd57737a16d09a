package services

import (
	"math"

	"github.com/yeremiapane/realestate-app/models"
	"github.com/yeremiapane/realestate-app/repository"
)

const (
	earthRadiusKm   = 6371.0
	defaultRadiusKm = 5.0
	maxNearbyRadius = 100.0
)

// distanceKm is the great-circle distance between two points.
func distanceKm(lng1, lat1, lng2, lat2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// boundingBox returns a box that contains every point within radiusKm of
// the centre. Near the antimeridian MinLng > MaxLng and the box wraps.
func boundingBox(lng, lat, radiusKm float64) repository.BoundingBox {
	toDeg := func(r float64) float64 { return r * 180 / math.Pi }
	angular := radiusKm / earthRadiusKm
	dLat := toDeg(angular)
	box := repository.BoundingBox{
		MinLat: math.Max(lat-dLat, -90),
		MaxLat: math.Min(lat+dLat, 90),
		MinLng: -180,
		MaxLng: 180,
	}

	// longitude spread is widest at the edge nearest the pole
	poleward := math.Max(math.Abs(box.MinLat), math.Abs(box.MaxLat))
	cos := math.Cos(poleward * math.Pi / 180)
	if cos < 1e-9 || math.Sin(angular) >= cos {
		return box
	}
	dLng := toDeg(math.Asin(math.Sin(angular) / cos))
	box.MinLng = normalizeLng(lng - dLng)
	box.MaxLng = normalizeLng(lng + dLng)
	return box
}

// normalizeLng maps a longitude into [-180, 180].
func normalizeLng(lng float64) float64 {
	switch {
	case lng < -180:
		return lng + 360
	case lng > 180:
		return lng - 360
	}
	return lng
}

type NearbyProperty struct {
	models.Property
	DistanceKm float64 `json:"distanceKm"`
}
