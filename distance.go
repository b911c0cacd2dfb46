package main

import (
	"math"
	"sort"
)

const earthRadiusKm = 6371.0

// haversine returns the great-circle distance in km between two points.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180)
	dLon := (lon2 - lon1) * (math.Pi / 180)
	lat1 = lat1 * (math.Pi / 180)
	lat2 = lat2 * (math.Pi / 180)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// annotateDistances returns a new slice with Distance computed for every
// candidate where both sides have coordinates. A missing coordinate on
// either side leaves Distance nil; nil is a first-class outcome, not zero.
func annotateDistances(cands []Candidate, viewer *Coordinates) []Candidate {
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if viewer != nil && c.Latitude != nil && c.Longitude != nil {
			d := haversine(viewer.Lat, viewer.Lon, *c.Latitude, *c.Longitude)
			c.Distance = &d
		}
		out = append(out, c)
	}
	return out
}

// filterByRadius keeps candidates whose computed distance is within maxKm.
// Candidates without a distance cannot satisfy a radius constraint and are
// dropped.
func filterByRadius(cands []Candidate, maxKm float64) []Candidate {
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if c.Distance != nil && *c.Distance <= maxKm {
			out = append(out, c)
		}
	}
	return out
}

// sortByDistance orders ascending by distance. Any remaining nil distance
// sorts after all numeric distances; ties keep their relational order.
func sortByDistance(cands []Candidate) []Candidate {
	out := make([]Candidate, len(cands))
	copy(out, cands)
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].Distance, out[j].Distance
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return *di < *dj
		}
	})
	return out
}
