package services

import (
	"math"
	"math/rand"
	"time"

	"salesdash/internal/models"
)

const (
	DefaultSampleDays = 240
	DefaultSampleSeed = 42

	priceNoiseStdDev = 0.06
	geoJitterStdDev  = 0.02
	meanDailyQty     = 2.0
)

var sampleEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

var sampleProducts = []struct {
	name      string
	basePrice float64
}{
	{"Laptop", 900},
	{"Phone", 600},
	{"Headset", 80},
	{"Keyboard", 70},
	{"Monitor", 220},
	{"Tablet", 350},
}

var sampleRegions = []struct {
	name   string
	weight float64
}{
	{"North", 0.30},
	{"South", 0.25},
	{"East", 0.25},
	{"West", 0.20},
}

type sampleCity struct {
	name     string
	lat, lon float64
}

var sampleCities = []sampleCity{
	{"New Delhi", 28.6139, 77.2090},
	{"Mumbai", 19.0760, 72.8777},
	{"Bengaluru", 12.9716, 77.5946},
	{"Chennai", 13.0827, 80.2707},
	{"Kolkata", 22.5726, 88.3639},
	{"Hyderabad", 17.3850, 78.4867},
	{"London", 51.5074, -0.1278},
	{"New York", 40.7128, -74.0060},
	{"San Francisco", 37.7749, -122.4194},
}

// GenerateSample builds a synthetic RowSet so the dashboard has data without
// a real source: one row per product per day, Poisson-distributed quantity,
// Gaussian price noise around each product's base price, a weighted region
// draw and a jittered city coordinate. The same (days, seed) pair always
// produces a field-identical RowSet.
func GenerateSample(days int, seed int64) models.RowSet {
	if days <= 0 {
		days = DefaultSampleDays
	}
	rng := rand.New(rand.NewSource(seed))

	rows := models.RowSet{
		Records: make([]models.Record, 0, days*len(sampleProducts)),
		HasCity: true,
		HasGeo:  true,
	}

	for d := 0; d < days; d++ {
		date := sampleEpoch.AddDate(0, 0, d)
		for _, p := range sampleProducts {
			qty := poisson(rng, meanDailyQty)
			price := round2(p.basePrice * (1 + rng.NormFloat64()*priceNoiseStdDev))
			sales := math.Max(0, round2(float64(qty)*price))
			city := sampleCities[rng.Intn(len(sampleCities))]

			rows.Records = append(rows.Records, models.Record{
				OrderDate: date,
				Product:   p.name,
				Region:    weightedRegion(rng),
				Quantity:  qty,
				UnitPrice: price,
				Sales:     sales,
				City:      city.name,
				Latitude:  city.lat + rng.NormFloat64()*geoJitterStdDev,
				Longitude: city.lon + rng.NormFloat64()*geoJitterStdDev,
			})
		}
	}

	return rows
}

// poisson draws from Poisson(lambda) by multiplying uniforms (Knuth).
func poisson(rng *rand.Rand, lambda float64) int {
	threshold := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= threshold {
			return k
		}
		k++
	}
}

func weightedRegion(rng *rand.Rand) string {
	u := rng.Float64()
	acc := 0.0
	for _, r := range sampleRegions {
		acc += r.weight
		if u < acc {
			return r.name
		}
	}
	return sampleRegions[len(sampleRegions)-1].name
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
