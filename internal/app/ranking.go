package app

import (
	"sort"

	"smarttravel/internal/domain"
)

const (
	AttractionsPerDay = 4
	RestaurantsPerDay = 2
)

// RankPlaces returns a copy sorted by rating, then rating count, both descending.
// Equal keys keep their input order.
func RankPlaces(ps []domain.Place) []domain.Place {
	out := make([]domain.Place, len(ps))
	copy(out, ps)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].RatingOrZero(), out[j].RatingOrZero()
		if ri != rj {
			return ri > rj
		}
		return out[i].RatingsTotalOrZero() > out[j].RatingsTotalOrZero()
	})
	return out
}

// PartitionDays slices ranked lists into consecutive per-day buckets. Days past the
// end of the data get short or empty buckets.
func PartitionDays(attractions, restaurants []domain.Place, days int) []domain.DayPlan {
	if days < 0 {
		days = 0
	}
	plan := make([]domain.DayPlan, 0, days)
	for d := 0; d < days; d++ {
		plan = append(plan, domain.DayPlan{
			Day:         d + 1,
			Attractions: stripSentiment(bucket(attractions, d, AttractionsPerDay)),
			Restaurants: stripSentiment(bucket(restaurants, d, RestaurantsPerDay)),
		})
	}
	return plan
}

func bucket(ps []domain.Place, day, size int) []domain.Place {
	lo := day * size
	if lo >= len(ps) {
		return []domain.Place{}
	}
	hi := lo + size
	if hi > len(ps) {
		hi = len(ps)
	}
	return ps[lo:hi]
}

// stripSentiment copies the bucket with any attached sentiment removed.
func stripSentiment(ps []domain.Place) []domain.Place {
	out := make([]domain.Place, len(ps))
	for i, p := range ps {
		p.Sentiment = nil
		out[i] = p
	}
	return out
}
