package listing

import (
	"math/rand/v2"

	"github.com/shopspring/decimal"

	"github.com/joefazee/globeguide/models"
)

// RegionStat summarizes one region.
type RegionStat struct {
	Region     models.Region    `json:"region"`
	Countries  int              `json:"country_count"`
	Population int64            `json:"total_population"`
	Share      decimal.Decimal  `json:"population_share"`
	Density    decimal.Decimal  `json:"density"`
	Members    []models.Country `json:"-"`
}

// RegionStats groups countries by region in models.Regions order. Share is
// the percentage of the world population, Density people per km² over the
// countries that report an area. Both are rounded to two places. Countries
// without a region are skipped and missing populations count as zero.
func RegionStats(countries []models.Country) []RegionStat {
	byRegion := make(map[models.Region]*RegionStat, len(models.Regions))
	area := make(map[models.Region]decimal.Decimal, len(models.Regions))
	populated := make(map[models.Region]int64, len(models.Regions))
	var world int64

	for _, r := range models.Regions {
		byRegion[r] = &RegionStat{Region: r}
	}

	for _, c := range countries {
		st, ok := byRegion[c.Region]
		if !ok {
			continue
		}
		st.Countries++
		st.Members = append(st.Members, c)

		pop, _ := c.PopulationValue()
		st.Population += pop
		world += pop

		if a, ok := c.AreaValue(); ok && a > 0 {
			area[c.Region] = area[c.Region].Add(decimal.NewFromFloat(a))
			populated[c.Region] += pop
		}
	}

	out := make([]RegionStat, 0, len(models.Regions))
	for _, r := range models.Regions {
		st := byRegion[r]
		if world > 0 {
			st.Share = decimal.NewFromInt(st.Population).
				Mul(decimal.NewFromInt(100)).
				DivRound(decimal.NewFromInt(world), 2)
		}
		if a := area[r]; a.IsPositive() {
			st.Density = decimal.NewFromInt(populated[r]).DivRound(a, 2)
		}
		out = append(out, *st)
	}
	return out
}

// Featured picks up to n distinct countries at random.
func Featured(countries []models.Country, n int, rng *rand.Rand) []models.Country {
	if n <= 0 || len(countries) == 0 {
		return nil
	}
	idx := rng.Perm(len(countries))
	n = min(n, len(countries))

	out := make([]models.Country, 0, n)
	for _, i := range idx[:n] {
		out = append(out, countries[i])
	}
	return out
}
