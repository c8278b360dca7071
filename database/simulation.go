package database

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/agridash/models"
	"gorm.io/gorm"
)

// RunSimulation generates daily transactions for every tracked leaf at
// each of its config's enabled sources over [start, end]. Prices follow
// a bounded random walk per product/source pair and roughly one day in
// ten is skipped so the series keep realistic gaps.
func RunSimulation(db *gorm.DB, start, end time.Time) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var leaves []models.AbstractProduct
	if err := db.Preload("Unit").
		Where("track_item = ?", true).
		Find(&leaves).Error; err != nil {
		return fmt.Errorf("failed to load tracked products: %w", err)
	}
	if len(leaves) == 0 {
		return fmt.Errorf("no tracked products found, seed the catalog first")
	}

	var sources []models.Source
	if err := db.Preload("Configs").
		Where("enable = ?", true).
		Find(&sources).Error; err != nil {
		return fmt.Errorf("failed to load sources: %w", err)
	}

	// Index sources by config and type so each leaf only reports at
	// sources of its own catalog branch and price partition.
	type key struct {
		configID uint
		typeID   uint
	}
	byConfigType := make(map[key][]uint)
	for _, s := range sources {
		if s.TypeID == nil {
			continue
		}
		for _, cfg := range s.Configs {
			k := key{configID: cfg.ID, typeID: *s.TypeID}
			byConfigType[k] = append(byConfigType[k], s.ID)
		}
	}

	// Random-walk state per product/source pair
	type pair struct {
		productID uint
		sourceID  uint
	}
	price := make(map[pair]float64)
	baseVolume := make(map[pair]float64)
	hasWeight := make(map[uint]bool)

	for _, leaf := range leaves {
		if leaf.Unit != nil && leaf.Unit.WeightUnit != nil {
			hasWeight[leaf.ID] = true
		}
	}

	days := 0
	total := 0

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		var batch []models.DailyTran

		for _, leaf := range leaves {
			if leaf.ConfigID == nil || leaf.TypeID == nil {
				continue
			}

			for _, sourceID := range byConfigType[key{configID: *leaf.ConfigID, typeID: *leaf.TypeID}] {
				if rng.Float64() < 0.1 {
					continue
				}

				p := pair{productID: leaf.ID, sourceID: sourceID}
				if _, ok := price[p]; !ok {
					price[p] = 20 + rng.Float64()*80
					baseVolume[p] = 500 + rng.Float64()*9500
				}

				// Walk within ±3% a day, floored at 1
				price[p] *= 1 + (rng.Float64()-0.5)*0.06
				if price[p] < 1 {
					price[p] = 1
				}

				sid := sourceID
				tran := models.DailyTran{
					ProductID: leaf.ID,
					SourceID:  &sid,
					Date:      day,
					AvgPrice:  round2(price[p]),
					Volume:    floatPtr(round2(baseVolume[p] * (0.7 + rng.Float64()*0.6))),
				}
				if hasWeight[leaf.ID] {
					tran.AvgWeight = floatPtr(round2(1.5 + rng.Float64()*0.8))
				}
				batch = append(batch, tran)
			}
		}

		if len(batch) > 0 {
			if err := db.CreateInBatches(batch, 200).Error; err != nil {
				return fmt.Errorf("failed to insert transactions for %s: %w", day.Format("2006-01-02"), err)
			}
			total += len(batch)
		}
		days++

		if days%30 == 0 {
			log.Printf("  ... simulated %d days, %d transactions so far", days, total)
		}
	}

	log.Printf("Simulated %d days, %d transactions", days, total)
	return nil
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
