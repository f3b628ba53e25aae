package accuracy

import (
	"context"
	"errors"
	"fmt"

	"bitbucket.org/tallyworks/counts_backend/models"
	"github.com/sirupsen/logrus"
)

// MergeSeason merges one store's freshly computed record set into the season
// ledger with a subtract-old-add-new delta, so reprocessing a store is
// idempotent:
//
//   - Insert (no prior snapshot for store+key): add the full totals to the
//     season row, increment StoreCount, write the snapshot.
//   - Update (prior snapshot exists): add (new − prior) to the season row,
//     StoreCount unchanged, overwrite the snapshot.
//
// A prior snapshot without a season row is corrupt state: the merge reports
// an integrity error and aborts; nothing is persisted (cmd/season-rebuild is
// the recovery path). The whole merge runs in one transaction.
func (e *Engine) MergeSeason(ctx context.Context, result *LoadResult) error {
	ctx, span := tracer.Start(ctx, "accuracy.MergeSeason")
	defer span.End()

	err := e.store.Transact(ctx, func(s AggregateStore) error {
		for _, rec := range result.Employees {
			if err := mergeEmployee(ctx, s, result, rec); err != nil {
				return err
			}
		}
		for _, rec := range result.Zones {
			if err := mergeZone(ctx, s, result, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if models.ErrorKindOf(err) == "" {
			err = models.NewIOError("season_merge", err)
		}
		return err
	}

	e.logger.WithFields(logrus.Fields{
		"module":   "accuracy",
		"store_id": result.StoreId,
	}).Info("season ledger merged")
	return nil
}

func mergeEmployee(ctx context.Context, s AggregateStore, result *LoadResult, rec *EmployeeAccuracy) error {
	key := fmt.Sprintf("store=%s employee=%s", result.StoreId, rec.EmployeeId)

	prior, err := s.EmployeeSnapshot(ctx, result.StoreId, rec.EmployeeId)
	if err != nil {
		return wrapIO("employee_snapshot", err)
	}
	season, err := s.EmployeeSeason(ctx, rec.EmployeeId)
	if err != nil {
		return wrapIO("employee_season", err)
	}
	next := rec.Snapshot(result.StoreId, result.CountDate)

	if prior == nil {
		if season == nil {
			season = &models.EmployeeSeasonTotal{EmployeeId: rec.EmployeeId}
		}
		season.TotalTags += next.TotalTags
		season.TotalQuantity = season.TotalQuantity.Add(next.TotalQuantity)
		season.TotalPrice = season.TotalPrice.Add(next.TotalPrice)
		season.DiscrepancyDollars = season.DiscrepancyDollars.Add(next.DiscrepancyDollars)
		season.DiscrepancyTags += next.DiscrepancyTags
		season.Hours = season.Hours.Add(next.Hours)
		season.StoreCount++
	} else {
		if season == nil {
			return models.NewIntegrityError("season_merge", key,
				errors.New("store snapshot exists but season row is missing; run season-rebuild"))
		}
		season.TotalTags += next.TotalTags - prior.TotalTags
		season.TotalQuantity = season.TotalQuantity.Add(next.TotalQuantity.Sub(prior.TotalQuantity))
		season.TotalPrice = season.TotalPrice.Add(next.TotalPrice.Sub(prior.TotalPrice))
		season.DiscrepancyDollars = season.DiscrepancyDollars.Add(next.DiscrepancyDollars.Sub(prior.DiscrepancyDollars))
		season.DiscrepancyTags += next.DiscrepancyTags - prior.DiscrepancyTags
		season.Hours = season.Hours.Add(next.Hours.Sub(prior.Hours))
		// The store already contributed to this row.
	}
	season.Name = rec.Name

	if err := s.SaveEmployeeSeason(ctx, season); err != nil {
		return wrapIO("save_employee_season", err)
	}
	if err := s.SaveEmployeeSnapshot(ctx, next); err != nil {
		return wrapIO("save_employee_snapshot", err)
	}
	return nil
}

func mergeZone(ctx context.Context, s AggregateStore, result *LoadResult, rec *ZoneAccuracy) error {
	key := fmt.Sprintf("store=%s zone=%d", result.StoreId, rec.ZoneId)

	prior, err := s.ZoneSnapshot(ctx, result.StoreId, rec.ZoneId)
	if err != nil {
		return wrapIO("zone_snapshot", err)
	}
	season, err := s.ZoneSeason(ctx, rec.ZoneId)
	if err != nil {
		return wrapIO("zone_season", err)
	}
	next := rec.Snapshot(result.StoreId, result.CountDate)

	if prior == nil {
		if season == nil {
			season = &models.ZoneSeasonTotal{ZoneId: rec.ZoneId}
		}
		season.TotalTags += next.TotalTags
		season.TotalQuantity = season.TotalQuantity.Add(next.TotalQuantity)
		season.TotalPrice = season.TotalPrice.Add(next.TotalPrice)
		season.DiscrepancyDollars = season.DiscrepancyDollars.Add(next.DiscrepancyDollars)
		season.DiscrepancyTags += next.DiscrepancyTags
		season.StoreCount++
	} else {
		if season == nil {
			return models.NewIntegrityError("season_merge", key,
				errors.New("store snapshot exists but season row is missing; run season-rebuild"))
		}
		season.TotalTags += next.TotalTags - prior.TotalTags
		season.TotalQuantity = season.TotalQuantity.Add(next.TotalQuantity.Sub(prior.TotalQuantity))
		season.TotalPrice = season.TotalPrice.Add(next.TotalPrice.Sub(prior.TotalPrice))
		season.DiscrepancyDollars = season.DiscrepancyDollars.Add(next.DiscrepancyDollars.Sub(prior.DiscrepancyDollars))
		season.DiscrepancyTags += next.DiscrepancyTags - prior.DiscrepancyTags
	}
	season.Name = rec.Name

	if err := s.SaveZoneSeason(ctx, season); err != nil {
		return wrapIO("save_zone_season", err)
	}
	if err := s.SaveZoneSnapshot(ctx, next); err != nil {
		return wrapIO("save_zone_snapshot", err)
	}
	return nil
}
