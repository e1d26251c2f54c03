package engine

import (
	"context"

	"github.com/julianstephens/reflekt/internal/analytics"
	"github.com/julianstephens/reflekt/internal/constants"
	apperrors "github.com/julianstephens/reflekt/internal/errors"
	"github.com/julianstephens/reflekt/internal/models"
	"github.com/julianstephens/reflekt/internal/utils"
)

// ComputeKPIs summarizes userID's reflections over the trailing weekly or
// monthly period. It reads the stores and never writes.
func (e *Engine) ComputeKPIs(ctx context.Context, userID string, period constants.Period) (models.KPIReport, error) {
	if err := validateUser(userID); err != nil {
		return models.KPIReport{}, err
	}
	if period != constants.PeriodWeekly && period != constants.PeriodMonthly {
		return models.KPIReport{}, apperrors.Invalid("unsupported KPI period %d, want 7 or 30", int(period))
	}

	now := e.Now()
	from, to := utils.TrailingDays(now, int(period), 0, e.loc)
	events, err := e.queryEvents(ctx, userID, from, to)
	if err != nil {
		return models.KPIReport{}, err
	}

	prevFrom, prevTo := utils.TrailingDays(now, int(period), 1, e.loc)
	prev, err := e.countEvents(ctx, userID, prevFrom, prevTo)
	if err != nil {
		return models.KPIReport{}, err
	}

	return analytics.Compute(analytics.Input{
		UserID:        userID,
		Period:        period,
		Start:         from,
		End:           to,
		Events:        events,
		PreviousCount: prev,
		Location:      e.loc,
	}), nil
}
