package orchestration

import (
	"github.com/agbru/cassels/internal/config"
)

// SelectPlan determines which runs to execute: the single pair given with
// -level/-max-len, the plan file given with -plan, or the default plan.
func SelectPlan(cfg config.AppConfig) (config.Plan, error) {
	switch {
	case cfg.SingleRun():
		p := config.SingleRunPlan(cfg.Level, cfg.MaxLen)
		if err := p.Validate(); err != nil {
			return config.Plan{}, err
		}
		return p, nil
	case cfg.PlanPath != "":
		return config.LoadPlan(cfg.PlanPath)
	default:
		return config.DefaultPlan(), nil
	}
}
