// Package sysmon samples system-wide CPU and memory usage. The search
// metrics record a sample after every wave so that long plans can be
// correlated with machine load.
package sysmon

import (
	"context"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats is one system-wide usage sample, in percent.
type Stats struct {
	CPUPercent float64
	MemPercent float64
}

// Sample reads CPU usage since the previous call and current memory usage.
// Fields that cannot be read are left at zero.
func Sample(ctx context.Context) Stats {
	var s Stats
	if pcts, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = pcts[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil && vm != nil {
		s.MemPercent = vm.UsedPercent
	}
	return s
}
