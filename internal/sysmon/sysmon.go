// Package sysmon provides system-wide CPU and memory usage sampling, used to
// keep threshold calibration away from a busy machine.
package sysmon

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}

// SampleOver measures CPU usage across interval, blocking for its duration.
func SampleOver(ctx context.Context, interval time.Duration) (Stats, error) {
	var s Stats
	cpuPcts, err := cpu.PercentWithContext(ctx, interval, false)
	if err != nil {
		return s, err
	}
	if len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return s, err
	}
	s.MemPercent = vmem.UsedPercent
	return s, nil
}

// WaitForQuiet samples the CPU every interval until its usage drops to
// maxCPU percent or attempts samples were taken. It returns the last sample
// and whether the machine was quiet.
func WaitForQuiet(ctx context.Context, maxCPU float64, interval time.Duration, attempts int) (Stats, bool) {
	var last Stats
	for range max(attempts, 1) {
		s, err := SampleOver(ctx, interval)
		if err != nil {
			return last, false
		}
		last = s
		if s.CPUPercent <= maxCPU {
			return s, true
		}
	}
	return last, false
}

// CPUModel returns the model name of the first CPU, or "" when unknown.
func CPUModel() string {
	infos, err := cpu.Info()
	if err != nil || len(infos) == 0 {
		return ""
	}
	return infos[0].ModelName
}
