package services

import (
	"context"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	g "github.com/chryscloud/nexus-monitor/globals"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

const (
	UnknownCPUModel = "Unknown CPU"
	UnknownValue    = "Unknown"
	SystemUser      = "system"
)

// HostSource reads OS counters through gopsutil. Values that never change while the
// process runs (cpu model, core count, os name, hostname) are read once.
type HostSource struct {
	hostname  string
	osName    string
	cpuModel  string
	coreCount int

	// process handles are kept between polls so cpu percent is a delta since the previous poll
	handles map[int32]*process.Process
	mux     sync.Mutex
}

func NewHostSource() *HostSource {
	ctx := context.Background()
	hs := &HostSource{
		hostname:  UnknownValue,
		osName:    osName(runtime.GOOS, ""),
		cpuModel:  UnknownCPUModel,
		coreCount: runtime.NumCPU(),
		handles:   make(map[int32]*process.Process),
	}

	if info, err := host.InfoWithContext(ctx); err == nil {
		if info.Hostname != "" {
			hs.hostname = info.Hostname
		}
		hs.osName = osName(runtime.GOOS, info.KernelVersion)
	} else {
		g.Log.Warn("failed to read host info", err)
		if name, hErr := os.Hostname(); hErr == nil {
			hs.hostname = name
		}
	}

	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 && infos[0].ModelName != "" {
		hs.cpuModel = strings.TrimSpace(infos[0].ModelName)
	} else if err != nil {
		g.Log.Warn("failed to read cpu model", err)
	}

	if cores, err := cpu.CountsWithContext(ctx, true); err == nil && cores > 0 {
		hs.coreCount = cores
	}

	// primes the system-wide cpu percent so the first poll reports a delta
	cpu.PercentWithContext(ctx, 0, false)
	// same for per-process cpu, kept in handles
	hs.ProcessTable(ctx)

	return hs
}

// osName renders e.g. "Linux 6.1.0-18-amd64"
func osName(goos, release string) string {
	name := goos
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	if release == "" {
		return name
	}
	return name + " " + release
}

func (hs *HostSource) Host(ctx context.Context) HostInfo {
	info := HostInfo{
		Hostname: hs.hostname,
		OSName:   hs.osName,
		CPUModel: hs.cpuModel,
	}
	if boot, err := host.BootTimeWithContext(ctx); err == nil && boot > 0 {
		info.BootTime = time.Unix(int64(boot), 0)
	}
	return info
}

func (hs *HostSource) CPUAndMemory(ctx context.Context) CPUMemory {
	cm := CPUMemory{CoreCount: hs.coreCount}
	if pct, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pct) > 0 {
		cm.CPUPercent = pct[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		cm.TotalBytes = vm.Total
		cm.UsedBytes = vm.Used
		cm.UsedPercent = vm.UsedPercent
	}
	return cm
}

func (hs *HostSource) NetworkTotals(ctx context.Context) NetTotals {
	counters, err := psnet.IOCountersWithContext(ctx, false)
	if err != nil || len(counters) == 0 {
		return NetTotals{}
	}
	return NetTotals{
		BytesSent: counters[0].BytesSent,
		BytesRecv: counters[0].BytesRecv,
	}
}

func (hs *HostSource) ProcessTable(ctx context.Context) []RawProcess {
	pids, err := process.PidsWithContext(ctx)
	if err != nil {
		g.Log.Warn("failed to list processes", err)
		return nil
	}

	var totalMemory uint64
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		totalMemory = vm.Total
	}

	hs.mux.Lock()
	defer hs.mux.Unlock()

	seen := make(map[int32]*process.Process, len(pids))
	records := make([]RawProcess, 0, len(pids))
	complete := true
	for _, pid := range pids {
		if ctx.Err() != nil {
			complete = false
			break
		}
		p, ok := hs.handles[pid]
		if !ok {
			p, err = process.NewProcessWithContext(ctx, pid)
			if err != nil {
				continue
			}
		}
		record, ok := readProcess(ctx, p, totalMemory)
		if !ok {
			continue
		}
		seen[pid] = p
		records = append(records, record)
	}

	if complete {
		hs.handles = seen
	} else {
		for pid, p := range seen {
			hs.handles[pid] = p
		}
	}
	return records
}

// readProcess returns false when the process vanished or cannot be inspected
func readProcess(ctx context.Context, p *process.Process, totalMemory uint64) (RawProcess, bool) {
	name, err := p.NameWithContext(ctx)
	if err != nil {
		return RawProcess{}, false
	}
	cpuPercent, err := p.PercentWithContext(ctx, 0)
	if err != nil {
		return RawProcess{}, false
	}

	record := RawProcess{
		PID:        p.Pid,
		Username:   SystemUser,
		Name:       name,
		CPUPercent: cpuPercent,
	}
	if user, err := p.UsernameWithContext(ctx); err == nil && user != "" {
		record.Username = user
	}
	if args, err := p.CmdlineSliceWithContext(ctx); err == nil {
		record.Args = args
	}
	if memInfo, err := p.MemoryInfoWithContext(ctx); err == nil && memInfo != nil && totalMemory > 0 {
		record.MemoryPercent = float64(memInfo.RSS) / float64(totalMemory) * 100
	}
	return record, true
}
