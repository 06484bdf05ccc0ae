package services

import (
	"context"
	"sort"
	"time"

	g "github.com/chryscloud/nexus-monitor/globals"
	"github.com/chryscloud/nexus-monitor/models"
	"github.com/chryscloud/nexus-monitor/utils"
)

const (
	DefaultCollectBudget = 5 * time.Second

	netDecimals = 2
)

// CollectorOptions - process list shaping and the time budget of one poll
type CollectorOptions struct {
	CPUThreshold float64
	MaxProcesses int
	Budget       time.Duration // 0 disables the budget
}

// CollectorOptionsFromConfig maps the agent subconfig
func CollectorOptionsFromConfig(conf *g.AgentSubconfig) CollectorOptions {
	return CollectorOptions{
		CPUThreshold: conf.CPUThreshold,
		MaxProcesses: conf.MaxProcesses,
		Budget:       g.ParseDurationOr(conf.CollectTimeout, DefaultCollectBudget),
	}
}

// Collector assembles one SystemSnapshot per call. It keeps no metrics between calls.
type Collector struct {
	source   CounterSource
	gpus     GPUSource
	opts     CollectorOptions
	now      func() time.Time
	outbound func() string
}

func NewCollector(source CounterSource, gpus GPUSource, opts CollectorOptions) *Collector {
	if gpus == nil {
		gpus = noGPUSource{}
	}
	if opts.MaxProcesses <= 0 {
		opts.MaxProcesses = g.DefaultMaxProcesses
	}
	if opts.CPUThreshold <= 0 {
		opts.CPUThreshold = g.DefaultCPUThreshold
	}
	return &Collector{
		source:   source,
		gpus:     gpus,
		opts:     opts,
		now:      time.Now,
		outbound: utils.OutboundIP,
	}
}

// Collect never fails: every sub-query degrades to defaults. When the budget runs out the
// enumerations stop early and the snapshot carries what was read.
func (c *Collector) Collect(ctx context.Context) *models.SystemSnapshot {
	if c.opts.Budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Budget)
		defer cancel()
	}

	host := c.source.Host(ctx)
	cm := c.source.CPUAndMemory(ctx)
	net := c.source.NetworkTotals(ctx)

	uptime := 0.0
	if !host.BootTime.IsZero() {
		uptime = c.now().Sub(host.BootTime).Seconds()
		if uptime < 0 {
			uptime = 0
		}
	}

	ramUsed := cm.UsedBytes
	if ramUsed > cm.TotalBytes {
		ramUsed = cm.TotalBytes
	}
	cores := cm.CoreCount
	if cores < 1 {
		cores = 1
	}

	devices := c.gpus.Devices(ctx)
	links := LinkGPUProcesses(devices)
	processes := RankProcesses(c.source.ProcessTable(ctx), links, c.opts.CPUThreshold, c.opts.MaxProcesses)

	if ctx.Err() != nil {
		g.Log.Warn("metrics collection exceeded its budget, returning partial snapshot", c.opts.Budget)
	}

	return &models.SystemSnapshot{
		Hostname:        host.Hostname,
		IPAddress:       c.outbound(),
		OSName:          host.OSName,
		UptimeSeconds:   utils.Round(uptime, 1),
		UptimeHuman:     utils.HumanizeUptime(uptime),
		CPUModel:        host.CPUModel,
		CPUUsagePercent: utils.ClampPercent(utils.Round(cm.CPUPercent, 1)),
		CPUCoreCount:    cores,
		RAMTotalGB:      utils.BytesToGB(cm.TotalBytes),
		RAMUsedGB:       utils.BytesToGB(ramUsed),
		RAMPercent:      utils.ClampPercent(utils.Round(cm.UsedPercent, 1)),
		NetSentMB:       utils.BytesToMB(net.BytesSent, netDecimals),
		NetRecvMB:       utils.BytesToMB(net.BytesRecv, netDecimals),
		GPUs:            GPUInfos(devices),
		Processes:       processes,
	}
}

// GPUInfos shapes raw devices into the wire model, ordered by device index
func GPUInfos(devices []GPUDevice) []models.GpuInfo {
	infos := make([]models.GpuInfo, 0, len(devices))
	for _, d := range devices {
		used := d.MemoryUsedBytes
		if used > d.MemoryTotalBytes {
			used = d.MemoryTotalBytes
		}
		infos = append(infos, models.GpuInfo{
			Index:                    d.Index,
			Name:                     d.Name,
			TemperatureCelsius:       int(d.TemperatureC),
			FanSpeedPercent:          int(d.FanSpeedPercent),
			PowerDrawWatts:           utils.Round(float64(d.PowerDrawMw)/1000, 1),
			CoreUtilizationPercent:   int(d.UtilizationPercent),
			MemoryTotalGB:            utils.BytesToGB(d.MemoryTotalBytes),
			MemoryUsedGB:             utils.BytesToGB(used),
			MemoryUtilizationPercent: utils.Percent(used, d.MemoryTotalBytes),
		})
	}
	sortGPUInfos(infos)
	return infos
}

func sortGPUInfos(infos []models.GpuInfo) {
	sort.SliceStable(infos, func(i, j int) bool { return infos[i].Index < infos[j].Index })
}
