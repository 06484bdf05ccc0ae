package utils

import (
	"fmt"
	"math"
	"strings"
)

const (
	bytesPerMegabyte = 1024 * 1024
	bytesPerGigabyte = 1024 * 1024 * 1024

	MaxCommandLength = 60
	commandEllipsis  = "..."
	commandArgsLimit = 3
)

// Round rounds v to the given number of decimal places
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// BytesToGB converts bytes to gigabytes rounded to one decimal
func BytesToGB(b uint64) float64 {
	return Round(float64(b)/bytesPerGigabyte, 1)
}

// BytesToMB converts bytes to megabytes rounded to the given decimals
func BytesToMB(b uint64, places int) float64 {
	return Round(float64(b)/bytesPerMegabyte, places)
}

// Percent returns part/total*100 rounded to one decimal, 0 when total is 0
func Percent(part, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return ClampPercent(Round(float64(part)/float64(total)*100, 1))
}

// ClampPercent keeps a percentage within [0,100]
func ClampPercent(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// HumanizeUptime formats seconds as e.g. "3d 4h 12m". Days and hours are omitted while zero.
func HumanizeUptime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(seconds)
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// BuildCommand joins the first three arguments as they are, falling back to name when they
// are all blank. The result is truncated to MaxCommandLength characters.
func BuildCommand(args []string, name string) string {
	if len(args) > commandArgsLimit {
		args = args[:commandArgsLimit]
	}
	cmd := strings.Join(args, " ")
	if strings.TrimSpace(cmd) == "" {
		cmd = name
	}
	return TruncateCommand(cmd)
}

// TruncateCommand cuts commands longer than MaxCommandLength to 57 characters plus "..."
func TruncateCommand(cmd string) string {
	runes := []rune(cmd)
	if len(runes) <= MaxCommandLength {
		return cmd
	}
	return string(runes[:MaxCommandLength-len(commandEllipsis)]) + commandEllipsis
}
