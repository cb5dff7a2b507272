package diagnostics

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"opencode-diag/internal/domain"
)

// errGPUUnsupported marks platforms without a GPU query facility.
var errGPUUnsupported = errors.New("gpu monitoring unavailable on this platform")

// gpuUnsupportedDetails is shown where no query facility exists.
const gpuUnsupportedDetails = "GPU monitoring only available on Windows"

// gpuInfo describes one enumerated video controller.
type gpuInfo struct {
	name         string
	usagePercent float64
	hasUsage     bool
}

// gpuProber enumerates video controllers where the platform supports it.
type gpuProber interface {
	Probe(ctx context.Context) ([]gpuInfo, error)
}

// checkGPU lists controllers and grades the busiest one's utilization.
// Controllers without a usage reading are listed by name only.
func (c *Checker) checkGPU(ctx context.Context) domain.CheckResult {
	const name = "GPU"

	gpus, err := c.gpu.Probe(ctx)
	if err != nil {
		if errors.Is(err, errGPUUnsupported) {
			return domain.NewCheckResult(name, domain.CheckStatusInactive, gpuUnsupportedDetails)
		}
		return domain.NewCheckResult(name, domain.CheckStatusWarning, fmt.Sprintf("Could not get GPU usage: %v", err))
	}
	if len(gpus) == 0 {
		return domain.NewCheckResult(name, domain.CheckStatusInactive, "No GPU detected")
	}

	labels := make([]string, 0, len(gpus))
	var maxUsage float64
	for _, g := range gpus {
		label := shortenGPUName(g.name)
		if g.hasUsage {
			label = fmt.Sprintf("%s: %d%%", label, int(g.usagePercent))
			if g.usagePercent > maxUsage {
				maxUsage = g.usagePercent
			}
		}
		labels = append(labels, label)
	}

	status := domain.CheckStatusOk
	switch {
	case maxUsage > 95:
		status = domain.CheckStatusError
	case maxUsage > 80:
		status = domain.CheckStatusWarning
	}
	return domain.NewCheckResult(name, status, strings.Join(labels, " :: "))
}

// shortenGPUName reduces vendor marketing names to a compact display label.
func shortenGPUName(name string) string {
	name = strings.TrimSpace(name)

	if strings.Contains(name, "Intel") {
		if strings.Contains(name, "UHD") {
			if model := digitsAfter(name, "UHD"); model != "" {
				return "Intel UHD " + model
			}
			return "Intel UHD"
		}
		if strings.Contains(name, "Iris") {
			return "Intel Iris"
		}
		return "Intel GPU"
	}

	if strings.Contains(name, "NVIDIA") || strings.Contains(name, "GeForce") {
		if model := modelAfter(name, "RTX"); model != "" {
			return "RTX " + model
		}
		if model := modelAfter(name, "GTX"); model != "" {
			return "GTX " + model
		}
		name = strings.ReplaceAll(name, "NVIDIA ", "")
		return strings.ReplaceAll(name, "GeForce ", "")
	}

	if strings.Contains(name, "AMD") || strings.Contains(name, "Radeon") {
		if model := modelAfter(name, "RX"); model != "" {
			return "RX " + model
		}
		return strings.ReplaceAll(name, "AMD ", "")
	}

	if len(name) > 20 {
		return name[:20] + "..."
	}
	return name
}

// digitsAfter returns the first digit run following the marker substring.
func digitsAfter(s, marker string) string {
	_, rest, found := strings.Cut(s, marker)
	if !found {
		return ""
	}
	start := strings.IndexFunc(rest, isASCIIDigit)
	if start < 0 {
		return ""
	}
	rest = rest[start:]
	if end := strings.IndexFunc(rest, func(r rune) bool { return !isASCIIDigit(r) }); end >= 0 {
		rest = rest[:end]
	}
	return rest
}

// modelAfter returns the alphanumeric model designation following the
// marker substring, e.g. "4080 Ti" after "RTX".
func modelAfter(s, marker string) string {
	_, rest, found := strings.Cut(s, marker)
	if !found {
		return ""
	}
	rest = strings.TrimLeft(rest, " \t")
	if end := strings.IndexFunc(rest, func(r rune) bool {
		return !isASCIIDigit(r) && !isASCIILetter(r) && r != ' '
	}); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

// isASCIIDigit reports whether r is an ASCII decimal digit.
func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isASCIILetter reports whether r is an ASCII letter.
func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
