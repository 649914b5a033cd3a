package telemetry

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/host"

	"github.com/namastexlabs/automagik-telemetry/internal/config"
)

const (
	sdkName    = "automagik-telemetry"
	sdkVersion = "0.2.0"
)

// resourceAttributes builds the resource context attached to every event.
// Host facts come from the OS when available; configured attributes are
// merged last so they can override anything detected here.
func resourceAttributes(cfg *config.Config) map[string]string {
	attrs := map[string]string{
		"service.name":           cfg.ProjectName,
		"service.namespace":      cfg.Organization,
		"service.version":        cfg.ProjectVersion,
		"project.name":           cfg.ProjectName,
		"project.version":        cfg.ProjectVersion,
		"deployment.environment": cfg.Environment,
		"telemetry.sdk.name":     sdkName,
		"telemetry.sdk.version":  sdkVersion,
		"telemetry.sdk.language": "go",
		"process.runtime.name":   "go",
		"process.runtime.version": runtime.Version(),
	}

	if info, err := host.Info(); err == nil {
		attrs["host.name"] = info.Hostname
		attrs["os.type"] = info.OS
		attrs["os.version"] = info.PlatformVersion
		if info.Platform != "" {
			attrs["os.name"] = info.Platform
		}
	} else {
		attrs["os.type"] = runtime.GOOS
	}

	for k, v := range cfg.ResourceAttributes {
		attrs[k] = v
	}
	return attrs
}
