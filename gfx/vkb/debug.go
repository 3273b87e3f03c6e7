package vkb

import (
	"unsafe"

	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

const allReportBits = vk.DebugReportErrorBit |
	vk.DebugReportWarningBit |
	vk.DebugReportPerformanceWarningBit |
	vk.DebugReportInformationBit |
	vk.DebugReportDebugBit

// diagnostics bridges severity-tagged driver messages into the host
// logger. The callback is a bound method so the logger travels with the
// handler instead of through a raw user-data pointer.
type diagnostics struct {
	log *log.Logger
}

func (d *diagnostics) createInfo() *vk.DebugReportCallbackCreateInfo {
	return &vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(allReportBits),
		PfnCallback: d.callback,
	}
}

func (d *diagnostics) callback(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, layerPrefix string,
	message string, userData unsafe.Pointer) vk.Bool32 {

	d.log.WithFields(log.Fields{
		"layer": layerPrefix,
		"code":  messageCode,
	}).Log(severityLevel(flags), message)

	return vk.False
}

// severityLevel buckets a report's severity flags into a log level.
// Combined flags resolve to the most severe bucket present.
func severityLevel(flags vk.DebugReportFlags) log.Level {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		return log.ErrorLevel
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit|vk.DebugReportPerformanceWarningBit) != 0:
		return log.WarnLevel
	case flags&vk.DebugReportFlags(vk.DebugReportInformationBit) != 0:
		return log.DebugLevel
	default:
		return log.TraceLevel
	}
}
