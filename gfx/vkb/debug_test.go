package vkb

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	vk "github.com/vulkan-go/vulkan"
)

func TestSeverityLevel(t *testing.T) {
	cases := []struct {
		name  string
		flags vk.DebugReportFlags
		want  log.Level
	}{
		{"error", vk.DebugReportFlags(vk.DebugReportErrorBit), log.ErrorLevel},
		{"warning", vk.DebugReportFlags(vk.DebugReportWarningBit), log.WarnLevel},
		{"performance", vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit), log.WarnLevel},
		{"information", vk.DebugReportFlags(vk.DebugReportInformationBit), log.DebugLevel},
		{"debug", vk.DebugReportFlags(vk.DebugReportDebugBit), log.TraceLevel},
		{"error and warning", vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit), log.ErrorLevel},
		{"warning and information", vk.DebugReportFlags(vk.DebugReportWarningBit | vk.DebugReportInformationBit), log.WarnLevel},
	}

	for _, tc := range cases {
		if got := severityLevel(tc.flags); got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestDiagnosticsCallbackRoutesToLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.TraceLevel)
	d := &diagnostics{log: logger}

	d.callback(vk.DebugReportFlags(vk.DebugReportErrorBit), 0, 0, 0, 42, "validation", "bad image layout", nil)

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("no log entry emitted")
	}
	if entry.Level != log.ErrorLevel {
		t.Errorf("level = %s, want error", entry.Level)
	}
	if entry.Message != "bad image layout" {
		t.Errorf("message = %q", entry.Message)
	}
	if entry.Data["layer"] != "validation" {
		t.Errorf("layer field = %v", entry.Data["layer"])
	}
}

func TestDiagnosticsCallbackDoesNotAbort(t *testing.T) {
	logger, _ := test.NewNullLogger()
	d := &diagnostics{log: logger}

	ret := d.callback(vk.DebugReportFlags(vk.DebugReportWarningBit), 0, 0, 0, 0, "core", "slow path", nil)
	if ret != vk.False {
		t.Error("callback must not ask the driver to abort the call")
	}
}
