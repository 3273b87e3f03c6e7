package vkb

import (
	"errors"
	"testing"
)

func TestNegotiateIncludesRequiredExtensions(t *testing.T) {
	params, err := negotiateInstance(
		[]string{"VK_KHR_surface", "VK_KHR_xlib_surface"},
		nil, nil, false, "linux")
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"VK_KHR_surface", "VK_KHR_xlib_surface"} {
		if !containsString(params.Extensions, want) {
			t.Errorf("missing required extension %q", want)
		}
	}
	if len(params.Layers) != 0 {
		t.Errorf("no layers should be requested without validation, got %v", params.Layers)
	}
	if containsString(params.Extensions, debugReportExtName) {
		t.Error("debug extension requested without validation")
	}
}

func TestNegotiateValidationLayerPresent(t *testing.T) {
	available := []string{"VK_LAYER_MESA_overlay", validationLayerName}
	params, err := negotiateInstance([]string{"VK_KHR_surface"}, available, nil, true, "linux")
	if err != nil {
		t.Fatal(err)
	}

	if !containsString(params.Layers, validationLayerName) {
		t.Errorf("validation layer not requested, got %v", params.Layers)
	}
	if !containsString(params.Extensions, debugReportExtName) {
		t.Error("debug extension not requested alongside validation")
	}
}

func TestNegotiateValidationLayerAbsent(t *testing.T) {
	available := []string{"VK_LAYER_MESA_overlay"}
	_, err := negotiateInstance([]string{"VK_KHR_surface"}, available, nil, true, "linux")
	if !errors.Is(err, ErrUnsupportedValidationLayer) {
		t.Errorf("got %v, want ErrUnsupportedValidationLayer", err)
	}
}

func TestPortabilitySupport(t *testing.T) {
	withExt := []string{"VK_KHR_surface", portabilityEnumerationExtName}
	withoutExt := []string{"VK_KHR_surface"}

	p := portabilitySupport("darwin", withExt)
	if !p.Enabled() {
		t.Fatal("portability should activate on darwin with the loader extension present")
	}
	if !containsString(p.InstanceExtensions, portabilityEnumerationExtName) ||
		!containsString(p.InstanceExtensions, physicalDeviceProps2ExtName) {
		t.Errorf("unexpected instance extensions %v", p.InstanceExtensions)
	}
	if !containsString(p.DeviceExtensions, portabilitySubsetExtName) {
		t.Errorf("unexpected device extensions %v", p.DeviceExtensions)
	}
	if p.Flags&instanceCreateEnumeratePortabilityBit == 0 {
		t.Error("portability enumeration flag not set")
	}

	if portabilitySupport("darwin", withoutExt).Enabled() {
		t.Error("portability should not activate on an old loader")
	}
	if portabilitySupport("linux", withExt).Enabled() {
		t.Error("portability should not activate off darwin")
	}
}

func TestNegotiatePortabilityFlagsPropagate(t *testing.T) {
	available := []string{portabilityEnumerationExtName}
	params, err := negotiateInstance([]string{"VK_EXT_metal_surface"}, nil, available, false, "darwin")
	if err != nil {
		t.Fatal(err)
	}

	if params.Flags&instanceCreateEnumeratePortabilityBit == 0 {
		t.Error("instance flags missing portability enumeration bit")
	}
	if !containsString(params.Extensions, portabilityEnumerationExtName) {
		t.Errorf("portability extension not negotiated, got %v", params.Extensions)
	}
}

func TestNegotiateDeduplicatesExtensions(t *testing.T) {
	// The host may already list extensions the negotiation would add.
	required := []string{
		"VK_EXT_metal_surface",
		debugReportExtName,
		portabilityEnumerationExtName,
		portabilityEnumerationExtName,
	}
	availableLayers := []string{validationLayerName}
	availableExtensions := []string{portabilityEnumerationExtName}

	params, err := negotiateInstance(required, availableLayers, availableExtensions, true, "darwin")
	if err != nil {
		t.Fatal(err)
	}

	counts := make(map[string]int)
	for _, ext := range params.Extensions {
		counts[ext]++
	}
	for ext, n := range counts {
		if n != 1 {
			t.Errorf("extension %q requested %d times", ext, n)
		}
	}
	for _, want := range []string{debugReportExtName, portabilityEnumerationExtName, physicalDeviceProps2ExtName} {
		if counts[want] != 1 {
			t.Errorf("extension %q missing from negotiated set %v", want, params.Extensions)
		}
	}
}
