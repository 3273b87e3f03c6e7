package vkb

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

const (
	validationLayerName = "VK_LAYER_KHRONOS_validation"
	debugReportExtName  = "VK_EXT_debug_report"

	portabilityEnumerationExtName = "VK_KHR_portability_enumeration"
	physicalDeviceProps2ExtName   = "VK_KHR_get_physical_device_properties2"
	portabilitySubsetExtName      = "VK_KHR_portability_subset"
)

// VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR. The headers bundled
// with the binding predate the portability extensions, so the bit and the
// extension names above are spelled out here.
const instanceCreateEnumeratePortabilityBit vk.InstanceCreateFlags = 0x00000001

// instanceParams is the negotiated outcome of capability resolution:
// everything the instance creation call needs to request.
type instanceParams struct {
	Extensions []string
	Layers     []string
	Flags      vk.InstanceCreateFlags
}

// portability carries the platform-compatibility requirements for both the
// instance and the device creation call sites, so the two cannot drift
// apart.
type portability struct {
	InstanceExtensions []string
	DeviceExtensions   []string
	Flags              vk.InstanceCreateFlags
}

func (p portability) Enabled() bool {
	return len(p.InstanceExtensions) > 0
}

// portabilitySupport decides whether the loader requires portability
// enumeration. Loaders began mandating it for MoltenVK at 1.3.216, the
// same release that first advertises the extension, so its presence in
// the instance extension list stands in for the version threshold the
// binding cannot query directly.
func portabilitySupport(goos string, availableExtensions []string) portability {
	if goos != "darwin" || !containsString(availableExtensions, portabilityEnumerationExtName) {
		return portability{}
	}
	return portability{
		InstanceExtensions: []string{physicalDeviceProps2ExtName, portabilityEnumerationExtName},
		DeviceExtensions:   []string{portabilitySubsetExtName},
		Flags:              instanceCreateEnumeratePortabilityBit,
	}
}

// negotiateInstance resolves the final extension and layer request for
// instance creation. The required list is the platform's mandatory
// presentation extensions; validation appends the debug channel extension
// and the standard validation layer, failing hard when the layer is not
// available rather than downgrading silently. The resulting extension
// list is deduplicated, since hosts may already name extensions the
// negotiation would add.
func negotiateInstance(required, availableLayers, availableExtensions []string, validation bool, goos string) (instanceParams, error) {
	params := instanceParams{
		Extensions: appendUnique(nil, required...),
	}

	if validation {
		if !containsString(availableLayers, validationLayerName) {
			return instanceParams{}, errors.Wrap(ErrUnsupportedValidationLayer, validationLayerName)
		}
		params.Extensions = appendUnique(params.Extensions, debugReportExtName)
		params.Layers = []string{validationLayerName}
	}

	if p := portabilitySupport(goos, availableExtensions); p.Enabled() {
		params.Extensions = appendUnique(params.Extensions, p.InstanceExtensions...)
		params.Flags |= p.Flags
	}

	return params, nil
}

func availableInstanceLayers() ([]string, error) {
	var count uint32
	if res := vk.EnumerateInstanceLayerProperties(&count, nil); res != vk.Success {
		return nil, &ResultError{Op: "EnumerateInstanceLayerProperties", Code: res}
	}
	layers := make([]vk.LayerProperties, count)
	if res := vk.EnumerateInstanceLayerProperties(&count, layers); res != vk.Success {
		return nil, &ResultError{Op: "EnumerateInstanceLayerProperties", Code: res}
	}

	names := make([]string, count)
	for i, layer := range layers {
		layer.Deref()
		names[i] = vk.ToString(layer.LayerName[:])
	}
	return names, nil
}

func availableInstanceExtensions() ([]string, error) {
	var count uint32
	if res := vk.EnumerateInstanceExtensionProperties("", &count, nil); res != vk.Success {
		return nil, &ResultError{Op: "EnumerateInstanceExtensionProperties", Code: res}
	}
	extensions := make([]vk.ExtensionProperties, count)
	if res := vk.EnumerateInstanceExtensionProperties("", &count, extensions); res != vk.Success {
		return nil, &ResultError{Op: "EnumerateInstanceExtensionProperties", Code: res}
	}

	names := make([]string, count)
	for i, ext := range extensions {
		ext.Deref()
		names[i] = vk.ToString(ext.ExtensionName[:])
	}
	return names, nil
}
