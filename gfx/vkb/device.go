package vkb

import (
	"github.com/sluubb/wunderscore/gfx"
	vk "github.com/vulkan-go/vulkan"
)

// QueueFamilyIndices is the resolved pair of queue family roles required
// for rendering and presentation. The two may name the same family.
type QueueFamilyIndices struct {
	Graphics uint32
	Present  uint32
}

// resolveQueueFamilies picks the lowest graphics-capable family index and
// the lowest present-supporting one. A failed support query counts as
// unsupported. Properties must already be dereferenced.
func resolveQueueFamilies(families []vk.QueueFamilyProperties, supportsPresent func(index uint32) bool) (QueueFamilyIndices, error) {
	graphics := -1
	present := -1

	for i, family := range families {
		if graphics < 0 && family.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			graphics = i
		}
		if present < 0 && supportsPresent(uint32(i)) {
			present = i
		}
		if graphics >= 0 && present >= 0 {
			break
		}
	}

	if graphics < 0 || present < 0 {
		return QueueFamilyIndices{}, ErrMissingQueueFamilies
	}
	return QueueFamilyIndices{Graphics: uint32(graphics), Present: uint32(present)}, nil
}

func queueFamilyProperties(physicalDevice vk.PhysicalDevice) []vk.QueueFamilyProperties {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(physicalDevice, &count, nil)
	families := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(physicalDevice, &count, families)
	for i := range families {
		families[i].Deref()
	}
	return families
}

func presentSupport(physicalDevice vk.PhysicalDevice, surface vk.Surface) func(index uint32) bool {
	return func(index uint32) bool {
		var supported vk.Bool32
		if vk.GetPhysicalDeviceSurfaceSupport(physicalDevice, index, surface, &supported) != vk.Success {
			return false
		}
		return supported == vk.True
	}
}

// firstSuitable walks candidates in enumeration order and returns the
// index of the first one check accepts. A rejection only skips that
// candidate; the walk goes on.
func firstSuitable(count int, check func(int) error) (int, error) {
	if count == 0 {
		return 0, ErrNoPhysicalDevices
	}
	for i := 0; i < count; i++ {
		if err := check(i); err != nil {
			continue
		}
		return i, nil
	}
	return 0, ErrNoSuitableDevice
}

func enumeratePhysicalDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	var count uint32
	if res := vk.EnumeratePhysicalDevices(instance, &count, nil); res != vk.Success {
		return nil, &ResultError{Op: "EnumeratePhysicalDevices", Code: res}
	}
	devices := make([]vk.PhysicalDevice, count)
	if res := vk.EnumeratePhysicalDevices(instance, &count, devices); res != vk.Success {
		return nil, &ResultError{Op: "EnumeratePhysicalDevices", Code: res}
	}
	return devices, nil
}

func adapterInfo(physicalDevice vk.PhysicalDevice) gfx.AdapterInfo {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(physicalDevice, &props)
	props.Deref()

	return gfx.AdapterInfo{
		Name:          vk.ToString(props.DeviceName[:]),
		ID:            int(props.DeviceID),
		VendorID:      int(props.VendorID),
		APIVersion:    props.ApiVersion,
		DriverVersion: props.DriverVersion,
	}
}

// uniqueQueueCreateInfos builds exactly one queue descriptor per distinct
// family, each requesting a single queue at priority 1.0.
func uniqueQueueCreateInfos(indices QueueFamilyIndices) []vk.DeviceQueueCreateInfo {
	families := []uint32{indices.Graphics}
	if indices.Present != indices.Graphics {
		families = append(families, indices.Present)
	}

	infos := make([]vk.DeviceQueueCreateInfo, 0, len(families))
	for _, family := range families {
		infos = append(infos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		})
	}
	return infos
}

// createLogicalDevice creates the device with one queue per unique family
// and default features only.
func createLogicalDevice(physicalDevice vk.PhysicalDevice, indices QueueFamilyIndices, extensions []string) (vk.Device, error) {
	queueInfos := uniqueQueueCreateInfos(indices)

	createInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{{}},
	}

	var device vk.Device
	if res := vk.CreateDevice(physicalDevice, &createInfo, nil, &device); res != vk.Success {
		return nil, &ResultError{Op: "CreateDevice", Code: res}
	}
	return device, nil
}

func deviceQueue(device vk.Device, family uint32) vk.Queue {
	var queue vk.Queue
	vk.GetDeviceQueue(device, family, 0, &queue)
	return queue
}
