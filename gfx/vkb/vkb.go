// Package vkb bootstraps a Vulkan rendering context. It negotiates
// instance capabilities, owns the instance and its optional debug channel,
// binds a window surface, selects a physical device and builds the logical
// device with the queues rendering and presentation need. The scope stops
// there: swapchains, pipelines and frame submission belong to later layers.
package vkb

import (
	"runtime"
	"unsafe"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"

	"github.com/sluubb/wunderscore/gfx"
)

const backendName = "Vulkan"

// Driver entry points used during teardown, indirected so the release
// sequence can be exercised without a live driver.
var (
	destroyDebugReportCallback = vk.DestroyDebugReportCallback
	deviceWaitIdle             = vk.DeviceWaitIdle
	destroyDevice              = vk.DestroyDevice
	destroySurface             = vk.DestroySurface
	destroyInstance            = vk.DestroyInstance
)

// DefaultApplicationInfo identifies the engine to the Vulkan driver.
var DefaultApplicationInfo = &vk.ApplicationInfo{
	SType:              vk.StructureTypeApplicationInfo,
	ApiVersion:         vk.MakeVersion(1, 0, 0),
	ApplicationVersion: vk.MakeVersion(1, 0, 0),
	PApplicationName:   safeString("wunderscore"),
	PEngineName:        safeString("wunderscore"),
}

// State tracks how far the staged bootstrap has progressed. Each
// transition method requires the prior state and rejects anything else.
type State int

const (
	// StateCreated means the instance (and debug channel, if enabled)
	// exists and a surface may be bound.
	StateCreated State = iota

	// StateSurfaceBound means the surface exists and a device may be
	// created.
	StateSurfaceBound

	// StateDeviceReady means the logical device and its queues exist.
	StateDeviceReady
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateSurfaceBound:
		return "SurfaceBound"
	case StateDeviceReady:
		return "DeviceReady"
	default:
		return "Unknown"
	}
}

// Config configures the bootstrap.
type Config struct {
	// Validation enables the standard validation layer and the debug
	// channel. Negotiation fails when the layer is not installed.
	Validation bool

	// Extensions are the platform's mandatory presentation instance
	// extensions, queried from the windowing collaborator.
	Extensions []string

	// DeviceExtensions are requested on the logical device in addition
	// to whatever platform compatibility requires.
	DeviceExtensions []string

	// Logger receives bootstrap and driver diagnostic messages.
	// Defaults to the logrus standard logger.
	Logger *log.Logger
}

// Bootstrap owns the staged Vulkan context. It is not safe for concurrent
// use; every stage is a blocking driver call made from one goroutine.
type Bootstrap struct {
	cfg  Config
	log  *log.Logger
	diag *diagnostics

	state State

	instance       vk.Instance
	debugCallback  vk.DebugReportCallback
	surface        vk.Surface
	physicalDevice vk.PhysicalDevice
	device         vk.Device
	graphicsQueue  vk.Queue
	presentQueue   vk.Queue
	indices        QueueFamilyIndices

	portability portability
}

var _ gfx.Backend = (*Bootstrap)(nil)

// New creates the API instance with the negotiated capability set and, if
// validation is enabled, a live debug channel. The debug create info is
// also chained into the instance creation call so messages emitted during
// creation itself are captured. New either returns a fully usable
// Bootstrap or nothing; a half-created instance is destroyed on the way
// out.
func New(appInfo *vk.ApplicationInfo, procAddr unsafe.Pointer, cfg Config) (*Bootstrap, error) {
	b, err := newBootstrap(appInfo, procAddr, cfg)
	if err != nil {
		return nil, gfx.NewError(backendName, err)
	}
	return b, nil
}

func newBootstrap(appInfo *vk.ApplicationInfo, procAddr unsafe.Pointer, cfg Config) (*Bootstrap, error) {
	if procAddr == nil {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			return nil, errors.Wrap(err, "vk.SetDefaultGetInstanceProcAddr()")
		}
	} else {
		vk.SetGetInstanceProcAddr(procAddr)
	}
	if err := vk.Init(); err != nil {
		return nil, errors.Wrap(err, "vk.Init()")
	}

	layers, err := availableInstanceLayers()
	if err != nil {
		return nil, err
	}
	extensions, err := availableInstanceExtensions()
	if err != nil {
		return nil, err
	}

	params, err := negotiateInstance(cfg.Extensions, layers, extensions, cfg.Validation, runtime.GOOS)
	if err != nil {
		return nil, err
	}

	b := &Bootstrap{
		cfg:           cfg,
		log:           cfg.Logger,
		state:         StateCreated,
		debugCallback: vk.NullDebugReportCallback,
		portability:   portabilitySupport(runtime.GOOS, extensions),
	}
	if b.log == nil {
		b.log = log.StandardLogger()
	}
	b.diag = &diagnostics{log: b.log}

	if b.portability.Enabled() {
		b.log.Info("enabling portability enumeration extensions")
	}
	if cfg.Validation {
		b.log.Info("enabling validation layers")
	}

	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		Flags:                   params.Flags,
		EnabledExtensionCount:   uint32(len(params.Extensions)),
		PpEnabledExtensionNames: safeStrings(params.Extensions),
		EnabledLayerCount:       uint32(len(params.Layers)),
		PpEnabledLayerNames:     safeStrings(params.Layers),
	}

	debugInfo := b.diag.createInfo()
	if cfg.Validation {
		instanceInfo.PNext = unsafe.Pointer(debugInfo.Ref())
	}

	var instance vk.Instance
	if res := vk.CreateInstance(&instanceInfo, nil, &instance); res != vk.Success {
		return nil, &ResultError{Op: "CreateInstance", Code: res}
	}
	b.instance = instance
	vk.InitInstance(instance)

	if cfg.Validation {
		var callback vk.DebugReportCallback
		if res := vk.CreateDebugReportCallback(instance, debugInfo, nil, &callback); res != vk.Success {
			vk.DestroyInstance(instance, nil)
			return nil, &ResultError{Op: "CreateDebugReportCallback", Code: res}
		}
		b.debugCallback = callback
	}

	return b, nil
}

// BindSurface binds the instance to the presenter's window. Requires
// StateCreated.
func (b *Bootstrap) BindSurface(p gfx.Presenter) error {
	if b.state != StateCreated {
		return gfx.NewError(backendName, &OrderError{Op: "BindSurface", State: b.state})
	}

	ptr, err := p.CreateSurface(b.instance)
	if err != nil {
		return gfx.NewError(backendName, &SurfaceError{Err: err})
	}

	b.surface = vk.SurfaceFromPointer(uintptr(ptr))
	b.state = StateSurfaceBound
	return nil
}

// CreateDevice picks the first suitable physical device, resolves its
// queue families and creates the logical device plus queue handles.
// Requires StateSurfaceBound.
func (b *Bootstrap) CreateDevice() error {
	if b.state != StateSurfaceBound {
		return gfx.NewError(backendName, &OrderError{Op: "CreateDevice", State: b.state})
	}
	if err := b.createDevice(); err != nil {
		return gfx.NewError(backendName, err)
	}
	b.state = StateDeviceReady
	return nil
}

func (b *Bootstrap) createDevice() error {
	physicalDevice, err := b.pickPhysicalDevice()
	if err != nil {
		return err
	}

	indices, err := resolveQueueFamilies(
		queueFamilyProperties(physicalDevice),
		presentSupport(physicalDevice, b.surface))
	if err != nil {
		return err
	}

	extensions := appendUnique(nil, b.cfg.DeviceExtensions...)
	extensions = appendUnique(extensions, b.portability.DeviceExtensions...)

	device, err := createLogicalDevice(physicalDevice, indices, extensions)
	if err != nil {
		return err
	}

	b.physicalDevice = physicalDevice
	b.indices = indices
	b.device = device
	b.graphicsQueue = deviceQueue(device, indices.Graphics)
	b.presentQueue = deviceQueue(device, indices.Present)
	return nil
}

// pickPhysicalDevice walks adapters in enumeration order and takes the
// first with the required queue families. An unsuitable adapter is logged
// and skipped; it must not abort selection while another may qualify.
func (b *Bootstrap) pickPhysicalDevice() (vk.PhysicalDevice, error) {
	devices, err := enumeratePhysicalDevices(b.instance)
	if err != nil {
		return nil, err
	}

	idx, err := firstSuitable(len(devices), func(i int) error {
		_, err := resolveQueueFamilies(
			queueFamilyProperties(devices[i]),
			presentSupport(devices[i], b.surface))
		if err != nil {
			b.log.Warnf("skipping physical device %q: %s", adapterInfo(devices[i]).Name, err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	b.log.Infof("selected physical device %q", adapterInfo(devices[idx]).Name)
	return devices[idx], nil
}

// Destroy releases every handle the bootstrap still owns, in reverse
// creation order: debug channel, device, surface, instance. It only
// touches handles that exist, so the host can (and must) call it after a
// partial bootstrap failure as well as on a clean shutdown. Calling it
// twice is harmless.
func (b *Bootstrap) Destroy() {
	for _, step := range b.teardownSteps() {
		b.log.Debugf("destroying %s", step.name)
		step.fn()
	}
}

type teardownStep struct {
	name string
	fn   func()
}

// teardownSteps lists the live handles most-recent-first. Destruction
// order is a hard requirement of the API, so it is fixed here rather than
// left to field order or garbage collection.
func (b *Bootstrap) teardownSteps() []teardownStep {
	var steps []teardownStep

	if b.debugCallback != vk.NullDebugReportCallback {
		steps = append(steps, teardownStep{name: "debug channel", fn: func() {
			destroyDebugReportCallback(b.instance, b.debugCallback, nil)
			b.debugCallback = vk.NullDebugReportCallback
		}})
	}
	if b.device != nil {
		steps = append(steps, teardownStep{name: "device", fn: func() {
			deviceWaitIdle(b.device)
			destroyDevice(b.device, nil)
			b.device = nil
		}})
	}
	if b.surface != vk.NullSurface {
		steps = append(steps, teardownStep{name: "surface", fn: func() {
			destroySurface(b.instance, b.surface, nil)
			b.surface = vk.NullSurface
		}})
	}
	if b.instance != nil {
		steps = append(steps, teardownStep{name: "instance", fn: func() {
			destroyInstance(b.instance, nil)
			b.instance = nil
		}})
	}

	return steps
}

// State returns the bootstrap's current stage.
func (b *Bootstrap) State() State {
	return b.state
}

// Instance returns the inner instance handle for handoff to the
// windowing collaborator.
func (b *Bootstrap) Instance() interface{} {
	return b.instance
}

// Surface returns the bound surface, or the null surface before
// BindSurface.
func (b *Bootstrap) Surface() vk.Surface {
	return b.surface
}

// Device returns the logical device handle. Valid in StateDeviceReady.
func (b *Bootstrap) Device() vk.Device {
	return b.device
}

// GraphicsQueue returns the graphics queue handle. It is owned by the
// device and only valid while the device lives.
func (b *Bootstrap) GraphicsQueue() vk.Queue {
	return b.graphicsQueue
}

// PresentQueue returns the presentation queue handle. It may equal the
// graphics queue.
func (b *Bootstrap) PresentQueue() vk.Queue {
	return b.presentQueue
}

// Indices returns the resolved queue family indices.
func (b *Bootstrap) Indices() QueueFamilyIndices {
	return b.indices
}

// Adapter describes the selected physical device. Valid in
// StateDeviceReady.
func (b *Bootstrap) Adapter() gfx.AdapterInfo {
	if b.physicalDevice == nil {
		return gfx.AdapterInfo{}
	}
	return adapterInfo(b.physicalDevice)
}
