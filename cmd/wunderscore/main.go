package main

import (
	"runtime"
	"strconv"
	"unsafe"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/sluubb/wunderscore/gfx/vkb"
)

func init() {
	runtime.LockOSThread()
}

type configuration struct {
	Title        string
	ScreenWidth  int32
	ScreenHeight int32
	Validation   bool
	LogLevel     log.Level
}

func loadConfiguration() configuration {
	// missing .env is fine, the defaults below apply
	godotenv.Load()

	width, err := strconv.Atoi(envy.Get("WUNDERSCORE_WIDTH", "1024"))
	if err != nil {
		width = 1024
	}
	height, err := strconv.Atoi(envy.Get("WUNDERSCORE_HEIGHT", "768"))
	if err != nil {
		height = 768
	}
	validation, err := strconv.ParseBool(envy.Get("WUNDERSCORE_VALIDATION", "false"))
	if err != nil {
		validation = false
	}
	level, err := log.ParseLevel(envy.Get("WUNDERSCORE_LOG", "info"))
	if err != nil {
		level = log.InfoLevel
	}

	return configuration{
		Title:        envy.Get("WUNDERSCORE_TITLE", "wunderscore"),
		ScreenWidth:  int32(width),
		ScreenHeight: int32(height),
		Validation:   validation,
		LogLevel:     level,
	}
}

// sdlPresenter adapts an SDL window to the bootstrap's windowing
// collaborator contract.
type sdlPresenter struct {
	window *sdl.Window
}

func (p sdlPresenter) InstanceExtensions() []string {
	return p.window.VulkanGetInstanceExtensions()
}

func (p sdlPresenter) CreateSurface(instance interface{}) (unsafe.Pointer, error) {
	return p.window.VulkanCreateSurface(instance)
}

func main() {
	cfg := loadConfiguration()
	log.SetLevel(cfg.LogLevel)

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg configuration) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return err
	}
	defer sdl.Quit()

	if err := sdl.VulkanLoadLibrary(""); err != nil {
		return err
	}
	defer sdl.VulkanUnloadLibrary()

	window, err := sdl.CreateWindow(cfg.Title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		cfg.ScreenWidth,
		cfg.ScreenHeight,
		sdl.WINDOW_VULKAN|sdl.WINDOW_SHOWN)
	if err != nil {
		return err
	}
	defer window.Destroy()

	presenter := sdlPresenter{window: window}

	boot, err := vkb.New(vkb.DefaultApplicationInfo, sdl.VulkanGetVkGetInstanceProcAddr(), vkb.Config{
		Validation:       cfg.Validation,
		Extensions:       presenter.InstanceExtensions(),
		DeviceExtensions: []string{"VK_KHR_swapchain"},
		Logger:           log.StandardLogger(),
	})
	if err != nil {
		return err
	}
	// the bootstrap must be torn down however far it got, before the
	// window goes away
	defer boot.Destroy()

	if err := boot.BindSurface(presenter); err != nil {
		return err
	}
	if err := boot.CreateDevice(); err != nil {
		return err
	}

	adapter := boot.Adapter()
	log.WithFields(log.Fields{
		"vendor": adapter.VendorID,
		"api": log.Fields{
			"major": adapter.APIVersion >> 22,
			"minor": (adapter.APIVersion >> 12) & 0x3ff,
		},
		"graphicsFamily": boot.Indices().Graphics,
		"presentFamily":  boot.Indices().Present,
	}).Infof("rendering context ready on %q", adapter.Name)

EventLoop:
	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch et := event.(type) {
			case *sdl.QuitEvent:
				break EventLoop
			case *sdl.KeyboardEvent:
				if et.Keysym.Sym == sdl.K_ESCAPE {
					break EventLoop
				}
			}
		}
		sdl.Delay(16)
	}

	log.Println("window closing, tearing down")
	return nil
}
