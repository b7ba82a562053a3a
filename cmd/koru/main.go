// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:generate glslangValidator -V ../../data/shaders/cube.vert -o ../../data/shaders/cube.vert.spv
//go:generate glslangValidator -V ../../data/shaders/cube.frag -o ../../data/shaders/cube.frag.spv

// Command koru renders a spinning textured cube.
//
// The SPIR-V shaders are not part of the tree. Compile them once with
// glslangValidator from the Vulkan SDK on the PATH:
//
//	go generate ./cmd/koru
//
// This writes data/shaders/cube.vert.spv and cube.frag.spv next to their
// GLSL sources. The texture data/textures/cube.png is shipped. Assets are
// looked up in the configured archive or data directory first and in the
// packed data directory after that. A missing asset stops the command.
package main

import (
	"flag"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/gobuffalo/packr"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/koru3d/vkr/assets"
	"github.com/koru3d/vkr/core"
)

func init() {
	runtime.LockOSThread()
}

var (
	vkDebug    = flag.Bool("vkdbg", false, "Enable the validation layers")
	verbose    = flag.Bool("v", false, "Verbose logging")
	cpuProfile = flag.String("cpuprofile", "", "Write a cpu profile to the given file")
	memProfile = flag.String("memprofile", "", "Write a heap profile to the given file on exit")
)

func newWindow(cfg core.RendererConfiguration) (*sdl.Window, error) {
	return sdl.CreateWindow("Koru3D",
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.ScreenWidth),
		int32(cfg.ScreenHeight),
		sdl.WINDOW_VULKAN|sdl.WINDOW_RESIZABLE)
}

func main() {
	flag.Parse()

	configuration, err := core.LoadConfiguration(core.DefaultConfiguration())
	if err != nil {
		log.Fatal(err)
	}
	if level, err := log.ParseLevel(configuration.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if *vkDebug {
		configuration.Debug = true
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err)
		}
		defer pprof.StopCPUProfile()
	}

	if err := run(configuration); err != nil {
		log.Error(err)
	}

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatal(err)
		}
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Error(err)
		}
		f.Close()
	}
}

func run(configuration core.Configuration) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return err
	}
	defer sdl.Quit()

	if err := sdl.VulkanLoadLibrary(""); err != nil {
		return err
	}
	defer sdl.VulkanUnloadLibrary()

	window, err := newWindow(configuration.Renderer)
	if err != nil {
		return err
	}
	defer window.Destroy()

	instance, err := core.NewInstance(sdl.VulkanGetVkGetInstanceProcAddr(), core.InstanceConfiguration{
		DebugMode:  configuration.Debug,
		Extensions: window.VulkanGetInstanceExtensions(),
		Layers:     []string{},
	})
	if err != nil {
		return err
	}
	defer instance.Release()

	pSurface, err := window.VulkanCreateSurface(instance.Handle())
	if err != nil {
		return errors.Wrap(err, "surface")
	}
	surface := instance.SurfaceFromPointer(pSurface)
	defer instance.DestroySurface(surface)

	// the swapchain follows the drawable, which differs from the
	// window size on high dpi displays
	w, h := window.VulkanGetDrawableSize()
	configuration.Renderer.ScreenWidth, configuration.Renderer.ScreenHeight = uint32(w), uint32(h)

	device, err := core.NewDevice(instance, surface, configuration.Renderer)
	if err != nil {
		return err
	}
	defer device.Close()

	src, closeSource, err := assets.NewSource(configuration.Renderer)
	if err != nil {
		return err
	}
	defer closeSource()
	src = assets.Chain{src, assets.BoxSource{Box: packr.NewBox("../../data")}}

	cube, err := newScene(device, src)
	if err != nil {
		return err
	}
	defer cube.Release()
	device.SetResizeCallback(cube.resize)

	return loop(configuration.Time, window, device, cube)
}

func loop(cfg core.TimeConfiguration, window *sdl.Window, device *core.Device, cube *scene) error {
	tm := core.NewTime(cfg)
	defer tm.Stop()
	exitC := make(chan struct{}, 2)
	last := time.Now()

EventLoop:
	for {
		select {
		case <-exitC:
			log.Info("event loop exited")
			break EventLoop
		case <-tm.EventTicker().C:
			for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
				if !handleEvent(event, device) {
					exitC <- struct{}{}
					continue EventLoop
				}
				if we, ok := event.(*sdl.WindowEvent); ok && we.Event == sdl.WINDOWEVENT_MINIMIZED {
					if !waitRestored(device) {
						exitC <- struct{}{}
						continue EventLoop
					}
					last = time.Now()
				}
			}
		case now := <-tm.FpsTicker().C:
			step := float32(now.Sub(last).Seconds())
			last = now
			if err := renderFrame(window, device, cube, step); err != nil {
				return err
			}
		}
	}
	return device.WaitIdle()
}

// handleEvent returns false when the application should quit
func handleEvent(event sdl.Event, device *core.Device) bool {
	switch et := event.(type) {
	case *sdl.KeyboardEvent:
		if et.Keysym.Sym == sdl.K_ESCAPE {
			return false
		}
	case *sdl.QuitEvent:
		return false
	case *sdl.WindowEvent:
		if et.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			log.WithFields(log.Fields{
				"width":  et.Data1,
				"height": et.Data2,
			}).Debug("window resized")
			device.NotifyResize(uint32(et.Data1), uint32(et.Data2))
		}
	}
	return true
}

// waitRestored blocks while the window is minimized, there is
// nothing to present to. Returns false on quit.
func waitRestored(device *core.Device) bool {
	log.Debug("minimized, waiting")
	for {
		event := sdl.WaitEvent()
		if event == nil {
			continue
		}
		if !handleEvent(event, device) {
			return false
		}
		if we, ok := event.(*sdl.WindowEvent); ok && we.Event == sdl.WINDOWEVENT_RESTORED {
			return true
		}
	}
}

func renderFrame(window *sdl.Window, device *core.Device, cube *scene, step float32) error {
	ok, err := device.BeginFrame()
	if err != nil {
		return err
	}
	if !ok {
		return recreate(window, device)
	}

	if err := cube.draw(step); err != nil {
		return err
	}

	if ok, err = device.EndFrame(); err != nil {
		return err
	} else if !ok {
		return recreate(window, device)
	}
	return nil
}

func recreate(window *sdl.Window, device *core.Device) error {
	w, h := window.VulkanGetDrawableSize()
	err := device.RecreateSwapchain(uint32(w), uint32(h))
	if errors.Is(err, core.ErrZeroExtent) {
		// minimized in between, retried on the next frame
		device.NotifyResize(0, 0)
		return nil
	}
	return err
}
