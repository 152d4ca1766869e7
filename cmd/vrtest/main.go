package main

import (
	"flag"
	"io"
	"os"
	"runtime"

	"github.com/andewx/vrtest"
	"github.com/andewx/vrtest/vkdriver"
	"github.com/andewx/vrtest/window"
	log "github.com/sirupsen/logrus"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "path to a .env style configuration file")
	windowKind := flag.String("window", "", "window backend, glfw or sdl")
	debug := flag.Bool("debug", false, "enable validation layers and the debug report callback")
	frames := flag.Uint64("frames", 0, "stop after this many presented frames")
	flag.Parse()

	cfg, err := vrtest.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("configuration")
	}
	if *windowKind != "" {
		cfg.Window = *windowKind
	}
	if *debug {
		cfg.Debug = true
	}
	if *frames > 0 {
		cfg.MaxFrames = *frames
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("configuration")
	}

	logger, closer, err := vrtest.NewLogger(cfg)
	if err != nil {
		log.WithError(err).Fatal("logger")
	}

	os.Exit(run(cfg, logger, closer))
}

func run(cfg vrtest.Config, logger *log.Logger, closer io.Closer) int {
	defer closer.Close()

	win, err := window.Open(cfg.Window, cfg.Title, cfg.Width, cfg.Height)
	if err != nil {
		logger.WithError(err).Error("open window")
		return 1
	}
	defer win.Destroy()

	if err := vkdriver.Init(win.ProcAddr()); err != nil {
		logger.WithError(err).Error("load vulkan")
		return 1
	}

	var shaders vrtest.ShaderSource = vrtest.DirSource{Dir: cfg.ShaderDir}
	if cfg.ShaderSource == vrtest.ShaderSourceBox {
		shaders = vrtest.NewBoxSource(cfg.ShaderDir)
	}

	renderer, err := vrtest.NewRenderer(cfg, vkdriver.NewBackend(logger), win, shaders, logger)
	if err != nil {
		logger.WithError(err).Error("renderer init")
		return 1
	}
	defer renderer.Destroy()

	logger.WithFields(log.Fields{
		"adapter": renderer.Devices().Properties().Name,
		"images":  renderer.Chain().Len(),
		"window":  cfg.Window,
	}).Info("rendering")

	if err := renderer.Run(); err != nil {
		logger.WithError(err).Error("frame loop")
		return 1
	}
	return 0
}
