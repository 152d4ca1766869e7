package vrtest

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

//Environment prefix for configuration overrides
const envPrefix = "VRTEST_"

//Window backends and shader sources
const (
	WindowGLFW = "glfw"
	WindowSDL  = "sdl"

	ShaderSourceDir = "dir"
	ShaderSourceBox = "box"
)

// Config is the application configuration. Values come from defaults, then an
// optional .env style file, then VRTEST_ prefixed environment variables.
type Config struct {
	AppName    string
	EngineName string
	Title      string
	Width      uint32
	Height     uint32
	Window     string

	ShaderSource   string
	ShaderDir      string
	VertexShader   string
	FragmentShader string

	Debug    bool
	LogLevel string
	LogFile  string

	FenceTimeout  time.Duration
	StatsInterval time.Duration
	//MaxFrames stops the loop after that many presented frames, 0 runs until exit is requested
	MaxFrames uint64
}

func DefaultConfig() Config {
	return Config{
		AppName:        "vrtest",
		EngineName:     "Armageddon Engine",
		Title:          "VR Test",
		Width:          1024,
		Height:         768,
		Window:         WindowGLFW,
		ShaderSource:   ShaderSourceDir,
		ShaderDir:      "shaders",
		VertexShader:   "vert.spv",
		FragmentShader: "frag.spv",
		LogLevel:       "info",
		FenceTimeout:   DefaultFenceTimeout,
		StatsInterval:  5 * time.Second,
	}
}

// LoadConfig builds the configuration. An empty path skips the file, a
// missing file at an explicit path is an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	values := map[string]string{}
	if path != "" {
		file, err := godotenv.Read(path)
		if err != nil {
			return cfg, errors.Wrapf(err, "read config %s", path)
		}
		for k, v := range file {
			values[strings.TrimPrefix(k, envPrefix)] = v
		}
	}
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		parts := strings.SplitN(strings.TrimPrefix(kv, envPrefix), "=", 2)
		if len(parts) == 2 {
			values[parts[0]] = parts[1]
		}
	}

	if err := cfg.apply(values); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) apply(values map[string]string) error {
	for key, value := range values {
		var err error
		switch strings.ToUpper(key) {
		case "APP_NAME":
			c.AppName = value
		case "ENGINE_NAME":
			c.EngineName = value
		case "TITLE":
			c.Title = value
		case "WIDTH":
			c.Width, err = parseUint32(value)
		case "HEIGHT":
			c.Height, err = parseUint32(value)
		case "WINDOW":
			c.Window = strings.ToLower(value)
		case "SHADER_SOURCE":
			c.ShaderSource = strings.ToLower(value)
		case "SHADER_DIR":
			c.ShaderDir = value
		case "VERTEX_SHADER":
			c.VertexShader = value
		case "FRAGMENT_SHADER":
			c.FragmentShader = value
		case "DEBUG":
			c.Debug, err = strconv.ParseBool(value)
		case "LOG_LEVEL":
			c.LogLevel = value
		case "LOG_FILE":
			c.LogFile = value
		case "FENCE_TIMEOUT":
			c.FenceTimeout, err = time.ParseDuration(value)
		case "STATS_INTERVAL":
			c.StatsInterval, err = time.ParseDuration(value)
		case "MAX_FRAMES":
			c.MaxFrames, err = strconv.ParseUint(value, 10, 64)
		}
		if err != nil {
			return errors.Wrapf(err, "config %s", key)
		}
	}
	return nil
}

func parseUint32(value string) (uint32, error) {
	v, err := strconv.ParseUint(value, 10, 32)
	return uint32(v), err
}

// Validate rejects configurations the renderer cannot start with.
func (c Config) Validate() error {
	if c.Width == 0 || c.Height == 0 {
		return errors.Errorf("invalid resolution %dx%d", c.Width, c.Height)
	}
	switch c.Window {
	case WindowGLFW, WindowSDL:
	default:
		return errors.Errorf("unknown window backend %q", c.Window)
	}
	switch c.ShaderSource {
	case ShaderSourceDir, ShaderSourceBox:
	default:
		return errors.Errorf("unknown shader source %q", c.ShaderSource)
	}
	if c.VertexShader == "" || c.FragmentShader == "" {
		return errors.New("shader names must be set")
	}
	if c.FenceTimeout <= 0 {
		return errors.Errorf("fence timeout must be positive, got %s", c.FenceTimeout)
	}
	if c.StatsInterval <= 0 {
		return errors.Errorf("stats interval must be positive, got %s", c.StatsInterval)
	}
	return nil
}
