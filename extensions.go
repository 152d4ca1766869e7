package vrtest

//Device extensions every candidate adapter must support to present
var DeviceExtensions = []string{
	"VK_KHR_swapchain",
}

//Validation layers and instance extensions enabled in debug mode
var (
	DebugLayers             = []string{"VK_LAYER_KHRONOS_validation"}
	DebugInstanceExtensions = []string{"VK_EXT_debug_report"}
)

// MissingExtensions returns the names in required that supported does not
// contain, in the order they were required. An empty result means the
// requirement is satisfied.
func MissingExtensions(required, supported []string) []string {
	actual := make(map[string]struct{}, len(supported))
	for _, name := range supported {
		actual[name] = struct{}{}
	}

	missing := []string{}
	for _, req := range required {
		if _, has := actual[req]; !has {
			missing = append(missing, req)
		}
	}
	return missing
}

// MergeExtensions joins required and wanted without duplicates, keeping
// required names first.
func MergeExtensions(required []string, wanted ...[]string) []string {
	seen := make(map[string]struct{}, len(required))
	implement := []string{}

	add := func(names []string) {
		for _, name := range names {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			implement = append(implement, name)
		}
	}

	add(required)
	for _, names := range wanted {
		add(names)
	}
	return implement
}
