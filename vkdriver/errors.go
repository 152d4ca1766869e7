package vkdriver

import (
	"fmt"
	"runtime"

	"github.com/andewx/vrtest"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

func isError(ret vk.Result) bool {
	return ret != vk.Success
}

//newError maps a Vulkan result to an error. NOT_READY and TIMEOUT become the
//transient sentinels the core expects, everything else carries the call site.
func newError(ret vk.Result) error {
	switch ret {
	case vk.Success:
		return nil
	case vk.NotReady:
		return vrtest.ErrNotReady
	case vk.Timeout:
		return vrtest.ErrTimeout
	}

	pc, _, line, ok := runtime.Caller(1)
	if !ok {
		return errors.Errorf("vulkan error: %s (%d)", resultString(ret), ret)
	}
	name := "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		name = fn.Name()
	}
	return errors.Errorf("vulkan error: %s (%d) on %s:%d", resultString(ret), ret, name, line)
}

func resultString(ret vk.Result) string {
	if err := vk.Error(ret); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("result %d", ret)
}
