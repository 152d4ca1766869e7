package vrtest

import (
	vk "github.com/vulkan-go/vulkan"
)

// QueueSelection holds the graphics and present family indices of an adapter.
// The two may coincide.
type QueueSelection struct {
	Graphics uint32
	Present  uint32
}

// Separate is true when presentation uses a different family than graphics.
func (q QueueSelection) Separate() bool {
	return q.Graphics != q.Present
}

// Families lists the distinct family indices, graphics first.
func (q QueueSelection) Families() []uint32 {
	if q.Separate() {
		return []uint32{q.Graphics, q.Present}
	}
	return []uint32{q.Graphics}
}

// Requests builds one queue request per distinct family at uniform priority.
func (q QueueSelection) Requests() []QueueRequest {
	families := q.Families()
	requests := make([]QueueRequest, 0, len(families))
	for _, family := range families {
		requests = append(requests, QueueRequest{Family: family, Priority: 1.0})
	}
	return requests
}

// SelectQueueFamilies scans the adapter families once. The first family with
// graphics capability becomes the graphics family and the first family able to
// present to surface becomes the present family. Neither is reassigned after
// it is found.
func SelectQueueFamilies(adapter Adapter, surface Surface) (QueueSelection, error) {
	var q QueueSelection
	var graphics_found, present_found bool

	for index, family := range adapter.QueueFamilies() {
		if graphics_found && present_found {
			break
		}
		if family.Count == 0 {
			continue
		}
		i := uint32(index)

		flag := family.Flags & vk.QueueFlags(vk.QueueGraphicsBit)
		if !graphics_found && flag == vk.QueueFlags(vk.QueueGraphicsBit) {
			q.Graphics = i
			graphics_found = true
		}

		if !present_found {
			supported, err := adapter.SurfaceSupport(i, surface)
			if err != nil {
				return q, fatal("query surface support", err)
			}
			if supported {
				q.Present = i
				present_found = true
			}
		}
	}

	if !graphics_found {
		return q, fatalf("select queue families", "no queue family with graphics capability")
	}
	if !present_found {
		return q, fatalf("select queue families", "no queue family can present to the surface")
	}
	return q, nil
}
