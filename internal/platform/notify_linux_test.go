//go:build linux

package platform

import "testing"

func TestHints(t *testing.T) {
	h := hints(Options{})
	if _, ok := h["category"]; ok {
		t.Errorf("category set without one requested")
	}
	if _, ok := h["image-path"]; ok {
		t.Errorf("image-path set without an icon")
	}

	h = hints(Options{IconPath: "/tmp/preview.png", Category: CategoryRequest})
	if got := h["category"].Value(); got != "transfer" {
		t.Errorf("category = %v", got)
	}
	if got := h["image-path"].Value(); got != "/tmp/preview.png" {
		t.Errorf("image-path = %v", got)
	}
}

func TestTimeoutDefault(t *testing.T) {
	if got := (Options{}).timeout(); got != DefaultTimeoutMS {
		t.Errorf("timeout = %d", got)
	}
	if got := (Options{TimeoutMS: 1200}).timeout(); got != 1200 {
		t.Errorf("timeout = %d", got)
	}
}
