package corpora

import (
	"reflect"
	"testing"
)

func TestKeys(t *testing.T) {
	if got := Keys(); !reflect.DeepEqual(got, []string{"bank", "clinc", "hwu"}) {
		t.Fatalf("keys %v", got)
	}
	for key, dir := range map[string]string{"bank": "banking77", "clinc": "clinc150", "hwu": "hwu64_sub"} {
		c, ok := Get(key)
		if !ok || c.DefaultDir != dir {
			t.Errorf("Get(%q) = %+v, %v", key, c, ok)
		}
	}
	if _, ok := Get("snips"); ok {
		t.Error("unknown key found")
	}
}
