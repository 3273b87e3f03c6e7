package vkb

import "testing"

func TestSafeString(t *testing.T) {
	if safeString("VK_KHR_surface") != "VK_KHR_surface\x00" {
		t.Error("missing terminator not appended")
	}
	if safeString("VK_KHR_surface\x00") != "VK_KHR_surface\x00" {
		t.Error("existing terminator must not be doubled")
	}
	if safeString("") != "\x00" {
		t.Error("empty string must still terminate")
	}
}

func TestContainsString(t *testing.T) {
	haystack := []string{"a", "b"}
	if !containsString(haystack, "b") {
		t.Fail()
	}
	if containsString(haystack, "c") {
		t.Fail()
	}
	if containsString(nil, "a") {
		t.Fail()
	}
}

func TestAppendUnique(t *testing.T) {
	got := appendUnique([]string{"a"}, "b", "a", "b", "c")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
