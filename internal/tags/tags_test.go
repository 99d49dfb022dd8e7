package tags

import (
	"reflect"
	"testing"
)

// TestParseTagsRoundTrip проверяет нормализацию и обратную сборку строки.
func TestParseTagsRoundTrip(t *testing.T) {
	parsed := ParseTags("work, Urgent, quick")

	if got := TagsToString(parsed); got != "work, urgent, quick" {
		t.Fatalf("expected %q, got %q", "work, urgent, quick", got)
	}
}

// TestParseTagsNormalization проверяет регистр, '#' и дубликаты.
func TestParseTagsNormalization(t *testing.T) {
	parsed := ParseTags("#Home,  home , WORK,, # errands ")
	want := []string{"home", "work", "errands"}

	if !reflect.DeepEqual(parsed, want) {
		t.Fatalf("expected %v, got %v", want, parsed)
	}
}

// TestParseTagsEmpty проверяет пустой вход.
func TestParseTagsEmpty(t *testing.T) {
	if got := ParseTags("  , ,"); len(got) != 0 {
		t.Fatalf("expected no tags, got %v", got)
	}
}
