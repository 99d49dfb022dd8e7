package tags

import "strings"

// ParseTags разбирает строку тегов, разделенных запятыми: теги приводятся
// к нижнему регистру, обрезаются пробелы и ведущие '#', дубликаты
// отбрасываются с сохранением порядка первого вхождения.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")

	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := Normalize(part)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}

	return out
}

// TagsToString собирает теги обратно в строку через ", ".
func TagsToString(tags []string) string {
	return strings.Join(tags, ", ")
}

// Normalize приводит один тег к каноническому виду.
func Normalize(tag string) string {
	tag = strings.TrimSpace(tag)
	tag = strings.TrimPrefix(tag, "#")
	return strings.ToLower(strings.TrimSpace(tag))
}
