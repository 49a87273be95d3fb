package formatting

import "fmt"

// Plural "1 lesson", "3 lessons"
func Plural(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// PluralizeLessons склонение слова "lesson"
func PluralizeLessons(count int) string {
	return Plural(count, "lesson", "lessons")
}

// PluralizeSlots склонение слова "slot"
func PluralizeSlots(count int) string {
	return Plural(count, "slot", "slots")
}
