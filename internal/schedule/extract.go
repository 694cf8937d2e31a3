package schedule

import (
	"fmt"
	"regexp"
	"strings"
)

// groups: class type, section number, time range, day run
var entryRegex = regexp.MustCompile(`(LEC|TUT) (\d{3}).*?(\d{1,2}:\d{2}-\d{1,2}:\d{2})([A-Za-z,]+)`)

// ExtractSchedules finds every lecture/tutorial row in the text of a results
// page, in the order they appear. Text without any rows yields an empty slice.
func ExtractSchedules(rawText string) []Entry {
	entries := []Entry{}
	for _, groups := range entryRegex.FindAllStringSubmatch(rawText, -1) {
		classType, number, timeRange, days := groups[1], groups[2], groups[3], groups[4]

		// reserved seats are not real offerings
		if strings.HasPrefix(timeRange, "Reserve") {
			continue
		}

		entries = append(entries, Entry{
			Section: fmt.Sprintf("%s %s", classType, number),
			Time:    timeRange,
			Days:    SplitDays(strings.TrimSpace(days)),
		})
	}
	return entries
}
