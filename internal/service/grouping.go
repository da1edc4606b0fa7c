// Package service groups archived tasks into report sections.
package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/DavDaz/focus-title/internal/models"
)

type GroupBy string

const (
	GroupByNone GroupBy = "None"
	GroupByDay  GroupBy = "Daily"
	GroupByWeek GroupBy = "Weekly"
)

// ParseGroupBy accepts the names used on the command line.
func ParseGroupBy(s string) (GroupBy, error) {
	switch s {
	case "", "none":
		return GroupByNone, nil
	case "day", "daily":
		return GroupByDay, nil
	case "week", "weekly":
		return GroupByWeek, nil
	}
	return "", models.Validationf("group", "unknown grouping %q (use none, day or week)", s)
}

// Group is one report section of archived tasks.
type Group struct {
	Key   string
	Title string
	Tasks []models.ArchivedTask
	Total int64
}

// weekStart returns the Monday of t's week.
func weekStart(t time.Time) time.Time {
	offset := int(t.Weekday())
	if offset == 0 {
		offset = 7
	}
	y, m, d := t.AddDate(0, 0, -offset+1).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// GroupKey sorts lexically in chronological order.
func GroupKey(t time.Time, by GroupBy) string {
	switch by {
	case GroupByDay:
		return t.Format("2006-01-02")
	case GroupByWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	}
	return ""
}

func GroupTitle(t time.Time, by GroupBy) string {
	switch by {
	case GroupByDay:
		return t.Format("Monday, 02 Jan 2006")
	case GroupByWeek:
		start := weekStart(t)
		end := start.AddDate(0, 0, 6)
		return fmt.Sprintf("%s - %s", start.Format("Jan 02"), end.Format("Jan 02, 2006"))
	}
	return ""
}

// GroupArchived buckets tasks by their deletion time in loc, newest group first. Within a
// group the input order is kept. GroupByNone yields a single untitled group.
func GroupArchived(tasks []models.ArchivedTask, by GroupBy, loc *time.Location) []Group {
	if loc == nil {
		loc = time.Local
	}
	if by == GroupByNone {
		if len(tasks) == 0 {
			return nil
		}
		g := Group{Tasks: append([]models.ArchivedTask{}, tasks...)}
		for _, a := range tasks {
			g.Total += a.ElapsedSeconds
		}
		return []Group{g}
	}

	index := map[string]int{}
	var groups []Group
	for _, a := range tasks {
		at := a.DeletedAt.In(loc)
		key := GroupKey(at, by)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key, Title: GroupTitle(at, by)})
		}
		groups[i].Tasks = append(groups[i].Tasks, a)
		groups[i].Total += a.ElapsedSeconds
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Key > groups[j].Key
	})
	return groups
}
