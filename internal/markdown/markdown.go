// Package markdown splits README content into heading-delimited sections.
package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

// Section is one heading-delimited chunk of a markdown document
type Section struct {
	Slug    string
	Title   string
	Content string
	Level   int
}

var headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*\s*$`)

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// SplitSections splits markdown into sections at level-1 and level-2
// headings. Text before the first heading becomes an "overview" section.
// Headings inside fenced code blocks do not start sections.
func SplitSections(content string) []Section {
	var sections []Section
	var current *Section
	var body []string
	inFence := false

	flush := func() {
		if current == nil {
			return
		}
		current.Content = strings.TrimSpace(strings.Join(body, "\n"))
		if current.Content != "" || current.Title != "" {
			sections = append(sections, *current)
		}
		body = nil
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
		}

		if !inFence {
			if match := headingPattern.FindStringSubmatch(line); match != nil && len(match[1]) <= 2 {
				flush()
				title := stripInlineMarkup(match[2])
				current = &Section{
					Slug:  Slugify(title),
					Title: title,
					Level: len(match[1]),
				}
				continue
			}
		}

		if current == nil {
			current = &Section{Slug: "overview", Title: "Overview"}
		}
		body = append(body, line)
	}
	flush()

	return dedupeSlugs(sections)
}

// Slugify turns a heading title into a stable lowercase slug
func Slugify(title string) string {
	slug := slugCleaner.ReplaceAllString(strings.ToLower(title), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "section"
	}
	return slug
}

// stripInlineMarkup removes link and emphasis markers from a heading
func stripInlineMarkup(title string) string {
	// [text](url) keeps just the text
	if open := strings.Index(title, "["); open >= 0 {
		if mid := strings.Index(title[open:], "]("); mid >= 0 {
			if end := strings.Index(title[open+mid:], ")"); end >= 0 {
				title = title[:open] + title[open+1:open+mid] + title[open+mid+end+1:]
			}
		}
	}
	title = strings.ReplaceAll(title, "`", "")
	title = strings.ReplaceAll(title, "**", "")
	return strings.TrimSpace(title)
}

// dedupeSlugs suffixes repeated slugs so each stays unique in order
func dedupeSlugs(sections []Section) []Section {
	counts := make(map[string]int, len(sections))
	for i := range sections {
		slug := sections[i].Slug
		counts[slug]++
		if counts[slug] > 1 {
			sections[i].Slug = slug + "-" + strconv.Itoa(counts[slug])
		}
	}
	return sections
}
