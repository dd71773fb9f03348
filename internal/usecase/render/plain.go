package render

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

func writePlain(doc document) string {
	var sb strings.Builder
	sb.WriteString(strings.ToUpper(doc.Title))
	sb.WriteString("\n")

	for _, s := range doc.Sections {
		fmt.Fprintf(&sb, "\n%s\n%s\n", s.Heading, strings.Repeat("=", utf8.RuneCountInString(s.Heading)))

		if s.Text != "" {
			sb.WriteString(s.Text)
			sb.WriteString("\n")
		}
		for _, fl := range s.Fields {
			fmt.Fprintf(&sb, "%s: %s\n", fl.Label, fl.Value)
		}

		for i, it := range s.Items {
			indent := ""
			if it.Title != "" {
				fmt.Fprintf(&sb, "%s\n", it.Title)
				indent = "  "
			}
			for j, fl := range it.Fields {
				switch {
				case it.Title != "":
					fmt.Fprintf(&sb, "%s%s: %s\n", indent, fl.Label, fl.Value)
				case j == 0:
					fmt.Fprintf(&sb, "%d) %s: %s\n", i+1, fl.Label, fl.Value)
				default:
					fmt.Fprintf(&sb, "   %s: %s\n", fl.Label, fl.Value)
				}
			}
			for _, l := range it.Lists {
				fmt.Fprintf(&sb, "%s%s:\n", indent, l.Label)
				for n, e := range l.Entries {
					fmt.Fprintf(&sb, "%s  %d. %s\n", indent, n+1, e)
				}
			}
		}
	}

	return sb.String()
}
