package render

import (
	"fmt"
	"strings"
)

func writeMarkdown(doc document) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", doc.Title)

	for _, s := range doc.Sections {
		fmt.Fprintf(&sb, "\n## %s\n\n", s.Heading)

		if s.Text != "" {
			sb.WriteString(s.Text)
			sb.WriteString("\n")
		}
		for _, fl := range s.Fields {
			fmt.Fprintf(&sb, "- **%s:** %s\n", fl.Label, fl.Value)
		}

		for i, it := range s.Items {
			if it.Title != "" {
				if i > 0 {
					sb.WriteString("\n")
				}
				fmt.Fprintf(&sb, "### %s\n\n", it.Title)
				for _, fl := range it.Fields {
					fmt.Fprintf(&sb, "- **%s:** %s\n", fl.Label, fl.Value)
				}
				for _, l := range it.Lists {
					if len(it.Fields) > 0 {
						fmt.Fprintf(&sb, "- **%s:**\n", l.Label)
						for _, e := range l.Entries {
							fmt.Fprintf(&sb, "  - %s\n", e)
						}
						continue
					}
					for n, e := range l.Entries {
						fmt.Fprintf(&sb, "%d. %s\n", n+1, e)
					}
				}
				continue
			}

			for j, fl := range it.Fields {
				if j == 0 {
					fmt.Fprintf(&sb, "%d. **%s:** %s\n", i+1, fl.Label, fl.Value)
					continue
				}
				fmt.Fprintf(&sb, "   - **%s:** %s\n", fl.Label, fl.Value)
			}
		}
	}

	return sb.String()
}
