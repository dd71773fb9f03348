package render

import (
	"encoding/xml"
)

type xmlDocument struct {
	XMLName  xml.Name     `xml:"meetingSummary"`
	Language string       `xml:"language,attr"`
	Title    string       `xml:"title"`
	Sections []xmlSection `xml:"section"`
}

type xmlSection struct {
	Number  int        `xml:"number,attr"`
	Key     string     `xml:"key,attr"`
	Heading string     `xml:"heading"`
	Text    string     `xml:"text,omitempty"`
	Fields  []xmlField `xml:"field"`
	Items   []xmlItem  `xml:"item"`
}

type xmlItem struct {
	Index  int        `xml:"index,attr"`
	Title  string     `xml:"title,attr,omitempty"`
	Fields []xmlField `xml:"field"`
	Lists  []xmlList  `xml:"list"`
}

type xmlField struct {
	Name  string `xml:"name,attr"`
	Label string `xml:"label,attr"`
	Value string `xml:",chardata"`
}

type xmlList struct {
	Name    string   `xml:"name,attr"`
	Label   string   `xml:"label,attr"`
	Entries []string `xml:"entry"`
}

func writeXML(doc document) string {
	out := xmlDocument{
		Language: doc.Language,
		Title:    doc.Title,
	}
	for _, s := range doc.Sections {
		xs := xmlSection{
			Number:  s.Number,
			Key:     s.Key,
			Heading: s.Heading,
			Text:    s.Text,
			Fields:  toXMLFields(s.Fields),
		}
		for i, it := range s.Items {
			xi := xmlItem{Index: i + 1, Title: it.Title, Fields: toXMLFields(it.Fields)}
			for _, l := range it.Lists {
				xi.Lists = append(xi.Lists, xmlList{Name: l.Key, Label: l.Label, Entries: l.Entries})
			}
			xs.Items = append(xs.Items, xi)
		}
		out.Sections = append(out.Sections, xs)
	}

	b, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		// only strings and ints are marshalled, so this cannot happen
		return xml.Header
	}
	return xml.Header + string(b) + "\n"
}

func toXMLFields(fields []field) []xmlField {
	out := make([]xmlField, 0, len(fields))
	for _, f := range fields {
		out = append(out, xmlField{Name: f.Key, Label: f.Label, Value: f.Value})
	}
	return out
}
