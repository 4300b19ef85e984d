package formatter

import (
	"encoding/xml"
	"os"
	"path/filepath"

	"gitlab.gbv.de/nationallizenzen/nl-export/constants"
	"gitlab.gbv.de/nationallizenzen/nl-export/models/plone"
)

type xmlInstitutions struct {
	XMLName      xml.Name `xml:"nl:institutions"`
	Namespace    string   `xml:"xmlns:nl,attr"`
	Institutions []xmlInstitution
}

type xmlInstitution struct {
	XMLName xml.Name `xml:"nl:institution"`
	Fields  []xmlField
}

type xmlField struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
	Tokens  []xmlToken
}

type xmlToken struct {
	XMLName xml.Name `xml:"nl:token"`
	Text    string   `xml:",chardata"`
}

// XML writes <name>.xml with one nl:institution per row. The tree is
// kept in memory and written on Close.
type XML struct {
	path string
	file *os.File
	root *xmlInstitutions
}

func NewXML(destDir, name string) *XML {
	return &XML{path: filepath.Join(destDir, name+".xml")}
}

func (f *XML) Path() string {
	return f.path
}

// Open creates the file, so that problems with the destination show
// up before any data is fetched.
func (f *XML) Open() error {
	file, err := os.Create(f.path)
	if err != nil {
		return err
	}
	f.file = file
	f.root = &xmlInstitutions{Namespace: constants.NLNamespace}
	return nil
}

// AddRow appends an institution. The header sentinel is a no-op.
func (f *XML) AddRow(data *plone.LicenceData) error {
	if data == nil {
		return nil
	}
	row := NewRow(data)
	institution := xmlInstitution{Fields: make([]xmlField, len(row))}
	for i, field := range row {
		node := xmlField{XMLName: xml.Name{Local: "nl:" + field.Name}}
		if field.IsList {
			node.Tokens = make([]xmlToken, len(field.Tokens))
			for j, token := range field.Tokens {
				node.Tokens[j] = xmlToken{Text: token}
			}
		} else {
			node.Text = field.Text
		}
		institution.Fields[i] = node
	}
	f.root.Institutions = append(f.root.Institutions, institution)
	return nil
}

// Close serializes the tree with an XML declaration and two-space
// indentation.
func (f *XML) Close() error {
	if f.file == nil {
		return nil
	}
	file := f.file
	f.file = nil
	if _, err := file.WriteString(xml.Header); err != nil {
		file.Close()
		return err
	}
	encoder := xml.NewEncoder(file)
	encoder.Indent("", "  ")
	if err := encoder.Encode(f.root); err != nil {
		file.Close()
		return err
	}
	if _, err := file.WriteString("\n"); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
