package formatter

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"gitlab.gbv.de/nationallizenzen/nl-export/models/plone"
)

// CSV writes <name>.csv: semicolon separated, every field quoted,
// CRLF line ends and a header line. List fields are comma-joined.
type CSV struct {
	path   string
	file   *os.File
	writer *bufio.Writer
}

func NewCSV(destDir, name string) *CSV {
	return &CSV{path: filepath.Join(destDir, name+".csv")}
}

func (f *CSV) Path() string {
	return f.path
}

// Open creates the file and writes the header line.
func (f *CSV) Open() error {
	file, err := os.Create(f.path)
	if err != nil {
		return err
	}
	f.file = file
	f.writer = bufio.NewWriter(file)
	return f.AddRow(nil)
}

func (f *CSV) AddRow(data *plone.LicenceData) error {
	var values []string
	if data == nil {
		values = Fields
	} else {
		row := NewRow(data)
		values = make([]string, len(row))
		for i, field := range row {
			if field.IsList {
				values[i] = strings.Join(field.Tokens, ",")
			} else {
				values[i] = field.Text
			}
		}
	}
	return f.writeLine(values)
}

func (f *CSV) writeLine(values []string) error {
	for i, value := range values {
		if i > 0 {
			f.writer.WriteByte(';')
		}
		f.writer.WriteByte('"')
		f.writer.WriteString(strings.ReplaceAll(value, `"`, `""`))
		f.writer.WriteByte('"')
	}
	_, err := f.writer.WriteString("\r\n")
	return err
}

func (f *CSV) Close() error {
	if f.file == nil {
		return nil
	}
	flushErr := f.writer.Flush()
	closeErr := f.file.Close()
	f.file = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
