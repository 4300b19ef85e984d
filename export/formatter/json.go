package formatter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gitlab.gbv.de/nationallizenzen/nl-export/models/plone"
)

// JSON writes the directory <name>/ with one <user name>.json per
// licencee, holding the payload exactly as the server sent it.
type JSON struct {
	path    string
	written map[string]bool
}

func NewJSON(destDir, name string) *JSON {
	return &JSON{path: filepath.Join(destDir, name), written: make(map[string]bool)}
}

func (f *JSON) Path() string {
	return f.path
}

// Open creates the directory and removes licencee files left by an
// earlier run, so the directory holds only this run's records.
func (f *JSON) Open() error {
	if err := os.MkdirAll(f.path, 0755); err != nil {
		return err
	}
	entries, err := os.ReadDir(f.path)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.HasSuffix(entry.Name(), ".json") {
			if err := os.Remove(filepath.Join(f.path, entry.Name())); err != nil {
				return err
			}
		}
	}
	f.written = make(map[string]bool)
	return nil
}

// AddRow writes one licencee file. The header sentinel is a no-op.
func (f *JSON) AddRow(data *plone.LicenceData) error {
	if data == nil || data.Licencee == nil {
		return nil
	}
	payload := []byte(data.Licencee.Raw)
	if len(payload) == 0 {
		var err error
		if payload, err = json.Marshal(data.Licencee); err != nil {
			return err
		}
	}
	name := fileName(data.Licencee)
	if f.written[name] {
		// Two licencees share a user name.
		name = name + "_" + fileName(&plone.Licencee{UserName: data.Licencee.UID})
	}
	f.written[name] = true
	return os.WriteFile(filepath.Join(f.path, name+".json"), payload, 0644)
}

func (f *JSON) Close() error {
	return nil
}

// fileName keeps the user name as it is, apart from characters that
// would leave the directory.
func fileName(l *plone.Licencee) string {
	for _, candidate := range []string{l.UserName, l.UID} {
		name := strings.Map(func(r rune) rune {
			if r == '/' || r == '\\' || r == 0 {
				return '_'
			}
			return r
		}, strings.TrimSpace(candidate))
		if strings.Trim(name, ".") != "" {
			return name
		}
	}
	return "licencee"
}
