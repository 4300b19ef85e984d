package formatter_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.gbv.de/nationallizenzen/nl-export/export/formatter"
	"gitlab.gbv.de/nationallizenzen/nl-export/models/plone"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9_.-]*$`)

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Springer Online Journal Archive": "springer_online_journal_archive",
		"Oxford Journals (1849-1995)":     "oxford_journals_1849-1995",
		"Gmünder Ärzteblatt":              "gmunder_arzteblatt",
		"Crème brûlée v1.2":               "creme_brulee_v1.2",
		"Straße":                          "strae",
		"":                                "",
		"???":                             "",
	}
	for title, expected := range cases {
		assert.Equal(t, expected, formatter.Slug(title), title)
	}
}

func TestSlugProperties(t *testing.T) {
	titles := []string{
		"Nationallizenz: Walter de Gruyter / Zeitschriften",
		"ÄÖÜ äöü ß € 中文 \t\n",
		strings.Repeat("Überlange Titel ", 40),
		strings.Repeat("é", 300),
		"../../etc/passwd",
	}
	for _, title := range titles {
		slug := formatter.Slug(title)
		assert.True(t, slugPattern.MatchString(slug), slug)
		assert.LessOrEqual(t, len(slug), 255, title)
		assert.Equal(t, strings.ToLower(slug), slug)
		assert.Equal(t, slug, formatter.Slug(slug), "slug must be idempotent")
	}
	assert.Len(t, formatter.Slug(strings.Repeat("é", 300)), 255)
}

func TestArtifactName(t *testing.T) {
	model := &plone.LicenceModelRef{UID: "0123abcd", Title: "Springer Archive"}
	assert.Equal(t, "springer_archive", formatter.ArtifactName(model))

	model.Title = "中文"
	assert.Equal(t, "0123abcd", formatter.ArtifactName(model))

	model.Title = ".."
	assert.Equal(t, "0123abcd", formatter.ArtifactName(model))

	model.UID = ""
	assert.Equal(t, "export", formatter.ArtifactName(model))
}
