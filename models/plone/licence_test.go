package plone_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.gbv.de/nationallizenzen/nl-export/models/plone"
)

const licenceeJSON = `{
  "@id": "https://cms.example.org/licencees/uni-a",
  "@type": "NLInstitution",
  "UID": "a1b2c3",
  "uid": "uni-a",
  "review_state": "active",
  "title": "Universität A",
  "street": "Hauptstraße 1",
  "zip": "37073",
  "city": "Göttingen",
  "county": {"token": "NI", "title": "Niedersachsen"},
  "country": "Deutschland",
  "ezb_id": ["ezb1", "ezb2"],
  "subscriper_group": {"token": "uni", "title": "Universitäten"},
  "ipv4_allow": ["10.0.0.0/8", 42, "192.168.0.1"],
  "ipv4_deny": null,
  "shib_provider_id": "https://idp.uni-a.example/shibboleth",
  "modified": "2024-01-02T03:04:05+00:00"
}`

func TestLicenceeUnmarshal(t *testing.T) {
	licencee := &plone.Licencee{}
	require.NoError(t, json.Unmarshal([]byte(licenceeJSON), licencee))

	assert.Equal(t, "https://cms.example.org/licencees/uni-a", licencee.ID)
	assert.Equal(t, "a1b2c3", licencee.UID)
	assert.Equal(t, "uni-a", licencee.UserName)
	assert.Equal(t, "Universität A", licencee.Title)
	assert.Equal(t, plone.LookupField("Niedersachsen"), licencee.County)
	assert.Equal(t, plone.LookupField("Deutschland"), licencee.Country)
	assert.Equal(t, plone.LookupField("Universitäten"), licencee.SubscriberGroup)
	assert.Equal(t, plone.StringList{"ezb1", "ezb2"}, licencee.EzbID)
	assert.Equal(t, plone.StringList{"10.0.0.0/8", "192.168.0.1"}, licencee.IPv4Allow)
	assert.Empty(t, licencee.IPv4Deny)
	assert.JSONEq(t, licenceeJSON, string(licencee.Raw))
}

func TestLicenceeMissingFields(t *testing.T) {
	licencee := &plone.Licencee{}
	require.NoError(t, json.Unmarshal([]byte(`{"@id": "x", "county": 7, "ezb_id": "not-a-list"}`), licencee))
	assert.Equal(t, plone.LookupField(""), licencee.County)
	assert.Equal(t, plone.LookupField(""), licencee.Country)
	assert.Empty(t, licencee.EzbID)
	assert.Empty(t, licencee.IPv4Allow)
	assert.Empty(t, licencee.IPv4Deny)
}

func TestLookupField(t *testing.T) {
	cases := map[string]plone.LookupField{
		`"plain"`:                      "plain",
		`{"token": "x", "title": "X"}`: "X",
		`{"token": "x"}`:               "",
		`null`:                         "",
		`12`:                           "",
		`["a"]`:                        "",
	}
	for input, expected := range cases {
		var field plone.LookupField
		require.NoError(t, json.Unmarshal([]byte(input), &field), input)
		assert.Equal(t, expected, field, input)
	}
}

func TestStringList(t *testing.T) {
	cases := map[string]plone.StringList{
		`["a", "b"]`:        {"a", "b"},
		`[]`:                {},
		`null`:              {},
		`"a"`:               {},
		`{"a": "b"}`:        {},
		`["a", null, true]`: {"a"},
	}
	for input, expected := range cases {
		var list plone.StringList
		require.NoError(t, json.Unmarshal([]byte(input), &list), input)
		assert.Equal(t, len(expected), len(list), input)
		for i := range expected {
			assert.Equal(t, expected[i], list[i], input)
		}
	}
}

func TestLicenceExpandedLicencee(t *testing.T) {
	data := `{
	  "@id": "https://cms.example.org/p/model/lic-1",
	  "@type": "NLLicence",
	  "UID": "lic1",
	  "licencee": {"@id": "https://cms.example.org/licencees/uni-a", "title": "Universität A"},
	  "@components": {"completerelations": {"licencee": ` + licenceeJSON + `}}
	}`
	licence := &plone.Licence{}
	require.NoError(t, json.Unmarshal([]byte(data), licence))
	assert.Equal(t, "lic1", licence.UID)
	require.NotNil(t, licence.Licencee)
	assert.Equal(t, "https://cms.example.org/licencees/uni-a", licence.Licencee.ID)
	assert.JSONEq(t, data, string(licence.Raw))

	licencee, err := licence.ExpandedLicencee()
	require.NoError(t, err)
	require.NotNil(t, licencee)
	assert.Equal(t, "uni-a", licencee.UserName)
	assert.JSONEq(t, licenceeJSON, string(licencee.Raw))
}

func TestLicenceWithoutExpansion(t *testing.T) {
	for _, data := range []string{
		`{"@id": "x"}`,
		`{"@id": "x", "@components": {"completerelations": {"licencee": null}}}`,
	} {
		licence := &plone.Licence{}
		require.NoError(t, json.Unmarshal([]byte(data), licence))
		licencee, err := licence.ExpandedLicencee()
		assert.NoError(t, err)
		assert.Nil(t, licencee)
	}
}
