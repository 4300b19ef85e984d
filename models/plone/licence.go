package plone

import (
	"bytes"
	"encoding/json"

	jsoniter "github.com/json-iterator/go"
)

// Licence is the detail view of an NLLicence. Raw holds the payload
// it was decoded from.
type Licence struct {
	ID          string     `json:"@id"`
	Type        string     `json:"@type"`
	UID         string     `json:"UID"`
	Title       string     `json:"title"`
	ReviewState string     `json:"review_state"`
	Modified    string     `json:"modified"`
	Licencee    *EntityRef `json:"licencee"`
	Components  struct {
		CompleteRelations struct {
			Licencee json.RawMessage `json:"licencee"`
		} `json:"completerelations"`
	} `json:"@components"`
	Raw json.RawMessage `json:"-"`
}

func (l *Licence) UnmarshalJSON(data []byte) error {
	type licence Licence
	if err := json.Unmarshal(data, (*licence)(l)); err != nil {
		return err
	}
	l.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// ExpandedLicencee returns the licencee embedded by
// expand=completerelations, or nil if the server did not embed one.
func (l *Licence) ExpandedLicencee() (*Licencee, error) {
	raw := bytes.TrimSpace(l.Components.CompleteRelations.Licencee)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	licencee := &Licencee{}
	if err := json.Unmarshal(raw, licencee); err != nil {
		return nil, err
	}
	return licencee, nil
}

// Licencee is an institution holding licences. Lookup and list
// fields are normalized while decoding. Raw keeps the payload as
// the server sent it.
type Licencee struct {
	ID              string          `json:"@id"`
	Type            string          `json:"@type"`
	UID             string          `json:"UID"`
	UserName        string          `json:"uid"`
	ReviewState     string          `json:"review_state"`
	Title           string          `json:"title"`
	Street          string          `json:"street"`
	Zip             string          `json:"zip"`
	City            string          `json:"city"`
	County          LookupField     `json:"county"`
	Country         LookupField     `json:"country"`
	Telephone       string          `json:"telephone"`
	Fax             string          `json:"fax"`
	Email           string          `json:"email"`
	URL             string          `json:"url"`
	ContactPerson   string          `json:"contactperson"`
	Sigel           string          `json:"sigel"`
	EzbID           StringList      `json:"ezb_id"`
	SubscriberGroup LookupField     `json:"subscriper_group"`
	IPv4Allow       StringList      `json:"ipv4_allow"`
	IPv4Deny        StringList      `json:"ipv4_deny"`
	ShibProviderID  string          `json:"shib_provider_id"`
	Modified        string          `json:"modified"`
	Raw             json.RawMessage `json:"-"`
}

func (l *Licencee) UnmarshalJSON(data []byte) error {
	type licencee Licencee
	if err := json.Unmarshal(data, (*licencee)(l)); err != nil {
		return err
	}
	l.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// LookupField is a vocabulary value. The server sends either a term
// object like {"token": "DE", "title": "Deutschland"} or a plain
// string. Objects decode to their title, strings as they are and
// anything else to "".
type LookupField string

func (f *LookupField) UnmarshalJSON(data []byte) error {
	var value interface{}
	var json = jsoniter.ConfigCompatibleWithStandardLibrary
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	switch v := value.(type) {
	case string:
		*f = LookupField(v)
	case map[string]interface{}:
		title, _ := v["title"].(string)
		*f = LookupField(title)
	default:
		*f = ""
	}
	return nil
}

// StringList is a multi-valued text field. Arrays decode to their
// string entries. null, absent and any other shape decode to an
// empty list.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var values []interface{}
	var json = jsoniter.ConfigCompatibleWithStandardLibrary
	if err := json.Unmarshal(data, &values); err != nil {
		*s = StringList{}
		return nil
	}
	list := make(StringList, 0, len(values))
	for _, value := range values {
		if str, ok := value.(string); ok {
			list = append(list, str)
		}
	}
	*s = list
	return nil
}

// LicenceData is everything the formatters need for one row.
type LicenceData struct {
	Pair       LicencePair
	Licence    *Licence
	Licencee   *Licencee
	StateTitle string
}
