package formatter

import (
	"gitlab.gbv.de/nationallizenzen/nl-export/models/plone"
)

// Fields are the column names, in output order.
var Fields = []string{
	"user_name",
	"status",
	"title",
	"street",
	"zip",
	"city",
	"county",
	"country",
	"telephone",
	"fax",
	"email",
	"url",
	"contactperson",
	"sigel",
	"ezb_id",
	"subscriber_group",
	"ipv4_allow",
	"ipv4_deny",
	"shib_provider_id",
	"zuid",
	"mtime",
}

// Field is one cell of a row. List fields carry Tokens instead of
// Text.
type Field struct {
	Name   string
	Text   string
	Tokens []string
	IsList bool
}

// NewRow flattens data into one Field per entry in Fields. A nil
// data, or one without licencee, gives a row of empty fields.
func NewRow(data *plone.LicenceData) []Field {
	l := &plone.Licencee{}
	status := ""
	if data != nil {
		if data.Licencee != nil {
			l = data.Licencee
		}
		status = data.StateTitle
	}
	text := func(name, value string) Field {
		return Field{Name: name, Text: value}
	}
	list := func(name string, values plone.StringList) Field {
		tokens := make([]string, len(values))
		copy(tokens, values)
		return Field{Name: name, Tokens: tokens, IsList: true}
	}
	return []Field{
		text("user_name", l.UserName),
		text("status", status),
		text("title", l.Title),
		text("street", l.Street),
		text("zip", l.Zip),
		text("city", l.City),
		text("county", string(l.County)),
		text("country", string(l.Country)),
		text("telephone", l.Telephone),
		text("fax", l.Fax),
		text("email", l.Email),
		text("url", l.URL),
		text("contactperson", l.ContactPerson),
		text("sigel", l.Sigel),
		list("ezb_id", l.EzbID),
		text("subscriber_group", string(l.SubscriberGroup)),
		list("ipv4_allow", l.IPv4Allow),
		list("ipv4_deny", l.IPv4Deny),
		text("shib_provider_id", l.ShibProviderID),
		text("zuid", l.UID),
		text("mtime", l.Modified),
	}
}
