package export_test

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gitlab.gbv.de/nationallizenzen/nl-export/network"
	"gitlab.gbv.de/nationallizenzen/nl-export/util/logger"
	"gitlab.gbv.de/nationallizenzen/nl-export/util/testutil"
)

const (
	testToken    = "secret-token"
	productPath  = "/products/springer"
	standardPath = "/products/springer/standard"
	optInPath    = "/products/springer/optin"
	standardUID  = "0123456789abcdef0123456789abcdef"
	pageSize     = 2
)

var testLogger = logger.Discard()

// portal is a fake licence portal with one product, its two licence
// models and a configurable set of licences below the standard model.
type portal struct {
	*testutil.PloneServer
	client *network.PloneClient
}

func newPortal(t *testing.T) *portal {
	server := testutil.NewPloneServer(testToken)
	t.Cleanup(server.Close)
	client, err := network.NewPloneClient(server.URL, testToken, 5*time.Second, testLogger)
	require.NoError(t, err)
	p := &portal{PloneServer: server, client: client}
	p.addModels()
	return p
}

func (p *portal) url(path string) string {
	return p.URL + path
}

func (p *portal) host() string {
	return strings.TrimPrefix(p.URL, "http://")
}

func (p *portal) addModels() {
	p.HandleJSON(productPath, fmt.Sprintf(`{
		"@id": %q, "@type": "NLProduct", "UID": "product-uid", "title": "Springer Archiv",
		"items": [
			{"@id": %q, "@type": "NLOptInLicenceModel", "title": "Opt-In"},
			{"@id": %q, "@type": "NLStandardLicenceModel", "title": "Standard"}
		]}`, p.url(productPath), p.url(optInPath), p.url(standardPath)))
	p.HandleJSON(standardPath, fmt.Sprintf(`{
		"@id": %q, "@type": "NLStandardLicenceModel", "UID": %q, "title": "Standard",
		"parent": {"@id": %q, "@type": "NLProduct", "title": "Springer Archiv"}}`,
		p.url(standardPath), standardUID, p.url(productPath)))
	p.HandleJSON(optInPath, fmt.Sprintf(`{
		"@id": %q, "@type": "NLOptInLicenceModel", "UID": "optin-uid", "title": "Opt-In Modell",
		"parent": {"@id": %q, "@type": "Folder", "title": "Ordner"}}`,
		p.url(optInPath), p.url("/products")))
	p.Handle("/resolveuid/"+standardUID, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, p.url(standardPath), http.StatusFound)
	})
}

func licencePath(n int) string {
	return fmt.Sprintf("%s/lic-%d", standardPath, n)
}

func licenceePath(n int) string {
	return fmt.Sprintf("/licencees/inst-%d", n)
}

func (p *portal) licenceeJSON(n int) string {
	return fmt.Sprintf(`{
		"@id": %q, "@type": "NLInstitution", "UID": "inst-uid-%d", "uid": "inst-%d",
		"review_state": "active", "title": "Institution %d", "city": "Göttingen",
		"ezb_id": ["ezb-%d"], "ipv4_allow": null}`, p.url(licenceePath(n)), n, n, n, n)
}

// addLicences registers n licences with their licencees. Licences
// listed in broken reply 500, and their licencee 404. Licences listed
// in flat come without embedded licencee.
func (p *portal) addLicences(n int, broken, flat []int) {
	isIn := func(list []int, i int) bool {
		for _, v := range list {
			if v == i {
				return true
			}
		}
		return false
	}
	for i := 1; i <= n; i++ {
		switch {
		case isIn(broken, i):
			p.Handle(licencePath(i), testutil.HttpErrorResponder(http.StatusInternalServerError, "Error", "broken"))
		case isIn(flat, i):
			p.HandleJSON(licencePath(i), fmt.Sprintf(`{"@id": %q, "@type": "NLLicence",
				"licencee": {"@id": %q}}`, p.url(licencePath(i)), p.url(licenceePath(i))))
			p.HandleJSON(licenceePath(i), p.licenceeJSON(i))
		default:
			p.HandleJSON(licencePath(i), fmt.Sprintf(`{"@id": %q, "@type": "NLLicence",
				"@components": {"completerelations": {"licencee": %s}}}`,
				p.url(licencePath(i)), p.licenceeJSON(i)))
		}
		p.HandleJSON(licenceePath(i)+"/@workflow", `{"state": {"id": "active", "title": "Aktiv"}}`)
	}
	p.Handle("/@search", p.searchHandler(n))
}

// searchHandler answers short name searches and licence searches in
// batches of pageSize. The opt-in model never has licences.
func (p *portal) searchHandler(licences int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		total := licences
		if query.Get("path") == optInPath {
			total = 0
		}
		if id := query.Get("id"); id != "" {
			items := ""
			switch id {
			case "springer":
				items = fmt.Sprintf(`{"@id": %q, "@type": "NLProduct"}`, p.url(productPath))
			case "twice":
				items = fmt.Sprintf(`{"@id": %q}, {"@id": %q}`, p.url(productPath), p.url(standardPath))
			}
			testutil.HttpJSONResponder(http.StatusOK, `{"items_total": 0, "items": [`+items+`]}`)(w, r)
			return
		}
		size := pageSize
		if b, err := strconv.Atoi(query.Get("b_size")); err == nil {
			size = b
		}
		start, _ := strconv.Atoi(query.Get("b_start"))
		items := make([]string, 0)
		for i := start + 1; i <= total && i <= start+size; i++ {
			items = append(items, fmt.Sprintf(`{"@id": %q, "UID": "lic-%d", "review_state": "active",
				"licencee": {"@id": %q, "title": "Institution %d"}}`,
				p.url(licencePath(i)), i, p.url(licenceePath(i)), i))
		}
		batching := ""
		if start+size < total {
			next := *r.URL
			q := next.Query()
			q.Set("b_start", strconv.Itoa(start+size))
			next.RawQuery = q.Encode()
			batching = fmt.Sprintf(`, "batching": {"next": %q}`, p.URL+next.RequestURI())
		}
		testutil.HttpJSONResponder(http.StatusOK, fmt.Sprintf(`{"items_total": %d, "items": [%s]%s}`,
			total, strings.Join(items, ","), batching))(w, r)
	}
}

func newRedisStore(server *testutil.RedisServer) *network.RedisClient {
	return network.NewRedisClient(server.Addr(), "", 0, time.Hour)
}
