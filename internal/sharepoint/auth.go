package sharepoint

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"google.golang.org/api/googleapi"
)

const (
	// principalID is the well-known SharePoint Online application principal.
	principalID = "00000003-0000-0ff1-ce00-000000000000"

	acsTokenURL = "https://accounts.accesscontrol.windows.net/%s/tokens/OAuth/2"
)

// DiscoverRealm asks the site for its tenant realm. SharePoint answers an
// empty bearer challenge with a 401 whose WWW-Authenticate header names the realm.
func DiscoverRealm(ctx context.Context, client *http.Client, siteURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(siteURL, "/")+"/_vti_bin/client.svc", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer")

	res, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("discover realm: %w", err)
	}
	defer googleapi.CloseBody(res)

	realm := parseRealm(res.Header.Get("WWW-Authenticate"))
	if realm == "" {
		return "", fmt.Errorf("discover realm: no realm in challenge (status %d)", res.StatusCode)
	}
	return realm, nil
}

// parseRealm extracts realm="..." from a Bearer challenge.
func parseRealm(challenge string) string {
	for _, part := range strings.Split(challenge, ",") {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(part, "Bearer ")
		key, value, ok := strings.Cut(part, "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "realm") {
			continue
		}
		return strings.Trim(strings.TrimSpace(value), `"`)
	}
	return ""
}

// tokenConfig builds the ACS client credentials grant for the site host.
func tokenConfig(site *url.URL, realm, clientID, clientSecret string) *clientcredentials.Config {
	return &clientcredentials.Config{
		ClientID:     clientID + "@" + realm,
		ClientSecret: clientSecret,
		TokenURL:     fmt.Sprintf(acsTokenURL, realm),
		EndpointParams: url.Values{
			"resource": {principalID + "/" + site.Host + "@" + realm},
		},
		AuthStyle: oauth2.AuthStyleInParams,
	}
}
