package sharepoint

import (
	"encoding/json"
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// checkResponse returns a *googleapi.Error for non-2xx responses, with the
// OData error message copied into Message when the body carries one.
func checkResponse(res *http.Response) error {
	err := googleapi.CheckResponse(res)
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Message == "" {
		gerr.Message = odataMessage([]byte(gerr.Body))
	}
	return err
}

type odataError struct {
	Code    string `json:"code"`
	Message struct {
		Lang  string `json:"lang"`
		Value string `json:"value"`
	} `json:"message"`
}

func odataMessage(body []byte) string {
	var reply struct {
		NoMetadata *odataError `json:"odata.error"`
		Verbose    *odataError `json:"error"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return ""
	}
	switch {
	case reply.NoMetadata != nil:
		return reply.NoMetadata.Message.Value
	case reply.Verbose != nil:
		return reply.Verbose.Message.Value
	}
	return ""
}

// StatusCode returns the HTTP status carried by err, or 0 when err did not
// come from an HTTP response (transport failure, cancellation).
func StatusCode(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return 0
}

// IsNotFound reports whether err is an HTTP 404 from the site.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
