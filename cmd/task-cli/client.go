package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-resty/resty/v2"
)

func newAPIClient(opts *rootOptions) *resty.Client {
	return resty.New().
		SetBaseURL(strings.TrimRight(opts.baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(opts.timeout)
}

// checkResponse turns a non-2xx answer into an error carrying the API's detail message.
func checkResponse(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	var body struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Detail != nil {
		return fmt.Errorf("%s: %v", resp.Status(), body.Detail)
	}
	return fmt.Errorf("%s: %s", resp.Status(), strings.TrimSpace(resp.String()))
}

func printJSON(w io.Writer, raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		_, err = fmt.Fprintln(w, string(raw))
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
