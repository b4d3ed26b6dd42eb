package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/url"

	"github.com/sirupsen/logrus"
)

type apiCall struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// fakeAPI answers every call with the raw JSON registered for its
// method and path.
type fakeAPI struct {
	responses map[string]string
	errs      map[string]error
	calls     []apiCall
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{responses: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeAPI) on(method, path, body string) {
	f.responses[method+" "+path] = body
}

func (f *fakeAPI) fail(method, path string, err error) {
	f.errs[method+" "+path] = err
}

func (f *fakeAPI) do(method, path string, query url.Values, body, out any) error {
	var raw []byte
	if body != nil {
		raw, _ = json.Marshal(body)
	}
	f.calls = append(f.calls, apiCall{Method: method, Path: path, Query: query, Body: raw})

	key := method + " " + path
	if err := f.errs[key]; err != nil {
		return err
	}
	if resp, ok := f.responses[key]; ok && out != nil {
		return json.Unmarshal([]byte(resp), out)
	}
	return nil
}

func (f *fakeAPI) Get(_ context.Context, path string, query url.Values, out any) error {
	return f.do("GET", path, query, nil, out)
}

func (f *fakeAPI) Post(_ context.Context, path string, body, out any) error {
	return f.do("POST", path, nil, body, out)
}

func (f *fakeAPI) Put(_ context.Context, path string, body, out any) error {
	return f.do("PUT", path, nil, body, out)
}

func (f *fakeAPI) Delete(_ context.Context, path string) error {
	return f.do("DELETE", path, nil, nil, nil)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
