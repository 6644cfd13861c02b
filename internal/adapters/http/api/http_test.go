package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/okian/enrichdash/internal/adapters/http/api"
	"github.com/okian/enrichdash/internal/app"
	. "github.com/smartystreets/goconvey/convey"
)

const (
	testMaxBody   = 1024
	testMaxUpload = 4096
)

func newTestHandler(opts ...api.Option) http.Handler {
	opts = append([]api.Option{api.WithMaxBodyBytes(testMaxBody), api.WithMaxUploadBytes(testMaxUpload)}, opts...)
	srv := api.NewServer(app.New(), opts...)
	mux := http.NewServeMux()
	srv.Register(context.Background(), mux)
	return srv.Handler(mux)
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func multipartBody(field, filename string, content []byte) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		panic(err)
	}
	if _, err := fw.Write(content); err != nil {
		panic(err)
	}
	if err := mw.Close(); err != nil {
		panic(err)
	}
	return &buf, mw.FormDataContentType()
}

func uploadRequest(field, filename string, content []byte) *http.Request {
	body, contentType := multipartBody(field, filename, content)
	req := httptest.NewRequest(http.MethodPost, "/api/upload-csv", body)
	req.Header.Set("Content-Type", contentType)
	return req
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		h := newTestHandler()

		Convey("When calling GET /api/hello", func() {
			w := do(h, httptest.NewRequest(http.MethodGet, "/api/hello", nil))

			Convey("Then it returns the greeting as JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
				So(w.Body.String(), ShouldEqual, `{"message":"Hello from the lead enrichment backend!"}`+"\n")
			})
		})

		Convey("When calling the health and metrics endpoints", func() {
			do(h, httptest.NewRequest(http.MethodGet, "/api/contacts", nil))
			health := do(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			m := do(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			Convey("Then both answer 200", func() {
				So(health.Code, ShouldEqual, http.StatusOK)
				So(health.Body.String(), ShouldContainSubstring, `"status":"ok"`)
				So(m.Code, ShouldEqual, http.StatusOK)
				So(m.Body.String(), ShouldContainSubstring, `enrichdash_api_http_requests_total{endpoint="contacts"`)
			})
		})

		Convey("When using the wrong method on a known path", func() {
			w := do(h, httptest.NewRequest(http.MethodGet, "/api/echo", nil))

			Convey("Then the mux answers 405", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})

		Convey("When calling an unknown path", func() {
			w := do(h, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))

			Convey("Then it answers 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})

	Convey("Given a nil mux", t, func() {
		srv := api.NewServer(app.New())

		Convey("Then Register panics", func() {
			So(func() { srv.Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}

func TestFixedDataEndpoints(t *testing.T) {
	Convey("Given the fixed-data endpoints", t, func() {
		h := newTestHandler()
		paths := []string{"/api/dashboard", "/api/enrichments", "/api/contacts", "/api/campaigns", "/api/settings", "/api/history"}

		Convey("Then two consecutive calls return byte-identical JSON", func() {
			for _, p := range paths {
				first := do(h, httptest.NewRequest(http.MethodGet, p, nil))
				second := do(h, httptest.NewRequest(http.MethodGet, p, nil))
				So(first.Code, ShouldEqual, http.StatusOK)
				So(first.Header().Get("Content-Type"), ShouldStartWith, "application/json")
				So(second.Body.String(), ShouldEqual, first.Body.String())
			}
		})

		Convey("Then concurrent calls all agree", func() {
			want := do(h, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)).Body.String()
			var (
				wg     sync.WaitGroup
				mu     sync.Mutex
				bodies []string
			)
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					body := do(h, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)).Body.String()
					mu.Lock()
					bodies = append(bodies, body)
					mu.Unlock()
				}()
			}
			wg.Wait()
			for _, b := range bodies {
				So(b, ShouldEqual, want)
			}
		})

		Convey("When decoding the dashboard", func() {
			var d struct {
				EnrichmentsOverTime []int            `json:"enrichments_over_time"`
				SuccessVsFailed     map[string][]int `json:"success_vs_failed"`
			}
			w := do(h, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
			So(json.Unmarshal(w.Body.Bytes(), &d), ShouldBeNil)

			Convey("Then the chart shapes hold", func() {
				So(d.EnrichmentsOverTime, ShouldHaveLength, 7)
				So(d.SuccessVsFailed, ShouldNotBeEmpty)
				for _, pair := range d.SuccessVsFailed {
					So(pair, ShouldHaveLength, 2)
				}
			})
		})

		Convey("When decoding the history", func() {
			var entries []map[string]string
			w := do(h, httptest.NewRequest(http.MethodGet, "/api/history", nil))
			So(json.Unmarshal(w.Body.Bytes(), &entries), ShouldBeNil)

			Convey("Then every entry carries the documented string fields", func() {
				So(entries, ShouldHaveLength, 5)
				for _, e := range entries {
					for _, k := range []string{"id", "company_name", "domain", "agent", "disposition", "remarks", "headquarters", "created_at"} {
						So(e, ShouldContainKey, k)
					}
				}
			})
		})
	})
}

func TestEcho(t *testing.T) {
	Convey("Given POST /api/echo", t, func() {
		h := newTestHandler()
		post := func(body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/api/echo", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			return do(h, req)
		}

		Convey("When sending a JSON object", func() {
			payload := `{"big":12345678901234567890,"html":"<b>&</b>","nested":{"list":[1,2.50,{"x":null}]},"ok":true}`
			w := post(payload)

			Convey("Then it is returned unchanged under you_sent", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldEqual, `{"you_sent":`+payload+"}\n")
			})
		})

		Convey("When sending an empty object", func() {
			w := post("  {}  ")

			Convey("Then it echoes the empty object", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldEqual, `{"you_sent":{}}`+"\n")
			})
		})

		Convey("When sending non-object bodies", func() {
			for _, body := range []string{`[1,2]`, `"text"`, `42`, `null`, ``, `{"a":`, `{} {}`} {
				w := post(body)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "invalid_input")
			}
		})

		Convey("When a string holds bytes that are not UTF-8", func() {
			w := post("{\"a\":\"\xff\"}")

			Convey("Then it is rejected instead of echoed", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "invalid_input")
				So(body["message"], ShouldContainSubstring, "UTF-8")
			})
		})

		Convey("When the body exceeds the limit", func() {
			w := post(`{"pad":"` + strings.Repeat("x", testMaxBody) + `"}`)

			Convey("Then it is rejected as invalid input", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["message"], ShouldContainSubstring, "exceeds")
			})
		})
	})
}

func TestUploadCSV(t *testing.T) {
	Convey("Given POST /api/upload-csv", t, func() {
		h := newTestHandler()

		Convey("When uploading a small CSV", func() {
			w := do(h, uploadRequest("file", "leads.csv", []byte("a,b\n1,2\n3,4")))

			Convey("Then rows and the count message are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var resp struct {
					Rows    []map[string]string `json:"rows"`
					Message string              `json:"message"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Rows, ShouldResemble, []map[string]string{{"a": "1", "b": "2"}, {"a": "3", "b": "4"}})
				So(resp.Message, ShouldEqual, "Received 2 rows.")
			})
		})

		Convey("When uploading an empty file", func() {
			w := do(h, uploadRequest("file", "empty.csv", nil))

			Convey("Then an empty row list is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldEqual, `{"rows":[],"message":"Received 0 rows."}`+"\n")
			})
		})

		Convey("When uploading bytes that are not UTF-8", func() {
			w := do(h, uploadRequest("file", "latin1.csv", []byte("name\nJos\xe9\n")))

			Convey("Then a decode error is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "decode_error")
			})
		})

		Convey("When CSV text is named like a workbook", func() {
			w := do(h, uploadRequest("file", "leads.xlsx", []byte("a,b\n1,2")))

			Convey("Then it is parsed as CSV", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldEqual, `{"rows":[{"a":"1","b":"2"}],"message":"Received 1 rows."}`+"\n")
			})
		})

		Convey("When binary bytes are named like a workbook", func() {
			w := do(h, uploadRequest("file", "leads.XLSX", []byte{0xFF, 0xFE, 0x00}))

			Convey("Then a decode error is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "decode_error")
			})
		})

		Convey("When the file field is missing", func() {
			w := do(h, uploadRequest("document", "leads.csv", []byte("a\n1\n")))

			Convey("Then invalid input is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "invalid_input")
				So(body["message"], ShouldContainSubstring, `missing file field "file"`)
			})
		})

		Convey("When the request is not multipart", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/upload-csv", strings.NewReader("a,b\n1,2\n"))
			req.Header.Set("Content-Type", "text/csv")
			w := do(h, req)

			Convey("Then invalid input is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "invalid_input")
			})
		})

		Convey("When the upload exceeds the limit", func() {
			w := do(h, uploadRequest("file", "big.csv", bytes.Repeat([]byte("a,b\n"), testMaxUpload)))

			Convey("Then invalid input is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "invalid_input")
			})
		})
	})
}

func TestAutomationStart(t *testing.T) {
	Convey("Given POST /api/automation/start", t, func() {
		h := newTestHandler()
		post := func(body string) *httptest.ResponseRecorder {
			return do(h, httptest.NewRequest(http.MethodPost, "/api/automation/start", strings.NewReader(body)))
		}

		Convey("When rows is an array of three", func() {
			w := post(`{"rows":[1,2,3]}`)

			Convey("Then three rows are acknowledged", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldEqual, `{"status":"started","received_rows":3}`+"\n")
			})
		})

		Convey("When rows is absent", func() {
			w := post(`{}`)

			Convey("Then zero rows are acknowledged", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldEqual, `{"status":"started","received_rows":0}`+"\n")
			})
		})

		Convey("When rows is not an array", func() {
			for _, body := range []string{`{"rows":"abc"}`, `{"rows":null}`, `{"rows":{"a":1}}`, `{"rows":7}`} {
				w := post(body)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"received_rows":0`)
			}
		})

		Convey("When the body is not an object", func() {
			w := post(`[1,2,3]`)

			Convey("Then invalid input is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "invalid_input")
			})
		})

		Convey("When a row holds bytes that are not UTF-8", func() {
			w := post("{\"rows\":[\"\xc3\x28\"]}")

			Convey("Then invalid input is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "invalid_input")
			})
		})
	})
}

func TestCORS(t *testing.T) {
	Convey("Given the permissive CORS policy", t, func() {
		h := newTestHandler()

		Convey("When a browser sends a preflight", func() {
			req := httptest.NewRequest(http.MethodOptions, "/api/upload-csv", nil)
			req.Header.Set("Origin", "http://localhost:5173")
			req.Header.Set("Access-Control-Request-Method", "POST")
			req.Header.Set("Access-Control-Request-Headers", "content-type, x-custom")
			w := do(h, req)

			Convey("Then every method and the requested headers are allowed with credentials", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "http://localhost:5173")
				So(w.Header().Get("Access-Control-Allow-Credentials"), ShouldEqual, "true")
				So(w.Header().Get("Access-Control-Allow-Methods"), ShouldContainSubstring, "POST")
				So(w.Header().Get("Access-Control-Allow-Headers"), ShouldEqual, "content-type, x-custom")
				So(w.Header().Values("Vary"), ShouldContain, "Origin")
			})
		})

		Convey("When a cross-origin GET is made", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
			req.Header.Set("Origin", "https://dashboard.example")
			w := do(h, req)

			Convey("Then the origin is echoed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "https://dashboard.example")
				So(w.Header().Get("Access-Control-Expose-Headers"), ShouldEqual, "X-Request-ID")
			})
		})

		Convey("When a same-origin request is made", func() {
			w := do(h, httptest.NewRequest(http.MethodGet, "/api/settings", nil))

			Convey("Then no CORS headers are set", func() {
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldBeEmpty)
			})
		})
	})

	Convey("Given a wildcard policy without credentials", t, func() {
		h := newTestHandler(api.WithCORS(api.CORSOptions{AllowOrigins: []string{"*"}}))
		req := httptest.NewRequest(http.MethodGet, "/api/hello", nil)
		req.Header.Set("Origin", "https://a.example")
		w := do(h, req)

		Convey("Then the wildcard is sent", func() {
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
			So(w.Header().Get("Access-Control-Allow-Credentials"), ShouldBeEmpty)
		})
	})

	Convey("Given an allow-list policy", t, func() {
		h := newTestHandler(api.WithCORS(api.CORSOptions{AllowOrigins: []string{"https://ok.example"}}))

		Convey("When an unlisted origin sends a preflight", func() {
			req := httptest.NewRequest(http.MethodOptions, "/api/echo", nil)
			req.Header.Set("Origin", "https://evil.example")
			req.Header.Set("Access-Control-Request-Method", "POST")
			w := do(h, req)

			Convey("Then it is refused", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldBeEmpty)
			})
		})
	})
}

func TestRequestID(t *testing.T) {
	Convey("Given the request id middleware", t, func() {
		h := newTestHandler()

		Convey("When no id is supplied", func() {
			w := do(h, httptest.NewRequest(http.MethodGet, "/api/hello", nil))

			Convey("Then a UUID is assigned", func() {
				So(w.Header().Get("X-Request-ID"), ShouldHaveLength, 36)
			})
		})

		Convey("When the client supplies an id", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/hello", nil)
			req.Header.Set("X-Request-ID", "trace-123")
			w := do(h, req)

			Convey("Then it is propagated", func() {
				So(w.Header().Get("X-Request-ID"), ShouldEqual, "trace-123")
			})
		})
	})
}
